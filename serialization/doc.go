// Package serialization defines the wire form of element data.
//
// Wire returns per-identity functions for byte swapping and canonical
// little-endian stream encoding; AppendDataType/DecodeDataType carry a
// data type across the wire by registry name. Save and Load persist a
// whole typed block to a blobstore.Store as a self-describing,
// checksummed, optionally compressed snapshot.
package serialization
