// Package blobstore abstracts the storage backend used for array
// snapshots.
//
// Store is the write-once interface snapshots are persisted through.
// Implementations must be safe for concurrent use.
//
// # Built-in implementations
//
//   - MemoryStore: in-memory, for tests
//   - LocalStore: local filesystem with mmap reads and atomic renames
//   - CachingStore: block-level read cache wrapping any Store
//   - s3.Store: Amazon S3 with range reads and managed multipart uploads
//   - minio.Store: MinIO and other S3-compatible endpoints
//
// Backends that serve partial reads efficiently should implement
// ReadRange natively; local blobs additionally implement Mappable for
// zero-copy access.
package blobstore
