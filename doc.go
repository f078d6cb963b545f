// Package arraykit provides runtime element-type descriptors and typed
// array buffers for Go.
//
// The dtype package is the core: a closed registry of canonical element
// types (plus derived descriptors for custom Go types), per-type
// operation tables for bulk construct/copy/compare over contiguous,
// strided, and scattered memory, and reference-counted typed
// allocation. This root package adds Array, a small generic facade
// pairing a data type with its allocated block.
//
// # Quick start
//
//	a, err := arraykit.NewArray[float32](1024)
//	if err != nil {
//	    panic(err)
//	}
//	defer a.Release()
//
//	copy(a.Slice(), data)
//	b, _ := arraykit.NewArray[float32](1024)
//	defer b.Release()
//	b.CopyFrom(a)
//	fmt.Println(a.Equal(b)) // true
//
// Snapshots persist arrays to any blobstore.Store:
//
//	err = serialization.Save(ctx, store, "vectors.ak", a.Block(), serialization.SaveOptions{
//	    Compression: serialization.CompressionZSTD,
//	})
//
// Erased (non-generic) use goes through dtype.DataType handles
// directly; see the dtype package documentation.
package arraykit
