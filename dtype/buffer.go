package dtype

import "unsafe"

// BufferKind selects how a run of elements is addressed during a bulk
// operation. Every operation-table slot that iterates has one entry per
// kind so that callers never have to materialize a different layout.
type BufferKind uint8

const (
	// KindContiguous addresses elements at base + i*elemSize.
	KindContiguous BufferKind = iota
	// KindStrided addresses elements at base + i*stride. The stride is in
	// bytes, may exceed the element size to skip padding, and may be
	// negative to traverse in reverse. It must be a multiple of the
	// element alignment.
	KindStrided
	// KindIndexed addresses each element through an explicit address
	// list. Used when elements are scattered arbitrarily, e.g. selected
	// by a coordinate transform.
	KindIndexed

	numBufferKinds int = iota
)

// NumBufferKinds is the number of buffer iteration kinds.
const NumBufferKinds = numBufferKinds

// String returns the kind name for diagnostics.
func (k BufferKind) String() string {
	switch k {
	case KindContiguous:
		return "contiguous"
	case KindStrided:
		return "strided"
	case KindIndexed:
		return "indexed"
	default:
		return "invalid"
	}
}

// BufferPointer describes one run of n contiguous, strided, or scattered
// elements for a bulk operation. It is a non-owning view: the memory it
// describes must outlive every operation invoked on it, and disjoint
// views may be operated on concurrently.
type BufferPointer struct {
	kind   BufferKind
	ptr    unsafe.Pointer
	stride int64
	addrs  []unsafe.Pointer
}

// ContiguousBuffer returns a view addressing elements tightly packed at p.
func ContiguousBuffer(p unsafe.Pointer) BufferPointer {
	return BufferPointer{kind: KindContiguous, ptr: p}
}

// StridedBuffer returns a view addressing element i at p + i*byteStride.
func StridedBuffer(p unsafe.Pointer, byteStride int64) BufferPointer {
	return BufferPointer{kind: KindStrided, ptr: p, stride: byteStride}
}

// IndexedBuffer returns a view addressing element i at addrs[i].
// The address list must cover every requested element.
func IndexedBuffer(addrs []unsafe.Pointer) BufferPointer {
	return BufferPointer{kind: KindIndexed, addrs: addrs}
}

// Kind reports how this view addresses elements.
func (p BufferPointer) Kind() BufferKind { return p.kind }

// Stride returns the byte stride for strided views, or 0 otherwise.
func (p BufferPointer) Stride() int64 { return p.stride }

// Len returns the address-list length for indexed views, or -1 for
// linear views, whose length is bounded only by the caller.
func (p BufferPointer) Len() int64 {
	if p.kind == KindIndexed {
		return int64(len(p.addrs))
	}
	return -1
}

// At returns the address of element i. elemSize is required for the
// contiguous kind, whose stride is implicit.
func (p BufferPointer) At(i, elemSize int64) unsafe.Pointer {
	switch p.kind {
	case KindContiguous:
		return unsafe.Add(p.ptr, i*elemSize)
	case KindStrided:
		return unsafe.Add(p.ptr, i*p.stride)
	default:
		return p.addrs[i]
	}
}
