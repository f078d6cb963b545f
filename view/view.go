package view

import (
	"unsafe"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/arraykit/arraykit/dtype"
)

// Of returns a contiguous view over s. The view does not keep s alive;
// the caller must hold the slice for as long as the view is in use.
func Of[T any](s []T) dtype.BufferPointer {
	if len(s) == 0 {
		return dtype.ContiguousBuffer(nil)
	}
	return dtype.ContiguousBuffer(unsafe.Pointer(&s[0]))
}

// StridedOf returns a view over s that visits every step-th element.
// A negative step traverses backwards starting from the last element
// that a forward traversal with -step would visit, so StridedOf(s, -1)
// is the reverse of s. A step of 0 pins the view to s[0].
func StridedOf[T any](s []T, step int64) dtype.BufferPointer {
	var elem T
	es := int64(unsafe.Sizeof(elem))
	if len(s) == 0 {
		return dtype.StridedBuffer(nil, step*es)
	}
	base := unsafe.Pointer(&s[0])
	if step < 0 {
		// Anchor at the last visited element of the forward traversal.
		count := (int64(len(s)) + (-step) - 1) / (-step)
		base = unsafe.Add(base, (count-1)*(-step)*es)
	}
	return dtype.StridedBuffer(base, step*es)
}

// Reversed returns a view that visits s back to front.
func Reversed[T any](s []T) dtype.BufferPointer {
	return StridedOf(s, -1)
}

// IndexedOf returns a view addressing s[indices[i]] as element i.
// Out-of-range indices panic at construction.
func IndexedOf[T any](s []T, indices []int64) dtype.BufferPointer {
	addrs := make([]unsafe.Pointer, len(indices))
	for i, idx := range indices {
		addrs[i] = unsafe.Pointer(&s[idx])
	}
	return dtype.IndexedBuffer(addrs)
}

// Selected returns an indexed view over the elements of s whose
// positions are set in the bitmap, in ascending position order, along
// with the selected element count. Bits at or beyond len(s) are
// ignored.
func Selected[T any](s []T, rb *roaring.Bitmap) (dtype.BufferPointer, int64) {
	n := uint32(len(s))
	addrs := make([]unsafe.Pointer, 0, rb.GetCardinality())
	it := rb.Iterator()
	for it.HasNext() {
		idx := it.Next()
		if idx >= n {
			break
		}
		addrs = append(addrs, unsafe.Pointer(&s[idx]))
	}
	return dtype.IndexedBuffer(addrs), int64(len(addrs))
}
