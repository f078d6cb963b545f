package arraykit

import (
	"strings"

	"github.com/arraykit/arraykit/dtype"
)

// Array pairs a data type handle with a reference-counted block of its
// elements. The zero value is not usable; create arrays with NewArray.
type Array[T any] struct {
	block *dtype.Block
}

// NewArray allocates an array of n value-initialized elements.
func NewArray[T any](n int64) (*Array[T], error) {
	b, err := dtype.AllocateBlock[T](n, dtype.ValueInit)
	if err != nil {
		return nil, err
	}
	return &Array[T]{block: b}, nil
}

// FromSlice allocates an array holding a copy of s.
func FromSlice[T any](s []T) (*Array[T], error) {
	a, err := NewArray[T](int64(len(s)))
	if err != nil {
		return nil, err
	}
	copy(a.Slice(), s)
	return a, nil
}

// DataType returns the element type handle.
func (a *Array[T]) DataType() dtype.DataType { return a.block.DataType() }

// Len returns the element count.
func (a *Array[T]) Len() int64 { return a.block.Len() }

// Block exposes the underlying block, e.g. for serialization. The
// array keeps its reference; callers who retain the block must Retain
// it themselves.
func (a *Array[T]) Block() *dtype.Block { return a.block }

// Slice returns the elements as a []T sharing the array's memory.
func (a *Array[T]) Slice() []T { return dtype.Slice[T](a.block) }

// Release drops the array's block reference.
func (a *Array[T]) Release() { a.block.Release() }

// Equal reports whether both arrays hold the same elements, using the
// element type's compare operation.
func (a *Array[T]) Equal(b *Array[T]) bool {
	if a.Len() != b.Len() {
		return false
	}
	n := a.Len()
	return dtype.CompareRange(a.DataType(), n, a.block.Buffer(), b.block.Buffer()) == n
}

// CopyFrom copy-assigns src's elements into a. The lengths must match.
func (a *Array[T]) CopyFrom(src *Array[T]) error {
	_, err := dtype.CopyRange(a.DataType(), a.Len(), src.block.Buffer(), a.block.Buffer())
	return err
}

// String renders the array like "int32[1, 2, 3]" using the element
// type's append operation. Long arrays are elided.
func (a *Array[T]) String() string {
	const maxElems = 16

	var sb strings.Builder
	sb.WriteString(a.DataType().Name())
	sb.WriteByte('[')
	buf := make([]byte, 0, 32)
	for i := int64(0); i < a.Len(); i++ {
		if i == maxElems {
			sb.WriteString(", ...")
			break
		}
		if i > 0 {
			sb.WriteString(", ")
		}
		buf = dtype.AppendElement(a.DataType(), buf[:0], a.block.Buffer().At(i, int64(a.DataType().Size())))
		sb.Write(buf)
	}
	sb.WriteByte(']')
	return sb.String()
}
