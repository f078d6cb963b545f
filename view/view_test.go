package view

import (
	"testing"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arraykit/arraykit/dtype"
)

func collect[T any](t *testing.T, p dtype.BufferPointer, n int64) []T {
	t.Helper()
	out := make([]T, 0, n)
	size := int64(dtype.DataTypeOf[T]().Size())
	for i := int64(0); i < n; i++ {
		out = append(out, *(*T)(p.At(i, size)))
	}
	return out
}

func TestOf(t *testing.T) {
	s := []int32{10, 20, 30}
	p := Of(s)
	assert.Equal(t, dtype.KindContiguous, p.Kind())
	assert.Equal(t, []int32{10, 20, 30}, collect[int32](t, p, 3))
}

func TestStridedOf(t *testing.T) {
	s := []int64{0, 1, 2, 3, 4, 5, 6}

	p := StridedOf(s, 2)
	assert.Equal(t, dtype.KindStrided, p.Kind())
	assert.Equal(t, int64(16), p.Stride())
	assert.Equal(t, []int64{0, 2, 4, 6}, collect[int64](t, p, 4))

	// A negative step walks the same positions in reverse.
	assert.Equal(t, []int64{6, 4, 2, 0}, collect[int64](t, StridedOf(s, -2), 4))
}

func TestReversed(t *testing.T) {
	s := []float32{1, 2, 3, 4}
	assert.Equal(t, []float32{4, 3, 2, 1}, collect[float32](t, Reversed(s), 4))
}

func TestIndexedOf(t *testing.T) {
	s := []uint16{100, 200, 300, 400}
	p := IndexedOf(s, []int64{3, 0, 3})
	assert.Equal(t, dtype.KindIndexed, p.Kind())
	assert.Equal(t, int64(3), p.Len())
	assert.Equal(t, []uint16{400, 100, 400}, collect[uint16](t, p, 3))

	assert.Panics(t, func() { IndexedOf(s, []int64{4}) })
}

func TestSelected(t *testing.T) {
	s := []int32{0, 10, 20, 30, 40, 50}
	rb := roaring.New()
	rb.AddMany([]uint32{1, 3, 4, 99})

	p, n := Selected(s, rb)
	require.Equal(t, int64(3), n, "bits beyond the slice are ignored")
	assert.Equal(t, []int32{10, 30, 40}, collect[int32](t, p, n))

	// Views feed the dtype bulk operations directly.
	dst := make([]int32, 3)
	k, err := dtype.CopyRange(dtype.DataTypeOf[int32](), n, p, Of(dst))
	require.NoError(t, err)
	assert.Equal(t, int64(3), k)
	assert.Equal(t, []int32{10, 30, 40}, dst)
}

func TestSelectedEmpty(t *testing.T) {
	p, n := Selected([]int64{1, 2, 3}, roaring.New())
	assert.Equal(t, int64(0), n)
	assert.Equal(t, int64(0), p.Len())
}
