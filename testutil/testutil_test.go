package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arraykit/arraykit/dtype"
)

func TestRNGIsDeterministic(t *testing.T) {
	a := NewRNG(4711)
	b := NewRNG(4711)
	assert.Equal(t, a.Ints(100), b.Ints(100))
	assert.Equal(t, a.Strings(50), b.Strings(50))

	a.Reset()
	c := NewRNG(4711)
	assert.Equal(t, c.Ints(10), a.Ints(10))
}

func TestFillBlock(t *testing.T) {
	rng := NewRNG(1)

	b, err := dtype.AllocateBlock[float64](256, dtype.ValueInit)
	require.NoError(t, err)
	defer b.Release()

	rng.FillBlock(b)
	nonZero := 0
	for _, v := range dtype.Slice[float64](b) {
		if v != 0 {
			nonZero++
		}
	}
	assert.Greater(t, nonZero, 200)
}

func TestFillBlockUnsupported(t *testing.T) {
	b, err := dtype.AllocateBlock[complex128](4, dtype.ValueInit)
	require.NoError(t, err)
	defer b.Release()
	assert.Panics(t, func() { NewRNG(1).FillBlock(b) })
}

func TestJSONValuesAreValid(t *testing.T) {
	for _, j := range NewRNG(7).JSONValues(20) {
		assert.True(t, len(j) > 2)
		assert.Equal(t, byte('{'), j[0])
	}
}
