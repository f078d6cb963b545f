package serialization

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompressBlockRoundTrip(t *testing.T) {
	data := bytes.Repeat([]byte("typed array payload "), 64)

	for _, c := range []Compression{CompressionNone, CompressionLZ4, CompressionZSTD} {
		blk, err := compressBlock(data, c)
		require.NoError(t, err, c.String())

		out, err := decompressBlock(blk, c)
		require.NoError(t, err, c.String())
		assert.Equal(t, data, out, c.String())
	}
}

func TestCompressBlockIncompressibleStaysRaw(t *testing.T) {
	data := []byte{0x01}
	blk, err := compressBlock(data, CompressionLZ4)
	require.NoError(t, err)

	// compressedSize 0 marks the raw fallback.
	assert.Zero(t, blk[4]|blk[5]|blk[6]|blk[7])

	out, err := decompressBlock(blk, CompressionLZ4)
	require.NoError(t, err)
	assert.Equal(t, data, out)
}

func TestBlockSizeBound(t *testing.T) {
	assert.NoError(t, checkBlockSize(math.MaxUint32))
	assert.ErrorIs(t, checkBlockSize(math.MaxUint32+1), ErrBlockTooLarge)
	assert.ErrorIs(t, checkBlockSize(math.MaxInt64), ErrBlockTooLarge)
}
