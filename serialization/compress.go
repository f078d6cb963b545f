package serialization

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects the snapshot payload compression algorithm.
type Compression uint8

const (
	// CompressionNone stores the payload raw.
	CompressionNone Compression = 0
	// CompressionLZ4 is fast block compression for hot data.
	CompressionLZ4 Compression = 1
	// CompressionZSTD trades speed for ratio; good for cold data.
	CompressionZSTD Compression = 2
)

// String returns the stable name stored in snapshot headers.
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	default:
		return "invalid"
	}
}

// CompressionByName resolves a header name back to the algorithm.
func CompressionByName(name string) (Compression, bool) {
	switch name {
	case "none":
		return CompressionNone, true
	case "lz4":
		return CompressionLZ4, true
	case "zstd":
		return CompressionZSTD, true
	default:
		return 0, false
	}
}

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

// Block layout: [uncompressedSize uint32][compressedSize uint32][data].
// compressedSize 0 marks a raw block, used when compression does not
// pay for itself.
const blockHeaderSize = 8

// ErrBlockTooLarge is returned when a payload exceeds the uint32 block
// size fields.
var ErrBlockTooLarge = errors.New("serialization: block exceeds 4 GiB")

func checkBlockSize(n int64) error {
	if n > math.MaxUint32 {
		return ErrBlockTooLarge
	}
	return nil
}

func compressBlock(data []byte, c Compression) ([]byte, error) {
	if err := checkBlockSize(int64(len(data))); err != nil {
		return nil, err
	}
	var compressed []byte
	switch c {
	case CompressionLZ4:
		bound := lz4.CompressBlockBound(len(data))
		buf := make([]byte, bound)
		n, err := lz4.CompressBlock(data, buf, nil)
		if err != nil {
			return nil, err
		}
		compressed = buf[:n] // n == 0 means incompressible
	case CompressionZSTD:
		enc := getZstdEncoder()
		compressed = enc.EncodeAll(data, nil)
		zstdEncoderPool.Put(enc)
	}

	if len(compressed) == 0 || len(compressed) >= len(data) {
		out := make([]byte, blockHeaderSize+len(data))
		binary.LittleEndian.PutUint32(out, uint32(len(data)))
		binary.LittleEndian.PutUint32(out[4:], 0)
		copy(out[blockHeaderSize:], data)
		return out, nil
	}

	out := make([]byte, blockHeaderSize+len(compressed))
	binary.LittleEndian.PutUint32(out, uint32(len(data)))
	binary.LittleEndian.PutUint32(out[4:], uint32(len(compressed)))
	copy(out[blockHeaderSize:], compressed)
	return out, nil
}

func decompressBlock(data []byte, c Compression) ([]byte, error) {
	if len(data) < blockHeaderSize {
		return nil, errors.New("serialization: block too small for header")
	}
	uncompressedSize := binary.LittleEndian.Uint32(data)
	compressedSize := binary.LittleEndian.Uint32(data[4:])

	if compressedSize == 0 {
		if uint32(len(data))-blockHeaderSize < uncompressedSize {
			return nil, ErrShortBuffer
		}
		return data[blockHeaderSize : blockHeaderSize+uncompressedSize], nil
	}

	if uint32(len(data))-blockHeaderSize < compressedSize {
		return nil, ErrShortBuffer
	}
	payload := data[blockHeaderSize : blockHeaderSize+compressedSize]
	out := make([]byte, uncompressedSize)

	switch c {
	case CompressionLZ4:
		n, err := lz4.UncompressBlock(payload, out)
		if err != nil {
			return nil, err
		}
		if uint32(n) != uncompressedSize {
			return nil, errors.New("serialization: decompressed size mismatch")
		}
		return out, nil
	case CompressionZSTD:
		dec := getZstdDecoder()
		decoded, err := dec.DecodeAll(payload, out[:0])
		zstdDecoderPool.Put(dec)
		if err != nil {
			return nil, err
		}
		if uint32(len(decoded)) != uncompressedSize {
			return nil, errors.New("serialization: decompressed size mismatch")
		}
		return decoded, nil
	default:
		return nil, fmt.Errorf("serialization: compressed block with %q compression", c)
	}
}
