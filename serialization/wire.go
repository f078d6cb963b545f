package serialization

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"unsafe"

	"github.com/arraykit/arraykit/dtype"
)

// WireFuncs is the wire-format function set for one builtin identity.
// Encode and Decode define the canonical little-endian stream form:
// raw fixed-width values for trivial identities, uvarint
// length-delimited bytes for string identities, and length-delimited
// compact JSON for json elements. SwapInPlace and SwapCopy are nil for
// one-byte and non-trivial identities, where byte order does not apply.
type WireFuncs struct {
	// SwapInPlace reverses the byte order of n contiguous elements at p.
	SwapInPlace func(p unsafe.Pointer, n int64)
	// SwapCopy copies n elements from src to dst, reversing byte order.
	// The ranges must not overlap.
	SwapCopy func(dst, src unsafe.Pointer, n int64)
	// Encode appends the canonical encoding of n contiguous elements at
	// p to dst.
	Encode func(dst []byte, p unsafe.Pointer, n int64) ([]byte, error)
	// Decode reads n elements from src into the contiguous constructed
	// elements at p and returns the unconsumed remainder.
	Decode func(src []byte, p unsafe.Pointer, n int64) ([]byte, error)
}

// ErrShortBuffer is returned when a decode runs out of input.
var ErrShortBuffer = io.ErrUnexpectedEOF

// Wire returns the wire-format functions for dt's identity. ok is
// false for custom data types, which have no defined wire form.
func Wire(dt dtype.DataType) (WireFuncs, bool) {
	if !dt.Valid() || dt.ID() == dtype.IDCustom {
		return WireFuncs{}, false
	}
	return wireTable[dt.ID()], true
}

var wireTable [dtype.NumIDs]WireFuncs

func init() {
	raw := rawWire(1)
	for _, id := range []dtype.ID{dtype.IDBool, dtype.IDByte, dtype.IDChar, dtype.IDInt8, dtype.IDUint8} {
		wireTable[id] = raw
	}

	// Multi-byte trivial identities swap and encode by lane width.
	// Complex values are two independent float lanes.
	lane := func(width int, lanes int64) WireFuncs {
		f := fixedWire(width)
		if lanes == 1 {
			return f
		}
		return WireFuncs{
			SwapInPlace: func(p unsafe.Pointer, n int64) { f.SwapInPlace(p, n*lanes) },
			SwapCopy:    func(dst, src unsafe.Pointer, n int64) { f.SwapCopy(dst, src, n*lanes) },
			Encode: func(dst []byte, p unsafe.Pointer, n int64) ([]byte, error) {
				return f.Encode(dst, p, n*lanes)
			},
			Decode: func(src []byte, p unsafe.Pointer, n int64) ([]byte, error) {
				return f.Decode(src, p, n*lanes)
			},
		}
	}

	for _, id := range []dtype.ID{dtype.IDInt16, dtype.IDUint16, dtype.IDFloat16, dtype.IDBFloat16} {
		wireTable[id] = lane(2, 1)
	}
	for _, id := range []dtype.ID{dtype.IDInt32, dtype.IDUint32, dtype.IDFloat32} {
		wireTable[id] = lane(4, 1)
	}
	for _, id := range []dtype.ID{dtype.IDInt64, dtype.IDUint64, dtype.IDFloat64} {
		wireTable[id] = lane(8, 1)
	}
	wireTable[dtype.IDComplex64] = lane(4, 2)
	wireTable[dtype.IDComplex128] = lane(8, 2)

	wireTable[dtype.IDString] = stringWire()
	wireTable[dtype.IDUstring] = stringWire()
	wireTable[dtype.IDJSON] = jsonWire()
}

// rawWire handles one-byte identities: host form is wire form.
func rawWire(width int64) WireFuncs {
	return WireFuncs{
		Encode: func(dst []byte, p unsafe.Pointer, n int64) ([]byte, error) {
			return append(dst, unsafe.Slice((*byte)(p), n*width)...), nil
		},
		Decode: func(src []byte, p unsafe.Pointer, n int64) ([]byte, error) {
			if int64(len(src)) < n*width {
				return nil, ErrShortBuffer
			}
			copy(unsafe.Slice((*byte)(p), n*width), src)
			return src[n*width:], nil
		},
	}
}

func fixedWire(width int) WireFuncs {
	w := int64(width)
	swap := func(p unsafe.Pointer, n int64) {
		b := unsafe.Slice((*byte)(p), n*w)
		for i := int64(0); i < n; i++ {
			e := b[i*w : (i+1)*w]
			for l, r := 0, width-1; l < r; l, r = l+1, r-1 {
				e[l], e[r] = e[r], e[l]
			}
		}
	}
	return WireFuncs{
		SwapInPlace: swap,
		SwapCopy: func(dst, src unsafe.Pointer, n int64) {
			copy(unsafe.Slice((*byte)(dst), n*w), unsafe.Slice((*byte)(src), n*w))
			swap(dst, n)
		},
		Encode: func(dst []byte, p unsafe.Pointer, n int64) ([]byte, error) {
			for i := int64(0); i < n; i++ {
				e := unsafe.Add(p, i*w)
				switch width {
				case 2:
					dst = binary.LittleEndian.AppendUint16(dst, *(*uint16)(e))
				case 4:
					dst = binary.LittleEndian.AppendUint32(dst, *(*uint32)(e))
				default:
					dst = binary.LittleEndian.AppendUint64(dst, *(*uint64)(e))
				}
			}
			return dst, nil
		},
		Decode: func(src []byte, p unsafe.Pointer, n int64) ([]byte, error) {
			if int64(len(src)) < n*w {
				return nil, ErrShortBuffer
			}
			for i := int64(0); i < n; i++ {
				e := unsafe.Add(p, i*w)
				chunk := src[i*w:]
				switch width {
				case 2:
					*(*uint16)(e) = binary.LittleEndian.Uint16(chunk)
				case 4:
					*(*uint32)(e) = binary.LittleEndian.Uint32(chunk)
				default:
					*(*uint64)(e) = binary.LittleEndian.Uint64(chunk)
				}
			}
			return src[n*w:], nil
		},
	}
}

// stringWire serves both string identities; the named types share the
// string layout.
func stringWire() WireFuncs {
	size := int64(unsafe.Sizeof(""))
	return WireFuncs{
		Encode: func(dst []byte, p unsafe.Pointer, n int64) ([]byte, error) {
			for i := int64(0); i < n; i++ {
				s := *(*string)(unsafe.Add(p, i*size))
				dst = binary.AppendUvarint(dst, uint64(len(s)))
				dst = append(dst, s...)
			}
			return dst, nil
		},
		Decode: func(src []byte, p unsafe.Pointer, n int64) ([]byte, error) {
			for i := int64(0); i < n; i++ {
				length, k := binary.Uvarint(src)
				if k <= 0 || uint64(len(src)-k) < length {
					return nil, ErrShortBuffer
				}
				*(*string)(unsafe.Add(p, i*size)) = string(src[k : k+int(length)])
				src = src[k+int(length):]
			}
			return src, nil
		},
	}
}

func jsonWire() WireFuncs {
	size := int64(unsafe.Sizeof(dtype.JSON(nil)))
	return WireFuncs{
		Encode: func(dst []byte, p unsafe.Pointer, n int64) ([]byte, error) {
			var buf bytes.Buffer
			for i := int64(0); i < n; i++ {
				j := *(*dtype.JSON)(unsafe.Add(p, i*size))
				if len(j) == 0 {
					j = dtype.JSON("null")
				}
				buf.Reset()
				if err := json.Compact(&buf, j); err != nil {
					return nil, fmt.Errorf("serialization: element %d: %w", i, err)
				}
				dst = binary.AppendUvarint(dst, uint64(buf.Len()))
				dst = append(dst, buf.Bytes()...)
			}
			return dst, nil
		},
		Decode: func(src []byte, p unsafe.Pointer, n int64) ([]byte, error) {
			for i := int64(0); i < n; i++ {
				length, k := binary.Uvarint(src)
				if k <= 0 || uint64(len(src)-k) < length {
					return nil, ErrShortBuffer
				}
				*(*dtype.JSON)(unsafe.Add(p, i*size)) = bytes.Clone(src[k : k+int(length)])
				src = src[k+int(length):]
			}
			return src, nil
		},
	}
}

// AppendDataType appends dt's registry name as a uvarint
// length-delimited token.
func AppendDataType(dst []byte, dt dtype.DataType) []byte {
	name := dt.Name()
	dst = binary.AppendUvarint(dst, uint64(len(name)))
	return append(dst, name...)
}

// DecodeDataType reads a name token and resolves it through the
// registry. Unknown names fail with dtype.ErrNoSuchDataType.
func DecodeDataType(src []byte) (dtype.DataType, []byte, error) {
	length, k := binary.Uvarint(src)
	if k <= 0 || uint64(len(src)-k) < length {
		return dtype.DataType{}, nil, ErrShortBuffer
	}
	name := string(src[k : k+int(length)])
	dt, err := dtype.FromName(name)
	if err != nil {
		return dtype.DataType{}, nil, err
	}
	return dt, src[k+int(length):], nil
}
