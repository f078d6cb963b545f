package dtype

import "math"

// Byte is an opaque 8-bit value. It is distinct from Uint8: no arithmetic
// meaning is implied and renderings differ.
type Byte byte

// Char is an 8-bit character element.
type Char byte

// Float16 holds the bit pattern of an IEEE 754 binary16 value.
type Float16 uint16

// BFloat16 holds the bit pattern of a brain floating point value
// (the upper 16 bits of an IEEE 754 binary32).
type BFloat16 uint16

// String is a byte string element of arbitrary length.
type String string

// Ustring is a unicode (UTF-8) string element.
type Ustring string

// JSON is a JSON value element, stored as compact JSON text.
// Equality is structural, not textual: {"a":1,"b":2} equals {"b":2,"a":1}.
type JSON []byte

// Float32 converts the binary16 bit pattern to a float32.
func (f Float16) Float32() float32 {
	sign := uint32(f>>15) & 1
	exp := uint32(f>>10) & 0x1f
	frac := uint32(f) & 0x3ff

	var bits32 uint32
	switch {
	case exp == 0 && frac == 0: // signed zero
		bits32 = sign << 31
	case exp == 0: // subnormal: renormalize
		e := uint32(127 - 15 + 1)
		for frac&0x400 == 0 {
			frac <<= 1
			e--
		}
		frac &= 0x3ff
		bits32 = sign<<31 | e<<23 | frac<<13
	case exp == 0x1f: // inf / nan
		bits32 = sign<<31 | 0xff<<23 | frac<<13
	default:
		bits32 = sign<<31 | (exp-15+127)<<23 | frac<<13
	}
	return math.Float32frombits(bits32)
}

// Float16FromFloat32 converts a float32 to the nearest binary16 value,
// rounding to nearest even.
func Float16FromFloat32(v float32) Float16 {
	bits := math.Float32bits(v)
	sign := uint16(bits>>16) & 0x8000
	exp := int32(bits>>23&0xff) - 127 + 15
	frac := bits & 0x7fffff

	switch {
	case exp >= 0x1f: // overflow or inf/nan
		if bits&0x7fffffff > 0x7f800000 { // nan: keep payload bit
			return Float16(sign | 0x7e00)
		}
		return Float16(sign | 0x7c00)
	case exp <= 0:
		if exp < -10 {
			return Float16(sign)
		}
		// subnormal
		frac |= 0x800000
		shift := uint32(14 - exp)
		half := uint32(1) << (shift - 1)
		return Float16(sign | uint16((frac+half+(frac>>shift&1))>>shift))
	default:
		rounded := frac + 0xfff + (frac >> 13 & 1)
		if rounded&0x800000 != 0 {
			rounded = 0
			exp++
			if exp >= 0x1f {
				return Float16(sign | 0x7c00)
			}
		}
		return Float16(sign | uint16(exp)<<10 | uint16(rounded>>13))
	}
}

// Float32 converts the bfloat16 bit pattern to a float32.
func (f BFloat16) Float32() float32 {
	return math.Float32frombits(uint32(f) << 16)
}

// BFloat16FromFloat32 truncates a float32 to bfloat16, rounding to
// nearest even.
func BFloat16FromFloat32(v float32) BFloat16 {
	bits := math.Float32bits(v)
	if bits&0x7fffffff > 0x7f800000 { // nan: avoid rounding into inf
		return BFloat16(bits>>16 | 0x40)
	}
	return BFloat16((bits + 0x7fff + (bits >> 16 & 1)) >> 16)
}
