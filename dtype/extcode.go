package dtype

import (
	"sync"
	"sync/atomic"
)

// Interchange type codes follow the array-protocol numbering used by
// the host numeric-array ecosystem, so handles can be exchanged with
// external descriptors without a name round trip.
//
// TypeCodeNone marks identities with no static code.
const TypeCodeNone = -1

// maxStaticTypeCode bounds the dense reverse table.
const maxStaticTypeCode = 23

var typeCodeForID = [numIDs]int{
	IDBool:       0,
	IDByte:       2, // shares the unsigned 8-bit code
	IDChar:       1, // shares the signed 8-bit code
	IDInt8:       1,
	IDUint8:      2,
	IDInt16:      3,
	IDUint16:     4,
	IDInt32:      5,
	IDUint32:     6,
	IDInt64:      7,
	IDUint64:     8,
	IDFloat16:    23,
	IDBFloat16:   TypeCodeNone, // registered dynamically, see RegisterBFloat16TypeCode
	IDFloat32:    11,
	IDFloat64:    12,
	IDComplex64:  14,
	IDComplex128: 15,
	IDString:     18,
	IDUstring:    19,
	IDJSON:       17, // object code carries boxed JSON values
}

// idForTypeCode is dense: unmapped codes hold IDCustom. Several codes
// alias one identity (the ecosystem distinguishes platform widths we
// collapse), and byte/char have no reverse entry of their own.
var idForTypeCode = func() [maxStaticTypeCode + 1]ID {
	var t [maxStaticTypeCode + 1]ID
	for i := range t {
		t[i] = IDCustom
	}
	t[0] = IDBool
	t[1] = IDInt8
	t[2] = IDUint8
	t[3] = IDInt16
	t[4] = IDUint16
	t[5] = IDInt32
	t[6] = IDUint32
	t[7] = IDInt64
	t[8] = IDUint64
	t[9] = IDInt64 // long long
	t[10] = IDUint64
	t[11] = IDFloat32
	t[12] = IDFloat64
	t[14] = IDComplex64
	t[15] = IDComplex128
	t[17] = IDJSON
	t[18] = IDString
	t[19] = IDUstring
	t[23] = IDFloat16
	return t
}()

// bfloat16Code holds the dynamically-assigned interchange code for the
// bfloat16 identity. The host ecosystem assigns it at process start;
// registration is exactly-once, so concurrent first-use from multiple
// initialization paths converges on a single code.
var bfloat16Code = func() *atomic.Int64 {
	var v atomic.Int64
	v.Store(TypeCodeNone)
	return &v
}()

var bfloat16Once sync.Once

// RegisterBFloat16TypeCode records the interchange code of the bfloat16
// identity. Only the first call takes effect; every call returns the
// effective code. Safe for concurrent use.
func RegisterBFloat16TypeCode(code int) int {
	bfloat16Once.Do(func() {
		bfloat16Code.Store(int64(code))
	})
	return int(bfloat16Code.Load())
}

// BFloat16TypeCode returns the registered bfloat16 code, or false if no
// initialization path has registered one yet.
func BFloat16TypeCode() (int, bool) {
	c := int(bfloat16Code.Load())
	return c, c != TypeCodeNone
}

// TypeCode returns the interchange type code for a canonical handle.
// Custom types and identities whose code is not (yet) known fail with
// *ErrUnmappedTypeCode. Panics on an invalid handle.
func TypeCode(dt DataType) (int, error) {
	desc := dt.deref()
	if desc.id == IDCustom {
		return TypeCodeNone, &ErrUnmappedTypeCode{Name: desc.name}
	}
	if desc.id == IDBFloat16 {
		if c, ok := BFloat16TypeCode(); ok {
			return c, nil
		}
		return TypeCodeNone, &ErrUnmappedTypeCode{Name: desc.name}
	}
	if c := typeCodeForID[desc.id]; c != TypeCodeNone {
		return c, nil
	}
	return TypeCodeNone, &ErrUnmappedTypeCode{Name: desc.name}
}

// FromTypeCode returns the canonical handle for an interchange type
// code. The dynamically-registered bfloat16 code is honored first;
// out-of-range or unmapped codes fail with *ErrUnmappedTypeCode.
func FromTypeCode(code int) (DataType, error) {
	if c, ok := BFloat16TypeCode(); ok && code == c {
		return ByID(IDBFloat16), nil
	}
	if code < 0 || code > maxStaticTypeCode {
		return DataType{}, &ErrUnmappedTypeCode{Code: code}
	}
	id := idForTypeCode[code]
	if id == IDCustom {
		return DataType{}, &ErrUnmappedTypeCode{Code: code}
	}
	return ByID(id), nil
}

// ScalarKind classifies how a single element of a handle is boxed when
// handed to a host-language binding.
type ScalarKind uint8

const (
	// ScalarNumeric elements box through the numeric-array ecosystem.
	ScalarNumeric ScalarKind = iota
	// ScalarBytes elements box as raw byte strings, bypassing the
	// numeric lookup.
	ScalarBytes
	// ScalarText elements box as unicode text, bypassing the numeric
	// lookup.
	ScalarText
	// ScalarJSON elements box as structured JSON values.
	ScalarJSON
	// ScalarOpaque elements have no boxed representation.
	ScalarOpaque
)

func (k ScalarKind) String() string {
	switch k {
	case ScalarNumeric:
		return "numeric"
	case ScalarBytes:
		return "bytes"
	case ScalarText:
		return "text"
	case ScalarJSON:
		return "json"
	default:
		return "opaque"
	}
}

// ScalarKindOf reports the boxing rule for dt. Panics on an invalid
// handle.
func ScalarKindOf(dt DataType) ScalarKind {
	switch dt.deref().id {
	case IDString:
		return ScalarBytes
	case IDUstring:
		return ScalarText
	case IDJSON:
		return ScalarJSON
	case IDCustom:
		return ScalarOpaque
	default:
		return ScalarNumeric
	}
}
