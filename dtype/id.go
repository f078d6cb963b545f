package dtype

// ID identifies one of the canonical element types shipped by the engine.
// The set is closed and dense: IDs index internal lookup tables directly.
type ID int8

const (
	// IDCustom marks a descriptor outside the canonical set.
	IDCustom ID = -1

	// IDBool is the boolean element type.
	IDBool ID = iota - 1
	// IDByte is an opaque 8-bit byte (no arithmetic meaning).
	IDByte
	// IDChar is an 8-bit character.
	IDChar
	// IDInt8 is a signed 8-bit integer.
	IDInt8
	// IDUint8 is an unsigned 8-bit integer.
	IDUint8
	// IDInt16 is a signed 16-bit integer.
	IDInt16
	// IDUint16 is an unsigned 16-bit integer.
	IDUint16
	// IDInt32 is a signed 32-bit integer.
	IDInt32
	// IDUint32 is an unsigned 32-bit integer.
	IDUint32
	// IDInt64 is a signed 64-bit integer.
	IDInt64
	// IDUint64 is an unsigned 64-bit integer.
	IDUint64
	// IDFloat16 is an IEEE 754 binary16 floating point value.
	IDFloat16
	// IDBFloat16 is a brain floating point value (truncated binary32).
	IDBFloat16
	// IDFloat32 is an IEEE 754 binary32 floating point value.
	IDFloat32
	// IDFloat64 is an IEEE 754 binary64 floating point value.
	IDFloat64
	// IDComplex64 is a complex number of two float32 components.
	IDComplex64
	// IDComplex128 is a complex number of two float64 components.
	IDComplex128
	// IDString is a byte string of arbitrary length.
	IDString
	// IDUstring is a unicode (UTF-8) string.
	IDUstring
	// IDJSON is an arbitrary JSON value.
	IDJSON

	numIDs int = iota - 1
)

// NumIDs is the number of canonical identities.
const NumIDs = numIDs

var idNames = [numIDs]string{
	IDBool:       "bool",
	IDByte:       "byte",
	IDChar:       "char",
	IDInt8:       "int8",
	IDUint8:      "uint8",
	IDInt16:      "int16",
	IDUint16:     "uint16",
	IDInt32:      "int32",
	IDUint32:     "uint32",
	IDInt64:      "int64",
	IDUint64:     "uint64",
	IDFloat16:    "float16",
	IDBFloat16:   "bfloat16",
	IDFloat32:    "float32",
	IDFloat64:    "float64",
	IDComplex64:  "complex64",
	IDComplex128: "complex128",
	IDString:     "string",
	IDUstring:    "ustring",
	IDJSON:       "json",
}

// String returns the stable lowercase name of the identity, or "custom".
func (id ID) String() string {
	if id == IDCustom {
		return "custom"
	}
	if int(id) < 0 || int(id) >= numIDs {
		return "invalid"
	}
	return idNames[id]
}
