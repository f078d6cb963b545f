package dtype

import (
	"reflect"
	"strconv"
)

// The canonical registry. Populated once at init and immutable
// afterwards: lookups never lock.
var (
	builtins [numIDs]Descriptor
	byName   = make(map[string]DataType, numIDs)
	byGoType = make(map[reflect.Type]DataType, numIDs+4)
)

func registerBuiltin[T any](id ID, ops Operations) {
	t := reflect.TypeFor[T]()
	builtins[id] = Descriptor{
		id:        id,
		name:      idNames[id],
		size:      int(t.Size()),
		alignment: t.Align(),
		goType:    t,
		ops:       ops,
	}
	dt := DataType{&builtins[id]}
	byName[idNames[id]] = dt
	byGoType[t] = dt
}

// alias maps an additional Go type onto an already-registered identity,
// e.g. the native int onto int64.
func alias[T any](id ID) {
	byGoType[reflect.TypeFor[T]()] = DataType{&builtins[id]}
}

func init() {
	registerBuiltin[bool](IDBool, trivialOps(func(dst []byte, v *bool) []byte {
		return strconv.AppendBool(dst, *v)
	}))
	registerBuiltin[Byte](IDByte, trivialOps(appendUnsigned[Byte]))
	registerBuiltin[Char](IDChar, trivialOps(func(dst []byte, v *Char) []byte {
		return strconv.AppendQuoteRune(dst, rune(*v))
	}))
	registerBuiltin[int8](IDInt8, trivialOps(appendSigned[int8]))
	registerBuiltin[uint8](IDUint8, trivialOps(appendUnsigned[uint8]))
	registerBuiltin[int16](IDInt16, trivialOps(appendSigned[int16]))
	registerBuiltin[uint16](IDUint16, trivialOps(appendUnsigned[uint16]))
	registerBuiltin[int32](IDInt32, trivialOps(appendSigned[int32]))
	registerBuiltin[uint32](IDUint32, trivialOps(appendUnsigned[uint32]))
	registerBuiltin[int64](IDInt64, trivialOps(appendSigned[int64]))
	registerBuiltin[uint64](IDUint64, trivialOps(appendUnsigned[uint64]))
	registerBuiltin[Float16](IDFloat16, trivialOps(func(dst []byte, v *Float16) []byte {
		return appendFloat32(dst, v.Float32())
	}))
	registerBuiltin[BFloat16](IDBFloat16, trivialOps(func(dst []byte, v *BFloat16) []byte {
		return appendFloat32(dst, v.Float32())
	}))
	registerBuiltin[float32](IDFloat32, trivialOps(func(dst []byte, v *float32) []byte {
		return appendFloat32(dst, *v)
	}))
	registerBuiltin[float64](IDFloat64, trivialOps(func(dst []byte, v *float64) []byte {
		return strconv.AppendFloat(dst, *v, 'g', -1, 64)
	}))
	registerBuiltin[complex64](IDComplex64, trivialOps(appendComplex[complex64](64)))
	registerBuiltin[complex128](IDComplex128, trivialOps(appendComplex[complex128](128)))
	registerBuiltin[String](IDString, stringOps(func(dst []byte, v *String) []byte {
		return strconv.AppendQuote(dst, string(*v))
	}))
	registerBuiltin[Ustring](IDUstring, stringOps(func(dst []byte, v *Ustring) []byte {
		return strconv.AppendQuote(dst, string(*v))
	}))
	registerBuiltin[JSON](IDJSON, jsonOps())

	// Native Go spellings resolve to canonical identities.
	alias[int](IDInt64)
	alias[uint](IDUint64)
	alias[string](IDUstring)
}

// FromName returns the canonical data type with the given stable name.
// Fails with *ErrNoSuchDataType for names outside the registry.
func FromName(name string) (DataType, error) {
	if dt, ok := byName[name]; ok {
		return dt, nil
	}
	return DataType{}, &ErrNoSuchDataType{Name: name}
}

// Get returns the canonical data type with the given name, or the
// invalid handle when the name is unknown.
func Get(name string) DataType {
	return byName[name]
}

// ByID returns the canonical data type for a built-in identity.
// Panics for IDCustom or an out-of-range identity.
func ByID(id ID) DataType {
	if int(id) < 0 || int(id) >= numIDs {
		panic("dtype: ByID of non-canonical identity " + id.String())
	}
	return DataType{&builtins[id]}
}

// DataTypeOf resolves the data type of a compile-time element type.
// Canonical Go types (including the native int, uint and string
// spellings) resolve to their built-in singleton; any other type
// synthesizes a custom descriptor with auto-derived size, alignment and
// operation table, cached so repeated calls yield the identical handle.
func DataTypeOf[T any]() DataType {
	t := reflect.TypeFor[T]()
	if dt, ok := byGoType[t]; ok {
		return dt
	}
	return customDataTypeFor(t)
}

// FromGoType is the runtime-typed form of DataTypeOf.
func FromGoType(t reflect.Type) DataType {
	if dt, ok := byGoType[t]; ok {
		return dt
	}
	return customDataTypeFor(t)
}

// BuiltinDataTypes returns all canonical data types in identity order.
func BuiltinDataTypes() []DataType {
	out := make([]DataType, numIDs)
	for i := range builtins {
		out[i] = DataType{&builtins[i]}
	}
	return out
}
