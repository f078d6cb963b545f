package dtype

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataTypeZeroValue(t *testing.T) {
	var dt DataType
	assert.False(t, dt.Valid())
	assert.Equal(t, DataType{}, dt)
	assert.Equal(t, "<unspecified>", dt.String())
	assert.Equal(t, uint64(0), dt.Hash())

	dt = DataTypeOf[float32]()
	assert.True(t, dt.Valid())
	assert.Equal(t, DataTypeOf[float32](), dt)
}

func TestDataTypeComparison(t *testing.T) {
	assert.True(t, DataTypeOf[int32]() == DataTypeOf[int32]())
	assert.False(t, DataTypeOf[float32]() == DataTypeOf[int32]())
	assert.NotEqual(t, DataTypeOf[float32](), DataTypeOf[float64]())

	// Native spellings resolve to the canonical identity.
	assert.Equal(t, DataTypeOf[int64](), DataTypeOf[int]())
	assert.Equal(t, DataTypeOf[uint64](), DataTypeOf[uint]())
	assert.Equal(t, DataTypeOf[Ustring](), DataTypeOf[string]())
	assert.Equal(t, DataTypeOf[int32](), DataTypeOf[rune]())
	assert.Equal(t, DataTypeOf[uint8](), DataTypeOf[byte]())

	// Invalid differs from every canonical handle.
	for _, dt := range BuiltinDataTypes() {
		assert.NotEqual(t, DataType{}, dt)
	}
}

func TestDataTypeAttributes(t *testing.T) {
	dt := DataTypeOf[uint32]()
	assert.Equal(t, 4, dt.Size())
	assert.Equal(t, 4, dt.Alignment())
	assert.Equal(t, IDUint32, dt.ID())
	assert.Equal(t, "uint32", dt.GoType().String())
}

func TestDataTypeNames(t *testing.T) {
	want := map[ID]string{
		IDBool: "bool", IDByte: "byte", IDChar: "char",
		IDInt8: "int8", IDUint8: "uint8",
		IDInt16: "int16", IDUint16: "uint16",
		IDInt32: "int32", IDUint32: "uint32",
		IDInt64: "int64", IDUint64: "uint64",
		IDFloat16: "float16", IDBFloat16: "bfloat16",
		IDFloat32: "float32", IDFloat64: "float64",
		IDComplex64: "complex64", IDComplex128: "complex128",
		IDString: "string", IDUstring: "ustring", IDJSON: "json",
	}
	require.Len(t, want, NumIDs)
	for id, name := range want {
		assert.Equal(t, name, ByID(id).Name())
		assert.Equal(t, name, ByID(id).String())
	}
}

func TestFromName(t *testing.T) {
	for _, dt := range BuiltinDataTypes() {
		got, err := FromName(dt.Name())
		require.NoError(t, err)
		assert.Equal(t, dt, got, "name %q must round-trip to the identical handle", dt.Name())
	}

	_, err := FromName("foo")
	require.Error(t, err)
	var nsd *ErrNoSuchDataType
	require.ErrorAs(t, err, &nsd)
	assert.Equal(t, "foo", nsd.Name)
	assert.Contains(t, err.Error(), `"foo"`)

	assert.Equal(t, DataType{}, Get("foo"))
	assert.Equal(t, DataTypeOf[int8](), Get("int8"))
}

func TestDataTypeHashStable(t *testing.T) {
	seen := make(map[uint64]string)
	for _, dt := range BuiltinDataTypes() {
		h := dt.Hash()
		assert.Equal(t, h, dt.Hash())
		prev, dup := seen[h]
		assert.False(t, dup, "hash collision between %s and %s", prev, dt.Name())
		seen[h] = dt.Name()
	}

	// Handles work as map keys with identity semantics.
	m := map[DataType]int{DataTypeOf[int16](): 1}
	assert.Equal(t, 1, m[Get("int16")])
}

func TestDataTypeTextRoundTrip(t *testing.T) {
	for _, dt := range BuiltinDataTypes() {
		text, err := dt.MarshalText()
		require.NoError(t, err)

		var back DataType
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, dt, back)
	}

	var dt DataType
	err := dt.UnmarshalText([]byte("no-such"))
	var nsd *ErrNoSuchDataType
	require.ErrorAs(t, err, &nsd)

	_, err = DataType{}.MarshalText()
	assert.Error(t, err)
}

func TestInvalidHandleUsePanics(t *testing.T) {
	var dt DataType
	assert.Panics(t, func() { dt.Name() })
	assert.Panics(t, func() { dt.Size() })
	assert.Panics(t, func() { dt.Ops() })
}

func TestCustomDataTypeIdentity(t *testing.T) {
	type point struct{ X, Y int32 }

	a := DataTypeOf[point]()
	b := DataTypeOf[point]()
	assert.Equal(t, a, b, "custom descriptors must be singletons per Go type")
	assert.Equal(t, IDCustom, a.ID())
	assert.Equal(t, 8, a.Size())
	assert.NotEqual(t, uint64(0), a.Hash())

	// Custom names are not registry names.
	_, err := FromName(a.Name())
	assert.Error(t, err)

	assert.Equal(t, a, RegisterCustomDataType[point]())
	assert.Equal(t, DataTypeOf[int32](), RegisterCustomDataType[int32](),
		"canonical Go types resolve to the built-in singleton")
}
