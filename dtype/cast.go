package dtype

// StaticCast checks at runtime that a handle is compatible with the
// compile-time element type T and returns T's handle. An invalid source
// handle is treated as "any type": the cast always succeeds and yields
// DataTypeOf[T](). A mismatched concrete source fails with *ErrCast
// carrying both names.
func StaticCast[T any](dt DataType) (DataType, error) {
	target := DataTypeOf[T]()
	if !dt.Valid() || dt == target {
		return target, nil
	}
	return DataType{}, &ErrCast{From: dt.Name(), To: target.Name()}
}

// UncheckedCast asserts caller-verified compatibility between dt and T
// and returns T's handle. Entering it with a mismatched concrete handle
// is a programming error and panics; it is never silently unsafe.
func UncheckedCast[T any](dt DataType) DataType {
	target := DataTypeOf[T]()
	if dt.Valid() && dt != target {
		panic("dtype: static cast is not valid: " + dt.Name() + " -> " + target.Name())
	}
	return target
}

// CastTo checks a handle-to-handle conversion. The target is returned
// unchanged when the source is already compatible or invalid (an
// unspecified source casts to any concrete target); a mismatch fails
// with *ErrCast.
func CastTo(dt, target DataType) (DataType, error) {
	if !dt.Valid() || dt == target {
		return target, nil
	}
	return DataType{}, &ErrCast{From: dt.Name(), To: target.Name()}
}
