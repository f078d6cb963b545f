package dtype

import "unsafe"

// Convenience wrappers over the operation table. They pick the table
// entry matching the operand kinds and convert the status channel into
// an error result. Generic array code that already holds a kind on both
// sides can index the table directly instead.

// CompareRange returns the index of the first element where a and b
// differ, or n when the ranges match.
func CompareRange(dt DataType, n int64, a, b BufferPointer) int64 {
	return dt.Ops().CompareEqual[KindFor(a, b)](n, a, b, nil)
}

// CopyRange copy-assigns n elements from src to dst. The returned count
// is n on success; on failure it is the number of elements assigned
// before the first failure, and those keep their new values.
func CopyRange(dt DataType, n int64, src, dst BufferPointer) (int64, error) {
	var st Status
	k := dt.Ops().CopyAssign[KindFor(src, dst)](n, src, dst, &st)
	return k, st.Err()
}

// MoveRange move-assigns n elements from src to dst, with the same
// partial-failure contract as CopyRange.
func MoveRange(dt DataType, n int64, src, dst BufferPointer) (int64, error) {
	var st Status
	k := dt.Ops().MoveAssign[KindFor(src, dst)](n, src, dst, &st)
	return k, st.Err()
}

// InitializeRange resets n live elements to the zero state.
func InitializeRange(dt DataType, n int64, p BufferPointer) {
	dt.Ops().Initialize[p.Kind()](n, p, nil)
}

// ConstructRange value-initializes n tightly packed elements at p.
func ConstructRange(dt DataType, n int64, p unsafe.Pointer) (int64, error) {
	var st Status
	k := dt.Ops().Construct(n, p, &st)
	return k, st.Err()
}

// DestroyRange releases n constructed elements at p. Must be called
// exactly once per successful construct.
func DestroyRange(dt DataType, n int64, p unsafe.Pointer) {
	dt.Ops().Destroy(n, p, nil)
}

// AppendElement appends the rendering of the element at p to dst.
func AppendElement(dt DataType, dst []byte, p unsafe.Pointer) []byte {
	return dt.Ops().AppendToString(dst, p)
}
