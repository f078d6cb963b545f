package dtype

import (
	"bytes"
	"reflect"
	"strconv"
	"unsafe"

	gojson "github.com/goccy/go-json"
)

// Status is the shared failure channel threaded through bulk operations.
// Built-in scalar types never fail; custom types report failure here, and
// the bulk loop aborts after the current element. A nil *Status is valid
// for operations that cannot fail.
type Status struct {
	err error
}

// Fail records the first failure. Later failures are ignored.
func (s *Status) Fail(err error) {
	if s != nil && s.err == nil {
		s.err = err
	}
}

// Err returns the recorded failure, if any.
func (s *Status) Err() error {
	if s == nil {
		return nil
	}
	return s.err
}

// OK reports whether no failure has been recorded.
func (s *Status) OK() bool { return s.Err() == nil }

// ConstructFn operates on n tightly packed elements at p. Returns the
// number of elements processed; less than n only when st records a
// failure.
type ConstructFn func(n int64, p unsafe.Pointer, st *Status) int64

// UnaryFn operates over one element view.
type UnaryFn func(n int64, p BufferPointer, st *Status) int64

// BinaryFn operates over two element views. For assignment the first
// view is the source and the second the destination; each view resolves
// its own addressing, so the two kinds may differ. Returns the count of
// elements processed before the first failure, or for CompareEqual the
// index of the first mismatch (n when all match).
type BinaryFn func(n int64, a, b BufferPointer, st *Status) int64

// AppendFn appends a locale-independent rendering of the single element
// at p to dst.
type AppendFn func(dst []byte, p unsafe.Pointer) []byte

// UnaryTable holds one UnaryFn per buffer kind.
type UnaryTable [NumBufferKinds]UnaryFn

// BinaryTable holds one BinaryFn per buffer kind. The entry to invoke is
// the widest kind among the operands (see KindFor).
type BinaryTable [NumBufferKinds]BinaryFn

// Operations is the elementwise operation table of a descriptor. Entries
// are set at descriptor creation and never change.
type Operations struct {
	// Construct value-initializes elements in raw storage. No-op for
	// trivial types; runs the element constructor for custom types.
	Construct ConstructFn
	// Destroy releases constructed elements. For reference-carrying
	// types it zeroes storage so the GC can reclaim; safe exactly once
	// per successful construct.
	Destroy ConstructFn
	// Initialize resets already-live storage to the zero state.
	Initialize UnaryTable
	// CopyAssign assigns src elements to constructed dst elements.
	CopyAssign BinaryTable
	// MoveAssign is CopyAssign that may steal the source: for
	// reference-carrying types the source element is left zeroed.
	MoveAssign BinaryTable
	// CompareEqual returns the index of the first mismatching element,
	// or n if all match. Callers rely on the early exit over huge
	// arrays; this is a position, not a match count.
	CompareEqual BinaryTable
	// AppendToString renders one element for diagnostics.
	AppendToString AppendFn
}

// KindFor returns the table entry kind for a pair of views: indexed if
// either side is indexed, else strided if either side is strided, else
// contiguous.
func KindFor(a, b BufferPointer) BufferKind {
	if a.kind == KindIndexed || b.kind == KindIndexed {
		return KindIndexed
	}
	if a.kind == KindStrided || b.kind == KindStrided {
		return KindStrided
	}
	return KindContiguous
}

func elemSize[T any]() int64 {
	var z T
	return int64(unsafe.Sizeof(z))
}

func unaryTable(f UnaryFn) UnaryTable {
	return UnaryTable{f, f, f}
}

func binaryTable(f BinaryFn) BinaryTable {
	return BinaryTable{f, f, f}
}

// binaryTableFast uses a specialized entry for the contiguous kind.
func binaryTableFast(fast, generic BinaryFn) BinaryTable {
	return BinaryTable{fast, generic, generic}
}

func noopElems(n int64, _ unsafe.Pointer, _ *Status) int64 { return n }

func zeroElems[T any](n int64, p unsafe.Pointer, _ *Status) int64 {
	if n == 0 {
		return 0
	}
	clear(unsafe.Slice((*T)(p), n))
	return n
}

func initializeLoop[T any](n int64, p BufferPointer, _ *Status) int64 {
	size := elemSize[T]()
	var zero T
	for i := int64(0); i < n; i++ {
		*(*T)(p.At(i, size)) = zero
	}
	return n
}

func copyLoop[T any](n int64, src, dst BufferPointer, _ *Status) int64 {
	size := elemSize[T]()
	for i := int64(0); i < n; i++ {
		*(*T)(dst.At(i, size)) = *(*T)(src.At(i, size))
	}
	return n
}

// copyContiguous is the contiguous fast path: a single bulk copy when
// both operands really are tight, falling back to the element loop when
// only one side is.
func copyContiguous[T any](n int64, src, dst BufferPointer, st *Status) int64 {
	if n > 0 && src.kind == KindContiguous && dst.kind == KindContiguous {
		copy(unsafe.Slice((*T)(dst.ptr), n), unsafe.Slice((*T)(src.ptr), n))
		return n
	}
	return copyLoop[T](n, src, dst, st)
}

func compareLoop[T comparable](n int64, a, b BufferPointer, _ *Status) int64 {
	size := elemSize[T]()
	for i := int64(0); i < n; i++ {
		if *(*T)(a.At(i, size)) != *(*T)(b.At(i, size)) {
			return i
		}
	}
	return n
}

// trivialOps builds the table for fixed-width types with no references:
// construct/destroy are no-ops and move is copy.
func trivialOps[T comparable](app func(dst []byte, v *T) []byte) Operations {
	assign := binaryTableFast(copyContiguous[T], copyLoop[T])
	return Operations{
		Construct:    noopElems,
		Destroy:      noopElems,
		Initialize:   unaryTable(initializeLoop[T]),
		CopyAssign:   assign,
		MoveAssign:   assign,
		CompareEqual: binaryTable(compareLoop[T]),
		AppendToString: func(dst []byte, p unsafe.Pointer) []byte {
			return app(dst, (*T)(p))
		},
	}
}

func moveStringLoop[T ~string](n int64, src, dst BufferPointer, _ *Status) int64 {
	size := elemSize[T]()
	for i := int64(0); i < n; i++ {
		s := (*T)(src.At(i, size))
		*(*T)(dst.At(i, size)) = *s
		*s = ""
	}
	return n
}

// stringOps builds the table for the string and ustring identities.
// Destroy zeroes the element so the backing bytes become collectable.
func stringOps[T ~string](app func(dst []byte, v *T) []byte) Operations {
	return Operations{
		Construct:    zeroElems[T],
		Destroy:      zeroElems[T],
		Initialize:   unaryTable(initializeLoop[T]),
		CopyAssign:   binaryTable(copyLoop[T]),
		MoveAssign:   binaryTable(moveStringLoop[T]),
		CompareEqual: binaryTable(compareLoop[T]),
		AppendToString: func(dst []byte, p unsafe.Pointer) []byte {
			return app(dst, (*T)(p))
		},
	}
}

// jsonEqual compares two JSON elements structurally. Invalid or empty
// payloads fall back to byte comparison.
func jsonEqual(a, b JSON) bool {
	if bytes.Equal(a, b) {
		return true
	}
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	var av, bv any
	if err := gojson.Unmarshal(a, &av); err != nil {
		return false
	}
	if err := gojson.Unmarshal(b, &bv); err != nil {
		return false
	}
	return reflect.DeepEqual(av, bv)
}

func jsonCopyLoop(n int64, src, dst BufferPointer, _ *Status) int64 {
	size := elemSize[JSON]()
	for i := int64(0); i < n; i++ {
		s := (*JSON)(src.At(i, size))
		d := (*JSON)(dst.At(i, size))
		if *s == nil {
			*d = nil
			continue
		}
		*d = append(JSON(nil), *s...)
	}
	return n
}

func jsonMoveLoop(n int64, src, dst BufferPointer, _ *Status) int64 {
	size := elemSize[JSON]()
	for i := int64(0); i < n; i++ {
		s := (*JSON)(src.At(i, size))
		*(*JSON)(dst.At(i, size)) = *s
		*s = nil
	}
	return n
}

func jsonCompareLoop(n int64, a, b BufferPointer, _ *Status) int64 {
	size := elemSize[JSON]()
	for i := int64(0); i < n; i++ {
		if !jsonEqual(*(*JSON)(a.At(i, size)), *(*JSON)(b.At(i, size))) {
			return i
		}
	}
	return n
}

func jsonOps() Operations {
	return Operations{
		Construct:    zeroElems[JSON],
		Destroy:      zeroElems[JSON],
		Initialize:   unaryTable(initializeLoop[JSON]),
		CopyAssign:   binaryTable(jsonCopyLoop),
		MoveAssign:   binaryTable(jsonMoveLoop),
		CompareEqual: binaryTable(jsonCompareLoop),
		AppendToString: func(dst []byte, p unsafe.Pointer) []byte {
			v := *(*JSON)(p)
			if len(v) == 0 {
				return append(dst, "null"...)
			}
			return append(dst, v...)
		},
	}
}

// Rendering helpers. All strconv based: output never depends on locale.

func appendSigned[T ~int8 | ~int16 | ~int32 | ~int64](dst []byte, v *T) []byte {
	return strconv.AppendInt(dst, int64(*v), 10)
}

func appendUnsigned[T ~uint8 | ~uint16 | ~uint32 | ~uint64](dst []byte, v *T) []byte {
	return strconv.AppendUint(dst, uint64(*v), 10)
}

func appendFloat32(dst []byte, v float32) []byte {
	return strconv.AppendFloat(dst, float64(v), 'g', -1, 32)
}

func appendComplex[T ~complex64 | ~complex128](bitSize int) func(dst []byte, v *T) []byte {
	return func(dst []byte, v *T) []byte {
		return append(dst, strconv.FormatComplex(complex128(*v), 'g', -1, bitSize)...)
	}
}
