package dtype

import (
	"fmt"
	"math"
	"reflect"
	"sync/atomic"
	"unsafe"

	"github.com/arraykit/arraykit/internal/mem"
)

// InitPolicy controls element construction when allocating a block.
type InitPolicy uint8

const (
	// DefaultInit runs the construct operation over all elements.
	DefaultInit InitPolicy = iota
	// ValueInit is DefaultInit with value (zero) semantics. Go memory is
	// always zeroed on allocation, so the two are equivalent here; both
	// names are kept because callers express intent with them.
	ValueInit
	// Uninitialized skips construction operations entirely. The memory
	// is still zeroed (a GC requirement), and the zero value of every
	// element type is live, so releasing the block remains safe.
	Uninitialized
)

// Block is a shared, reference-counted allocation of n elements of one
// data type. The final Release runs the destroy operation over exactly
// the successfully-constructed prefix before the memory is dropped --
// including when a custom constructor failed partway through Allocate.
type Block struct {
	dt          DataType
	n           int64
	base        unsafe.Pointer
	raw         []byte        // aligned backing for pointer-free element types
	data        reflect.Value // typed backing slice otherwise
	constructed int64
	refs        atomic.Int64
}

// pointerFree reports whether values of t contain no pointers, so their
// storage may live in an untyped byte buffer without hiding references
// from the garbage collector.
func pointerFree(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128:
		return true
	case reflect.Array:
		return pointerFree(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if !pointerFree(t.Field(i).Type) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Allocate returns a block sized and aligned for n elements of dt.
// Pointer-free element types live in a cache-line-aligned byte buffer;
// reference-carrying types get garbage-collector-typed storage. Fails with
// ErrAllocationSize when the byte size of the block is not
// representable. Panics on an invalid handle.
func Allocate(dt DataType, n int64, policy InitPolicy) (*Block, error) {
	desc := dt.deref()
	if n < 0 || n > int64(math.MaxInt) {
		return nil, ErrAllocationSize
	}
	size, err := mem.ArrayByteSize(desc.size, n)
	if err != nil {
		return nil, fmt.Errorf("%w: %d elements of %s", ErrAllocationSize, n, desc.name)
	}

	b := &Block{dt: dt, n: n}
	b.refs.Store(1)
	if size > 0 && pointerFree(desc.goType) {
		b.raw = mem.AllocAligned(int(size))
		if len(b.raw) > 0 {
			b.base = unsafe.Pointer(&b.raw[0])
		}
	} else {
		b.data = reflect.MakeSlice(reflect.SliceOf(desc.goType), int(n), int(n))
		if n > 0 {
			b.base = b.data.Index(0).Addr().UnsafePointer()
		}
	}

	if policy == Uninitialized {
		// Zero values are live elements in Go.
		b.constructed = n
		return b, nil
	}

	var st Status
	b.constructed = desc.ops.Construct(n, b.base, &st)
	if err := st.Err(); err != nil {
		b.Release()
		return nil, err
	}
	return b, nil
}

// AllocateBlock is the compile-time-typed form of Allocate.
func AllocateBlock[T any](n int64, policy InitPolicy) (*Block, error) {
	return Allocate(DataTypeOf[T](), n, policy)
}

// DataType returns the element type of the block.
func (b *Block) DataType() DataType { return b.dt }

// Len returns the element count.
func (b *Block) Len() int64 { return b.n }

// BasePointer returns the address of the first element, or nil for an
// empty block.
func (b *Block) BasePointer() unsafe.Pointer { return b.base }

// Buffer returns a contiguous view of the whole block.
func (b *Block) Buffer() BufferPointer { return ContiguousBuffer(b.base) }

// Retain adds a reference. Every Retain needs a matching Release.
func (b *Block) Retain() *Block {
	if b.refs.Add(1) <= 1 {
		panic("dtype: Retain of released block")
	}
	return b
}

// Release drops a reference. The last release destroys the constructed
// element prefix, then lets the memory go.
func (b *Block) Release() {
	switch r := b.refs.Add(-1); {
	case r > 0:
		return
	case r < 0:
		panic("dtype: Release of released block")
	}
	if b.constructed > 0 {
		b.dt.deref().ops.Destroy(b.constructed, b.base, nil)
	}
	b.constructed = 0
	b.base = nil
	b.raw = nil
	b.data = reflect.Value{}
}

// Slice returns the block's elements as a []T. The element type must
// match; a mismatch is a programming error and panics.
func Slice[T any](b *Block) []T {
	UncheckedCast[T](b.dt)
	if b.n == 0 {
		return nil
	}
	return unsafe.Slice((*T)(b.base), b.n)
}
