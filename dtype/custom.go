package dtype

import (
	"fmt"
	"reflect"
	"sync"
	"unsafe"
)

// Optional element behavior interfaces, implemented on *T. A custom
// descriptor derives its operation table from whichever of these the
// element type provides, with zero-value and reflection fallbacks.
type (
	// ElementConstructor runs when raw storage is constructed.
	ElementConstructor interface {
		ConstructElement() error
	}
	// ElementDestroyer runs when a constructed element is released.
	ElementDestroyer interface {
		DestroyElement()
	}
	// ElementAssigner replaces plain assignment and may fail, e.g. for
	// converting types. src is a *T.
	ElementAssigner interface {
		AssignElement(src any) error
	}
	// ElementComparer replaces equality. other is a *T.
	ElementComparer interface {
		EqualElement(other any) bool
	}
	// ElementAppender replaces the diagnostic rendering.
	ElementAppender interface {
		AppendElement(dst []byte) []byte
	}
)

// customDescriptors caches one descriptor per Go type so that handle
// equality remains referent identity for custom types too.
var customDescriptors sync.Map // reflect.Type -> *Descriptor

// RegisterCustomDataType builds (or returns the cached) descriptor for
// T and hands back its DataType. DataTypeOf does the same on demand;
// registering eagerly only pins the descriptor before first use. A
// canonical Go type resolves to its built-in singleton, never to a
// second custom descriptor.
func RegisterCustomDataType[T any]() DataType {
	return FromGoType(reflect.TypeFor[T]())
}

func customDataTypeFor(t reflect.Type) DataType {
	if d, ok := customDescriptors.Load(t); ok {
		return DataType{d.(*Descriptor)}
	}
	d := &Descriptor{
		id:        IDCustom,
		name:      t.String(),
		size:      int(t.Size()),
		alignment: t.Align(),
		goType:    t,
		ops:       deriveOps(t),
	}
	actual, _ := customDescriptors.LoadOrStore(t, d)
	return DataType{actual.(*Descriptor)}
}

// deriveOps builds an operation table from the type's own behavior.
// Elements are accessed through reflect.NewAt, so the table works on the
// same raw views as the built-in tables.
func deriveOps(t reflect.Type) Operations {
	size := int64(t.Size())
	pt := reflect.PointerTo(t)
	name := t.String()

	hasConstruct := pt.Implements(reflect.TypeFor[ElementConstructor]())
	hasDestroy := pt.Implements(reflect.TypeFor[ElementDestroyer]())
	hasAssign := pt.Implements(reflect.TypeFor[ElementAssigner]())
	hasCompare := pt.Implements(reflect.TypeFor[ElementComparer]())
	hasAppend := pt.Implements(reflect.TypeFor[ElementAppender]())
	comparable := t.Comparable()

	construct := func(n int64, p unsafe.Pointer, st *Status) int64 {
		for i := int64(0); i < n; i++ {
			ev := reflect.NewAt(t, unsafe.Add(p, i*size))
			ev.Elem().SetZero()
			if !hasConstruct {
				continue
			}
			if err := ev.Interface().(ElementConstructor).ConstructElement(); err != nil {
				st.Fail(&ErrOperation{DataType: name, Op: "construct", Processed: i, cause: err})
				return i
			}
		}
		return n
	}

	// When the type has its own destroyer it is responsible for
	// releasing references; storage is left as the destroyer wrote it.
	// Without one, zeroing is the release.
	destroy := func(n int64, p unsafe.Pointer, _ *Status) int64 {
		for i := int64(0); i < n; i++ {
			ev := reflect.NewAt(t, unsafe.Add(p, i*size))
			if hasDestroy {
				ev.Interface().(ElementDestroyer).DestroyElement()
				continue
			}
			ev.Elem().SetZero()
		}
		return n
	}

	initialize := func(n int64, p BufferPointer, _ *Status) int64 {
		for i := int64(0); i < n; i++ {
			reflect.NewAt(t, p.At(i, size)).Elem().SetZero()
		}
		return n
	}

	assign := func(op string, move bool) BinaryFn {
		return func(n int64, src, dst BufferPointer, st *Status) int64 {
			for i := int64(0); i < n; i++ {
				sp := reflect.NewAt(t, src.At(i, size))
				dp := reflect.NewAt(t, dst.At(i, size))
				if hasAssign {
					if err := dp.Interface().(ElementAssigner).AssignElement(sp.Interface()); err != nil {
						st.Fail(&ErrOperation{DataType: name, Op: op, Processed: i, cause: err})
						return i
					}
				} else {
					dp.Elem().Set(sp.Elem())
				}
				if move {
					sp.Elem().SetZero()
				}
			}
			return n
		}
	}

	compare := func(n int64, a, b BufferPointer, _ *Status) int64 {
		for i := int64(0); i < n; i++ {
			ap := reflect.NewAt(t, a.At(i, size))
			bp := reflect.NewAt(t, b.At(i, size))
			var eq bool
			switch {
			case hasCompare:
				eq = ap.Interface().(ElementComparer).EqualElement(bp.Interface())
			case comparable:
				eq = ap.Elem().Equal(bp.Elem())
			default:
				eq = reflect.DeepEqual(ap.Elem().Interface(), bp.Elem().Interface())
			}
			if !eq {
				return i
			}
		}
		return n
	}

	appendTo := func(dst []byte, p unsafe.Pointer) []byte {
		ev := reflect.NewAt(t, p)
		if hasAppend {
			return ev.Interface().(ElementAppender).AppendElement(dst)
		}
		return fmt.Appendf(dst, "%v", ev.Elem().Interface())
	}

	return Operations{
		Construct:      construct,
		Destroy:        destroy,
		Initialize:     unaryTable(initialize),
		CopyAssign:     binaryTable(assign("copy_assign", false)),
		MoveAssign:     binaryTable(assign("move_assign", true)),
		CompareEqual:   binaryTable(compare),
		AppendToString: appendTo,
	}
}
