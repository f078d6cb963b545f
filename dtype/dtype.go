package dtype

import (
	"fmt"
	"reflect"
	"unsafe"
)

// Descriptor is the immutable per-type record: identity, stable name,
// size and alignment in bytes, the Go element type, and the elementwise
// operation table. Descriptors for canonical identities are process-wide
// singletons; custom descriptors are cached one per Go type, so handle
// equality is always referent identity.
type Descriptor struct {
	id        ID
	name      string
	size      int
	alignment int
	goType    reflect.Type
	ops       Operations
}

// ID returns the canonical identity, or IDCustom.
func (d *Descriptor) ID() ID { return d.id }

// Name returns the stable name.
func (d *Descriptor) Name() string { return d.name }

// Size returns the element size in bytes.
func (d *Descriptor) Size() int { return d.size }

// Alignment returns the required element alignment in bytes.
func (d *Descriptor) Alignment() int { return d.alignment }

// GoType returns the Go type elements are stored as.
func (d *Descriptor) GoType() reflect.Type { return d.goType }

// Ops returns the operation table.
func (d *Descriptor) Ops() *Operations { return &d.ops }

// DataType is a lightweight handle to a descriptor. The zero value is
// invalid: it has no referent, and accessor use other than Valid, ID,
// String, Hash and comparison is a programming error that panics. A
// DataType is a reference, never an owner; custom descriptors must
// outlive every handle referencing them.
type DataType struct {
	desc *Descriptor
}

// Valid reports whether the handle references a descriptor.
func (d DataType) Valid() bool { return d.desc != nil }

func (d DataType) deref() *Descriptor {
	if d.desc == nil {
		panic("dtype: use of invalid DataType")
	}
	return d.desc
}

// ID returns the canonical identity, IDCustom for custom descriptors,
// or -1 distinguishable only via Valid for the invalid handle.
func (d DataType) ID() ID {
	if d.desc == nil {
		return IDCustom
	}
	return d.desc.id
}

// Name returns the stable name. Panics on an invalid handle.
func (d DataType) Name() string { return d.deref().name }

// Size returns the element size in bytes. Panics on an invalid handle.
func (d DataType) Size() int { return d.deref().size }

// Alignment returns the element alignment in bytes. Panics on an
// invalid handle.
func (d DataType) Alignment() int { return d.deref().alignment }

// GoType returns the Go element type. Panics on an invalid handle.
func (d DataType) GoType() reflect.Type { return d.deref().goType }

// Ops returns the operation table. Panics on an invalid handle.
func (d DataType) Ops() *Operations { return &d.deref().ops }

// Descriptor returns the referenced descriptor, or nil for the invalid
// handle.
func (d DataType) Descriptor() *Descriptor { return d.desc }

// String renders the name, or a fixed placeholder for the invalid
// handle.
func (d DataType) String() string {
	if d.desc == nil {
		return "<unspecified>"
	}
	return d.desc.name
}

// Hash returns a process-stable hash of the descriptor identity,
// consistent with equality.
func (d DataType) Hash() uint64 {
	if d.desc == nil {
		return 0
	}
	if d.desc.id != IDCustom {
		return uint64(d.desc.id)*0x9e3779b97f4a7c15 + 1
	}
	return uint64(uintptr(unsafe.Pointer(d.desc)))
}

// MarshalText encodes the handle as its name, the wire token used for
// serialization round trips.
func (d DataType) MarshalText() ([]byte, error) {
	if d.desc == nil {
		return nil, fmt.Errorf("cannot encode invalid data type")
	}
	return []byte(d.desc.name), nil
}

// UnmarshalText decodes a handle from its name via the registry.
func (d *DataType) UnmarshalText(text []byte) error {
	dt, err := FromName(string(text))
	if err != nil {
		return err
	}
	*d = dt
	return nil
}
