package dtype

import (
	"errors"
	"fmt"
)

var (
	// ErrAllocationSize is returned when size*count overflows or exceeds
	// the address space.
	ErrAllocationSize = errors.New("allocation size overflows")
)

// ErrNoSuchDataType indicates that a requested type name is not in the
// registry.
type ErrNoSuchDataType struct {
	Name string
}

func (e *ErrNoSuchDataType) Error() string {
	return fmt.Sprintf("no such data type: %q", e.Name)
}

// ErrCast indicates a checked cast between incompatible concrete types.
//
// Both names are carried for diagnostics.
type ErrCast struct {
	From string
	To   string
}

func (e *ErrCast) Error() string {
	return fmt.Sprintf("cannot cast data type of %s to data type of %s", e.From, e.To)
}

// ErrUnmappedTypeCode indicates an interchange type code with no
// corresponding canonical identity, or an identity with no code.
type ErrUnmappedTypeCode struct {
	Code int
	Name string // set when mapping identity -> code
}

func (e *ErrUnmappedTypeCode) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("no interchange type code for data type %q", e.Name)
	}
	return fmt.Sprintf("no data type for interchange type code %d", e.Code)
}

// ErrOperation carries a failure reported by a custom type's element
// operation, together with the number of elements already processed.
// Already-mutated elements keep their post-mutation state.
type ErrOperation struct {
	DataType  string
	Op        string
	Processed int64
	cause     error
}

func (e *ErrOperation) Error() string {
	return fmt.Sprintf("%s failed for data type %s after %d elements: %v", e.Op, e.DataType, e.Processed, e.cause)
}

func (e *ErrOperation) Unwrap() error { return e.cause }
