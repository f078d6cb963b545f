// Package dtype is the element-type abstraction of the array engine.
//
// A DataType is a small, copyable handle to an immutable descriptor:
// identity, name, size, alignment, and a table of elementwise bulk
// operations (construct, destroy, copy/move assign, compare, initialize,
// stringify). Generic array code holds only DataType values plus raw
// memory and drives the table through BufferPointer views, so indexing,
// caching and I/O layers never need to be specialized per element type.
//
// The canonical identities (bool through json) are process-wide
// singletons resolved by name or by compile-time type via DataTypeOf.
// Types outside the catalog get an auto-derived custom descriptor,
// cached per Go type, so handle equality is referent identity in every
// case.
//
// Everything here is pure computation over caller-supplied memory:
// operations are safe for concurrent use on disjoint ranges, and the
// registry is immutable after init. The one exception is the
// dynamically-registered bfloat16 interchange code, which uses
// exactly-once initialization.
package dtype
