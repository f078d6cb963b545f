// Package view builds buffer views over ordinary Go slices.
//
// A view pairs a base address with an addressing rule (contiguous,
// strided, or indexed) and is consumed by the bulk operations in the
// dtype package. Views are non-owning: the slice they were built from
// must stay reachable while the view is used.
package view
