// Package testutil provides helpers for tests and benchmarks only.
//
// The RNG is seeded and thread-safe so failing cases reproduce, and
// the fill helpers generate typed element buffers for bulk-operation
// and serialization tests.
package testutil

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/arraykit/arraykit/dtype"
)

// RNG is a seeded, thread-safe random number generator.
type RNG struct {
	mu   sync.Mutex
	rand *rand.Rand
	seed int64
}

// NewRNG creates an RNG with the given seed.
func NewRNG(seed int64) *RNG {
	return &RNG{rand: rand.New(rand.NewSource(seed)), seed: seed}
}

// Reset rewinds the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 { return r.seed }

// Intn returns a non-negative pseudo-random number in [0, n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Uint64 returns a pseudo-random uint64.
func (r *RNG) Uint64() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Uint64()
}

// Float64 returns a pseudo-random number in [0, 1).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Bytes fills dst with pseudo-random bytes. Locks once per call.
func (r *RNG) Bytes(dst []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = r.rand.Read(dst)
}

// Ints returns n pseudo-random int64 values.
func (r *RNG) Ints(n int) []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]int64, n)
	for i := range out {
		out[i] = r.rand.Int63() - r.rand.Int63()
	}
	return out
}

// Floats returns n pseudo-random float64 values in [-1, 1).
func (r *RNG) Floats(n int) []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]float64, n)
	for i := range out {
		out[i] = r.rand.Float64()*2 - 1
	}
	return out
}

// Strings returns n pseudo-random short strings.
func (r *RNG) Strings(n int) []dtype.Ustring {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]dtype.Ustring, n)
	for i := range out {
		b := make([]byte, r.rand.Intn(16))
		for j := range b {
			b[j] = byte('a' + r.rand.Intn(26))
		}
		out[i] = dtype.Ustring(b)
	}
	return out
}

// JSONValues returns n pseudo-random small JSON documents.
func (r *RNG) JSONValues(n int) []dtype.JSON {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]dtype.JSON, n)
	for i := range out {
		out[i] = dtype.JSON(fmt.Sprintf(`{"k":%d,"v":[%d,%d]}`, r.rand.Intn(100), r.rand.Intn(10), r.rand.Intn(10)))
	}
	return out
}

// FillBlock fills a block of int64, float64, string, or json elements
// with pseudo-random values. Panics on other element types.
func (r *RNG) FillBlock(b *dtype.Block) {
	switch b.DataType().ID() {
	case dtype.IDInt64:
		copy(dtype.Slice[int64](b), r.Ints(int(b.Len())))
	case dtype.IDFloat64:
		copy(dtype.Slice[float64](b), r.Floats(int(b.Len())))
	case dtype.IDUstring:
		copy(dtype.Slice[dtype.Ustring](b), r.Strings(int(b.Len())))
	case dtype.IDJSON:
		copy(dtype.Slice[dtype.JSON](b), r.JSONValues(int(b.Len())))
	default:
		panic(fmt.Sprintf("testutil: no generator for %s", b.DataType()))
	}
}
