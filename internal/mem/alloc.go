// Package mem provides memory allocation utilities.
package mem

import (
	"errors"
	"math"
	"unsafe"
)

// Alignment is the byte alignment used for raw element buffers. 64 bytes
// keeps every supported element type aligned and is cache-line friendly.
const Alignment = 64

// ErrSizeOverflow is returned when an element-count/size product cannot
// be represented.
var ErrSizeOverflow = errors.New("byte size overflows")

// MaxArrayBytes bounds a single allocation. 64-bit platforms address
// far less than the int64 range; 48 bits covers every real address
// space while still rejecting products that merely avoid wrapping.
const MaxArrayBytes = int64(1) << 48

// ArrayByteSize returns elemSize*count, failing instead of wrapping when
// the product overflows or exceeds the address space.
func ArrayByteSize(elemSize int, count int64) (int64, error) {
	if elemSize < 0 || count < 0 {
		return 0, ErrSizeOverflow
	}
	if elemSize == 0 || count == 0 {
		return 0, nil
	}
	if count > math.MaxInt64/int64(elemSize) {
		return 0, ErrSizeOverflow
	}
	total := int64(elemSize) * count
	if total > MaxArrayBytes || total > math.MaxInt {
		return 0, ErrSizeOverflow
	}
	return total, nil
}

// AllocAligned allocates a byte slice of the given size whose first byte
// sits at an address divisible by Alignment.
//
// Slightly more memory than requested is allocated to find an aligned
// offset; the underlying array is kept alive by the returned slice.
func AllocAligned(size int) []byte {
	if size <= 0 {
		return nil
	}

	buf := make([]byte, size+Alignment)

	addr := uintptr(unsafe.Pointer(&buf[0])) //nolint:gosec // unsafe is required for memory alignment
	offset := (Alignment - (addr & (Alignment - 1))) & (Alignment - 1)

	return buf[offset : offset+uintptr(size)]
}
