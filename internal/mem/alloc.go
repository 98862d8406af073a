package mem

import (
	"unsafe"
)

// Alignment is the default byte alignment (one 64-byte cache line).
const Alignment = 64

// AllocAligned allocates a zeroed byte slice of the given size whose first byte
// sits at an address divisible by Alignment.
func AllocAligned(size int) []byte {
	return AllocAlignedTo(size, Alignment)
}

// AllocAlignedTo allocates a zeroed byte slice of the given size aligned to align
// bytes. align must be a power of two; smaller values fall back to 1.
//
// Note: the backing array is over-allocated by align bytes and kept alive by the
// returned slice. Capacity is clipped to size so appends cannot spill into the
// padding.
func AllocAlignedTo(size, align int) []byte {
	if size <= 0 {
		return nil
	}
	if align <= 1 || align&(align-1) != 0 {
		return make([]byte, size)
	}

	buf := make([]byte, size+align)

	ptr := unsafe.Pointer(&buf[0]) //nolint:gosec // unsafe is required for memory alignment
	addr := uintptr(ptr)
	mask := uintptr(align - 1)
	offset := (uintptr(align) - (addr & mask)) & mask

	return buf[offset : offset+uintptr(size) : offset+uintptr(size)]
}

// IsAligned reports whether the first byte of b sits on an align boundary.
func IsAligned(b []byte, align int) bool {
	if len(b) == 0 || align <= 1 {
		return true
	}
	return uintptr(unsafe.Pointer(&b[0]))%uintptr(align) == 0 //nolint:gosec // address inspection only
}
