package mathx

import (
	"math/bits"

	"golang.org/x/exp/constraints"
)

// IsPow2 reports whether v is a non-zero power of two.
func IsPow2[T constraints.Unsigned](v T) bool {
	return v != 0 && v&(v-1) == 0
}

// Log2 returns floor(log2(v)); Log2(0) is 0.
func Log2[T constraints.Unsigned](v T) uint {
	if v == 0 {
		return 0
	}
	return uint(63 - bits.LeadingZeros64(uint64(v)))
}

// CeilPow2 rounds v up to the next power of two (v itself when already one).
func CeilPow2[T constraints.Unsigned](v T) T {
	if v <= 1 {
		return 1
	}
	return T(1) << (Log2(v-1) + 1)
}

// AlignedTo reports whether addr is a multiple of the power-of-two size.
func AlignedTo[T constraints.Unsigned](addr, size T) bool {
	if !IsPow2(size) {
		return false
	}
	return addr&(size-1) == 0
}
