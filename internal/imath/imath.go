// Package imath has small integer and float helpers shared by the
// reformatting code.
package imath

// Clamp limits v to [lo, hi].
func Clamp[T int | int32 | int64 | float32 | float64](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// CeilDiv divides rounding up. b must be positive.
func CeilDiv(a, b int) int { return (a + b - 1) / b }

// ShiftCeil halves a value per subsampling shift, rounding up.
func ShiftCeil(v, shift int) int {
	if shift == 0 {
		return v
	}
	return (v + 1) >> shift
}

// Even reports whether v is even.
func Even(v int) bool { return v%2 == 0 }
