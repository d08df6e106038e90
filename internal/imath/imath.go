package imath

import (
	"math"
	"math/bits"
)

// ISqrt returns the integer square root of n, i.e. the largest x with
// x*x <= n. The float64 estimate is corrected afterwards so the result
// is exact even where math.Sqrt loses precision near 2^64.
func ISqrt(n uint64) uint64 {
	x := uint64(math.Sqrt(float64(n)))
	if x > math.MaxUint32 {
		x = math.MaxUint32
	}
	for x > 0 && x*x > n {
		x--
	}
	for x < math.MaxUint32 && (x+1)*(x+1) <= n {
		x++
	}
	return x
}

// FloorPow2 returns the largest power of two <= n. n must be >= 1.
func FloorPow2(n int) int {
	return 1 << (bits.Len(uint(n)) - 1)
}

// InBetween clamps n to the interval [lo, hi].
func InBetween(lo, n, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
