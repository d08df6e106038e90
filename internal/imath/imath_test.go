package imath

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestISqrt(t *testing.T) {
	tests := []struct {
		n    uint64
		want uint64
	}{
		{0, 0},
		{1, 1},
		{2, 1},
		{3, 1},
		{4, 2},
		{8, 2},
		{9, 3},
		{15, 3},
		{16, 4},
		{1 << 32, 1 << 16},
		{(1 << 32) - 1, (1 << 16) - 1},
		{math.MaxUint64, math.MaxUint32},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ISqrt(tt.n), "ISqrt(%d)", tt.n)
	}
}

func TestISqrt_Property(t *testing.T) {
	// x*x <= n and (x+1)*(x+1) > n must hold everywhere, including
	// around perfect squares and near the float64 precision cliff.
	check := func(n uint64) {
		x := ISqrt(n)
		assert.LessOrEqual(t, x*x, n, "ISqrt(%d) = %d too large", n, x)
		if x < math.MaxUint32 {
			assert.Greater(t, (x+1)*(x+1), n, "ISqrt(%d) = %d too small", n, x)
		}
	}
	for n := uint64(0); n < 5000; n++ {
		check(n)
	}
	for _, x := range []uint64{1 << 16, 1 << 24, 1 << 31, math.MaxUint32 - 1, math.MaxUint32} {
		check(x*x - 1)
		check(x * x)
		check(x*x + 1)
	}
	check(math.MaxUint64 - 10*(1<<32)) // largest supported stop
}

func TestFloorPow2(t *testing.T) {
	tests := []struct {
		n    int
		want int
	}{
		{1, 1},
		{2, 2},
		{3, 2},
		{4, 4},
		{100, 64},
		{1024, 1024},
		{4095, 2048},
		{4096, 4096},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FloorPow2(tt.n), "FloorPow2(%d)", tt.n)
	}
}

func TestInBetween(t *testing.T) {
	assert.Equal(t, 5, InBetween(1, 5, 10))
	assert.Equal(t, 1, InBetween(1, 0, 10))
	assert.Equal(t, 10, InBetween(1, 42, 10))
	assert.Equal(t, 1, InBetween(1, 1, 10))
	assert.Equal(t, 10, InBetween(1, 10, 10))
}
