package wheel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByteRemainder(t *testing.T) {
	tests := []struct {
		n    uint64
		want uint64
	}{
		{7, 7},
		{29, 29},
		{30, 30},  // remainder 0 folds up
		{31, 31},  // remainder 1 folds up
		{60, 30},
		{61, 31},
		{37, 7},
		{10, 10},
		{120, 30},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ByteRemainder(tt.n), "ByteRemainder(%d)", tt.n)
	}
}

func TestLowerBoundMask(t *testing.T) {
	tests := []struct {
		rem  uint64
		want uint8
	}{
		{2, 0xff},  // below all offsets, keep everything
		{7, 0xff},  // exactly the first offset
		{8, 0xfe},  // clears the bit for 7
		{10, 0xfe},
		{11, 0xfe},
		{12, 0xfc},
		{29, 0xc0},
		{30, 0x80}, // only offset 31 remains
		{31, 0x80},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LowerBoundMask(tt.rem), "LowerBoundMask(%d)", tt.rem)
	}
}

func TestUpperBoundMask(t *testing.T) {
	tests := []struct {
		rem  uint64
		want uint8
	}{
		{2, 0x00},  // below all offsets, clear everything
		{7, 0x01},
		{10, 0x01},
		{11, 0x03},
		{29, 0x7f},
		{30, 0x7f}, // remainder beyond offset 29 but below 31
		{31, 0xff}, // scan exhaustion keeps every bit
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, UpperBoundMask(tt.rem), "UpperBoundMask(%d)", tt.rem)
	}
}

func TestClearBit(t *testing.T) {
	sieve := []byte{0xff, 0xff, 0xff}

	ClearBit(sieve, 7)
	assert.Equal(t, uint8(0xfe), sieve[0])

	ClearBit(sieve, 31) // offset 1 of the next block belongs to byte 0
	assert.Equal(t, uint8(0x7e), sieve[0])

	ClearBit(sieve, 30+13)
	assert.Equal(t, uint8(0xfb), sieve[1])

	ClearBit(sieve, 61) // 2*30+1, bit 31 of byte 1
	assert.Equal(t, uint8(0x7b), sieve[1])

	ClearBit(sieve, 60+29)
	assert.Equal(t, uint8(0xbf), sieve[2])
}

func TestGapsWalkResidues(t *testing.T) {
	// Starting at residue 1 and applying the gaps cyclically must visit
	// exactly the residues coprime to 30, in ascending order.
	want := []uint64{1, 7, 11, 13, 17, 19, 23, 29, 31, 37}
	n := uint64(1)
	idx := Index(1)
	for i, w := range want {
		require.Equal(t, w, n, "step %d", i)
		n += Gaps[idx]
		idx = (idx + 1) & 7
	}
}

func TestFirstMultiple(t *testing.T) {
	// p=7 from the origin: the first coprime multiple is 7*7=49.
	m, idx := FirstMultiple(7, 0)
	assert.Equal(t, uint64(49), m)
	// The following multiples are 7*11, 7*13, ...
	m += 7 * Gaps[idx]
	assert.Equal(t, uint64(77), m)

	// p=11 in a window starting at 120: first candidate is
	// max(121, 127) = 127, so the cofactor rounds up to 13.
	m, idx = FirstMultiple(11, 120)
	assert.Equal(t, uint64(11*13), m)
	m += 11 * Gaps[idx]
	assert.Equal(t, uint64(11*17), m)

	// The cofactor never drops below p, so p itself is never returned.
	m, _ = FirstMultiple(13, 0)
	assert.Equal(t, uint64(169), m)
}

func TestFirstMultiple_Coverage(t *testing.T) {
	// Stepping from the first multiple must visit every multiple of p
	// that is coprime to 30 within a window, and nothing else.
	const p, low, high = 7, 300, 900
	seen := make(map[uint64]bool)
	m, idx := FirstMultiple(p, low)
	for m <= high {
		seen[m] = true
		m += p * Gaps[idx]
		idx = (idx + 1) & 7
	}
	for n := uint64(low + 7); n <= high; n++ {
		coprime := n%2 != 0 && n%3 != 0 && n%5 != 0
		if n%p == 0 && coprime && n >= p*p {
			assert.True(t, seen[n], "missing multiple %d", n)
		} else {
			assert.False(t, seen[n], "unexpected multiple %d", n)
		}
	}
}
