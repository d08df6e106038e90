package erat

import (
	"github.com/hupe1980/primego/internal/imath"
	"github.com/hupe1980/primego/internal/wheel"
)

// eratMedium crosses off multiples of medium sieving primes. Primes in
// this band produce only a handful of multiples per segment, so the cost
// per prime is dominated by the per-segment visit rather than the stepping
// loop; primes whose next multiple lies beyond the segment are skipped
// with a single comparison.
type eratMedium struct {
	limit  uint64
	primes []wheelPrime
}

func newEratMedium(stop uint64, sieveBytes int, limit uint64) (*eratMedium, error) {
	if sqrt := imath.ISqrt(stop); limit > sqrt {
		limit = sqrt
	}
	return &eratMedium{limit: limit}, nil
}

// Limit returns the effective upper magnitude bound of this tier.
func (e *eratMedium) Limit() uint64 { return e.limit }

// AddSievingPrime registers p and positions its first multiple at or after
// segmentLow.
func (e *eratMedium) AddSievingPrime(p, segmentLow uint64) {
	m, idx := wheel.FirstMultiple(p, segmentLow)
	e.primes = append(e.primes, wheelPrime{prime: p, next: m, idx: idx})
}

// CrossOff clears the bits of all composites in the segment that belong to
// this tier's primes.
func (e *eratMedium) CrossOff(sieve []byte, segmentLow uint64) {
	high := segmentLow + uint64(len(sieve))*wheel.NumbersPerByte + 1
	for i := range e.primes {
		wp := &e.primes[i]
		if wp.next > high {
			continue
		}
		m, idx := wp.next, wp.idx
		for m <= high {
			wheel.ClearBit(sieve, m-segmentLow)
			m += wp.prime * wheel.Gaps[idx]
			idx = (idx + 1) & 7
		}
		wp.next, wp.idx = m, idx
	}
}
