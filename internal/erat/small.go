package erat

import (
	"github.com/hupe1980/primego/internal/imath"
	"github.com/hupe1980/primego/internal/wheel"
)

// wheelPrime is the crossing-off state of one sieving prime: the next
// multiple coprime to 30 and the wheel index of its cofactor.
type wheelPrime struct {
	prime uint64
	next  uint64
	idx   uint8
}

// eratSmall crosses off multiples of small sieving primes. Every prime in
// this band has many multiples per segment, so a dense stepping loop over
// the whole buffer amortizes best: per prime the loop body runs dozens to
// thousands of times with no bookkeeping between hits.
type eratSmall struct {
	limit  uint64
	primes []wheelPrime
}

func newEratSmall(stop uint64, sieveBytes int, limit uint64) (*eratSmall, error) {
	if max := uint64(sieveBytes) * wheel.NumbersPerByte; limit > max {
		limit = max
	}
	if sqrt := imath.ISqrt(stop); limit > sqrt {
		limit = sqrt
	}
	return &eratSmall{limit: limit}, nil
}

// Limit returns the effective upper magnitude bound of this tier.
func (e *eratSmall) Limit() uint64 { return e.limit }

// AddSievingPrime registers p and positions its first multiple at or after
// segmentLow.
func (e *eratSmall) AddSievingPrime(p, segmentLow uint64) {
	m, idx := wheel.FirstMultiple(p, segmentLow)
	e.primes = append(e.primes, wheelPrime{prime: p, next: m, idx: idx})
}

// CrossOff clears the bits of all composites in the segment that belong to
// this tier's primes. The segment covers [segmentLow+7, high] where
// high = segmentLow + len(sieve)*30 + 1.
func (e *eratSmall) CrossOff(sieve []byte, segmentLow uint64) {
	high := segmentLow + uint64(len(sieve))*wheel.NumbersPerByte + 1
	for i := range e.primes {
		wp := &e.primes[i]
		m, idx := wp.next, wp.idx
		step := wp.prime
		for m <= high {
			wheel.ClearBit(sieve, m-segmentLow)
			m += step * wheel.Gaps[idx]
			idx = (idx + 1) & 7
		}
		wp.next, wp.idx = m, idx
	}
}
