package erat

import (
	"github.com/hupe1980/primego/internal/imath"
	"github.com/hupe1980/primego/internal/wheel"
)

// eratBig crosses off multiples of big sieving primes. A prime in this
// band has at most about one multiple per segment, so scanning every prime
// each segment would waste nearly all of its work. Instead primes are kept
// in a ring of buckets keyed by the segment in which their next multiple
// falls; a segment only ever touches the primes that actually hit it.
type eratBig struct {
	limit   uint64
	span    uint64 // numeric span of one full-size segment
	buckets [][]wheelPrime
	cur     int
}

func newEratBig(stop uint64, sieveBytes int, limit uint64) (*eratBig, error) {
	if sqrt := imath.ISqrt(stop); limit > sqrt {
		limit = sqrt
	}
	return &eratBig{
		limit:   limit,
		span:    uint64(sieveBytes) * wheel.NumbersPerByte,
		buckets: make([][]wheelPrime, 8),
	}, nil
}

// Limit returns the effective upper magnitude bound of this tier.
func (e *eratBig) Limit() uint64 { return e.limit }

// AddSievingPrime registers p and buckets it by the segment holding its
// first multiple at or after segmentLow.
func (e *eratBig) AddSievingPrime(p, segmentLow uint64) {
	m, idx := wheel.FirstMultiple(p, segmentLow)
	e.place(wheelPrime{prime: p, next: m, idx: idx}, segmentLow)
}

// CrossOff clears the bits of all composites in the segment that belong to
// this tier's primes, then re-buckets each processed prime by its new next
// multiple.
func (e *eratBig) CrossOff(sieve []byte, segmentLow uint64) {
	high := segmentLow + uint64(len(sieve))*wheel.NumbersPerByte + 1
	list := e.buckets[e.cur]
	e.buckets[e.cur] = nil
	for _, wp := range list {
		for wp.next <= high {
			wheel.ClearBit(sieve, wp.next-segmentLow)
			wp.next += wp.prime * wheel.Gaps[wp.idx]
			wp.idx = (wp.idx + 1) & 7
		}
		e.place(wp, segmentLow)
	}
	e.cur++
	if e.cur == len(e.buckets) {
		e.cur = 0
	}
}

// place appends wp to the bucket of the segment whose buffer owns the bit
// of wp.next, growing the ring when that lies further ahead than the ring
// currently covers. A segment's buffer owns the offsets (0, span+1]: a
// multiple exactly one above a segment boundary has residue 1 mod 30 and
// its bit lives in the previous segment's last byte, so the division runs
// on off-2. Offsets are always >= 7 here, so off-2 cannot underflow.
func (e *eratBig) place(wp wheelPrime, segmentLow uint64) {
	dist := int((wp.next - segmentLow - 2) / e.span)
	if dist >= len(e.buckets) {
		e.grow(dist + 1)
	}
	slot := e.cur + dist
	if n := len(e.buckets); slot >= n {
		slot -= n
	}
	e.buckets[slot] = append(e.buckets[slot], wp)
}

// grow resizes the bucket ring to at least n slots, rotating it so the
// current bucket lands at index 0.
func (e *eratBig) grow(n int) {
	if m := 2 * len(e.buckets); n < m {
		n = m
	}
	next := make([][]wheelPrime, n)
	for i := range e.buckets {
		j := e.cur + i
		if j >= len(e.buckets) {
			j -= len(e.buckets)
		}
		next[i] = e.buckets[j]
	}
	e.buckets = next
	e.cur = 0
}
