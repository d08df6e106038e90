package presieve

import (
	"fmt"

	"github.com/hupe1980/primego/internal/wheel"
)

// primes are the candidates for pre-sieving. The configured limit selects
// a prefix of this list.
var primes = [6]uint64{7, 11, 13, 17, 19, 23}

// PreSieve holds the composite pattern for all primes up to its limit.
// The pattern length in bytes equals the product of the pre-sieved primes,
// which is the pattern's period measured in 30-blocks.
type PreSieve struct {
	limit   uint64
	pattern []byte
}

// New builds the composite pattern for all primes p with 7 <= p <= limit.
// limit must be in [13, 23].
func New(limit int) (*PreSieve, error) {
	if limit < 13 || limit > 23 {
		return nil, fmt.Errorf("pre-sieve limit %d out of range [13, 23]", limit)
	}

	p := &PreSieve{}
	size := uint64(1)
	for _, prime := range primes {
		if prime > uint64(limit) {
			break
		}
		p.limit = prime
		size *= prime
	}

	p.pattern = make([]byte, size)
	for i := range p.pattern {
		p.pattern[i] = 0xff
	}
	end := size*wheel.NumbersPerByte + 1
	for _, prime := range primes {
		if prime > p.limit {
			break
		}
		// Cross off every multiple of prime that is coprime to 30,
		// including prime itself; the first segment restores the
		// pre-sieved primes afterwards.
		m := prime
		idx := wheel.Index(1)
		for m <= end {
			wheel.ClearBit(p.pattern, m)
			m += prime * wheel.Gaps[idx]
			idx = (idx + 1) & 7
		}
	}

	return p, nil
}

// Limit returns the largest pre-sieved prime.
func (p *PreSieve) Limit() uint64 {
	return p.limit
}

// Apply overwrites sieve with the composite pattern aligned to the
// segment's numeric offset. segmentLow must be 30-aligned.
func (p *PreSieve) Apply(sieve []byte, segmentLow uint64) {
	period := uint64(len(p.pattern))
	off := (segmentLow / wheel.NumbersPerByte) % period
	for n := 0; n < len(sieve); {
		n += copy(sieve[n:], p.pattern[off:])
		off = 0
	}
}
