package erat

import (
	"log/slog"

	"github.com/hupe1980/primego/internal/imath"
	"github.com/hupe1980/primego/internal/presieve"
	"github.com/hupe1980/primego/internal/wheel"
)

const (
	// MaxStop is the largest supported upper bound, 2^64 - 10*2^32.
	// It leaves enough headroom above stop so that stepping a sieving
	// prime past the final segment never overflows uint64.
	MaxStop = ^uint64(0) - 10*(uint64(1)<<32)

	// MinSieveSizeKiB and MaxSieveSizeKiB bound the segment buffer.
	MinSieveSizeKiB = 1
	MaxSieveSizeKiB = 4096

	// MinPreSieveLimit and MaxPreSieveLimit bound the pre-sieve prime.
	MinPreSieveLimit = 13
	MaxPreSieveLimit = 23

	// Tier limit factors relative to the segment byte size. The small
	// band favors dense stepping, the medium band per-prime
	// bookkeeping; everything above is bucketed.
	factorSmall  = 0.75
	factorMedium = 6
)

// SegmentFunc consumes one finished segment. The sieve's set bits encode
// the primes in [segmentLow+7, segmentLow+len(sieve)*30+1]. The buffer is
// reused for the next segment, so implementations must copy any data they
// keep. A non-nil error aborts the sieve and propagates unmodified.
type SegmentFunc func(sieve []byte, segmentLow uint64) error

// Config configures a Sieve.
type Config struct {
	// Start and Stop bound the range to sieve, inclusive.
	// Start must be >= 7 and <= Stop; Stop must be <= MaxStop.
	Start uint64
	Stop  uint64

	// SieveSizeKiB is the requested segment buffer size in KiB. It is
	// floored to a power of two and must be in [1, 4096]. This value
	// bounds the engine's memory use regardless of the range size.
	SieveSizeKiB int

	// PreSieveLimit selects the largest pre-sieved prime, in [13, 23].
	PreSieveLimit int

	// OnSegment receives every finished segment. Required.
	OnSegment SegmentFunc

	// Logger receives debug traces. Optional.
	Logger *slog.Logger
}

// Sieve is a segmented, wheel-factorized sieve of Eratosthenes. It slides
// a fixed-size segment window across [start, stop], delegating the
// crossing-off work per sieving-prime magnitude band, and emits each
// finished segment exactly once in ascending order.
type Sieve struct {
	start    uint64
	stop     uint64
	sqrtStop uint64

	pre    *presieve.PreSieve
	small  *eratSmall
	medium *eratMedium
	big    *eratBig

	buf   []byte // full allocation, len = initial sieve size
	sieve []byte // current window, shrinks once for the final segment

	segmentLow  uint64
	segmentHigh uint64
	segments    uint64

	onSegment SegmentFunc
	logger    *slog.Logger
	finished  bool
}

// New validates cfg, computes the derived sieve state and builds the tier
// cascade. Construction is all-or-nothing: on any error no partially
// usable sieve is retained.
func New(cfg Config) (*Sieve, error) {
	if cfg.OnSegment == nil {
		return nil, ErrNoCallback
	}
	if cfg.Start < 7 {
		return nil, &RangeError{Start: cfg.Start, Stop: cfg.Stop, Reason: "start must be >= 7"}
	}
	if cfg.Start > cfg.Stop {
		return nil, &RangeError{Start: cfg.Start, Stop: cfg.Stop, Reason: "start must be <= stop"}
	}
	if cfg.Stop > MaxStop {
		return nil, &RangeError{Start: cfg.Start, Stop: cfg.Stop, Reason: "stop exceeds maximum"}
	}
	if cfg.SieveSizeKiB < MinSieveSizeKiB || cfg.SieveSizeKiB > MaxSieveSizeKiB {
		return nil, &SieveSizeError{KiB: cfg.SieveSizeKiB}
	}
	if cfg.PreSieveLimit < MinPreSieveLimit || cfg.PreSieveLimit > MaxPreSieveLimit {
		return nil, &PreSieveLimitError{Limit: cfg.PreSieveLimit}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	// The sieve size must be a power of two so segment spans divide
	// evenly; flooring keeps the caller's request as the upper bound.
	kib := imath.InBetween(MinSieveSizeKiB, imath.FloorPow2(cfg.SieveSizeKiB), MaxSieveSizeKiB)
	sieveBytes := kib * 1024

	pre, err := presieve.New(cfg.PreSieveLimit)
	if err != nil {
		return nil, &PreSieveLimitError{Limit: cfg.PreSieveLimit}
	}

	s := &Sieve{
		start:     cfg.Start,
		stop:      cfg.Stop,
		sqrtStop:  imath.ISqrt(cfg.Stop),
		pre:       pre,
		onSegment: cfg.OnSegment,
		logger:    logger,
	}
	s.segmentLow = s.start - wheel.ByteRemainder(s.start)
	s.segmentHigh = s.segmentLow + uint64(sieveBytes)*wheel.NumbersPerByte + 1

	if err := s.initTiers(sieveBytes); err != nil {
		return nil, err
	}

	s.buf = make([]byte, sieveBytes)
	s.sieve = s.buf

	logger.Debug("sieve constructed",
		"start", s.start,
		"stop", s.stop,
		"sqrt_stop", s.sqrtStop,
		"sieve_bytes", sieveBytes,
		"tiers", s.tierCount(),
	)
	return s, nil
}

// initTiers builds the cascade of crossing-off tiers. A tier exists only
// if sqrt(stop) exceeds the limit already covered by the pre-sieve or the
// previous tier; the last constructed tier's limit is exactly sqrt(stop).
// Candidates are committed only after the whole cascade succeeded.
func (s *Sieve) initTiers(sieveBytes int) error {
	if s.sqrtStop <= s.pre.Limit() {
		return nil
	}
	small, err := newEratSmall(s.stop, sieveBytes, uint64(float64(sieveBytes)*factorSmall))
	if err != nil {
		return err
	}
	var (
		medium *eratMedium
		big    *eratBig
	)
	if s.sqrtStop > small.Limit() {
		medium, err = newEratMedium(s.stop, sieveBytes, uint64(sieveBytes)*factorMedium)
		if err != nil {
			return err
		}
		if s.sqrtStop > medium.Limit() {
			big, err = newEratBig(s.stop, sieveBytes, s.sqrtStop)
			if err != nil {
				return err
			}
		}
	}
	s.small, s.medium, s.big = small, medium, big
	return nil
}

func (s *Sieve) tierCount() int {
	n := 0
	if s.small != nil {
		n++
	}
	if s.medium != nil {
		n++
	}
	if s.big != nil {
		n++
	}
	return n
}

// SqrtStop returns the integer square root of stop. Sieving primes above
// it have no second multiple within the range and need no crossing-off.
func (s *Sieve) SqrtStop() uint64 { return s.sqrtStop }

// PreSieveLimit returns the largest pre-sieved prime. Only sieving primes
// above it must be supplied via AddSievingPrime.
func (s *Sieve) PreSieveLimit() uint64 { return s.pre.Limit() }

// AddSievingPrime supplies one sieving prime to the tier cascade. The
// caller must supply every prime p with PreSieveLimit() < p <= SqrtStop(),
// in any order, before calling Finish.
func (s *Sieve) AddSievingPrime(p uint64) {
	switch {
	case s.small != nil && p <= s.small.Limit():
		s.small.AddSievingPrime(p, s.segmentLow)
	case s.medium != nil && p <= s.medium.Limit():
		s.medium.AddSievingPrime(p, s.segmentLow)
	case s.big != nil:
		s.big.AddSievingPrime(p, s.segmentLow)
	}
}

// preSieve initializes the current segment with the small-prime composite
// pattern and enforces the requested lower bound in the first segment.
func (s *Sieve) preSieve() {
	s.pre.Apply(s.sieve, s.segmentLow)
	if s.segmentLow <= s.start {
		// The pattern crosses off the pre-sieved primes themselves;
		// restore them if they fall into the range.
		if s.start <= s.pre.Limit() {
			s.sieve[0] = 0xff
		}
		s.sieve[0] &= wheel.LowerBoundMask(wheel.ByteRemainder(s.start))
	}
}

// crossOffMultiples runs the tier cascade over the current segment in
// ascending magnitude order. An absent tier has no assigned primes, so
// skipping it changes nothing observable.
func (s *Sieve) crossOffMultiples() {
	if s.small != nil {
		s.small.CrossOff(s.sieve, s.segmentLow)
		if s.medium != nil {
			s.medium.CrossOff(s.sieve, s.segmentLow)
			if s.big != nil {
				s.big.CrossOff(s.sieve, s.segmentLow)
			}
		}
	}
}

// sieveSegment sieves the current segment and emits it.
func (s *Sieve) sieveSegment() error {
	s.preSieve()
	s.crossOffMultiples()
	s.segments++
	return s.onSegment(s.sieve, s.segmentLow)
}

// Finish drains all remaining full-size segments and then sieves the
// final, possibly undersized segment whose window ends exactly at stop.
// It must be called exactly once, after every sieving prime has been
// supplied. Errors returned by the segment callback propagate unmodified.
func (s *Sieve) Finish() error {
	if s.finished {
		return ErrFinished
	}
	s.finished = true

	span := uint64(len(s.sieve)) * wheel.NumbersPerByte
	for s.segmentHigh < s.stop {
		if err := s.sieveSegment(); err != nil {
			return err
		}
		s.segmentLow += span
		s.segmentHigh += span
	}

	// Shrink the window so it ends exactly at stop.
	rem := wheel.ByteRemainder(s.stop)
	sieveBytes := (s.stop-rem-s.segmentLow)/wheel.NumbersPerByte + 1
	s.sieve = s.buf[:sieveBytes]
	s.segmentHigh = s.segmentLow + sieveBytes*wheel.NumbersPerByte + 1

	s.preSieve()
	s.crossOffMultiples()

	// Clear the bits above stop, then zero the padding up to the next
	// multiple of 8 bytes so bulk bit-scanning consumers never read
	// stale candidates.
	s.sieve[sieveBytes-1] &= wheel.UpperBoundMask(rem)
	for i := sieveBytes; i%8 != 0; i++ {
		s.buf[i] = 0
	}

	s.segments++
	if err := s.onSegment(s.sieve, s.segmentLow); err != nil {
		return err
	}
	s.logger.Debug("sieve finished", "segments", s.segments)
	return nil
}
