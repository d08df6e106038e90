package primego

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"math/bits"
	"time"

	"github.com/RoaringBitmap/roaring/v2/roaring64"

	"github.com/hupe1980/primego/internal/erat"
	"github.com/hupe1980/primego/internal/wheel"
	"github.com/hupe1980/primego/seglog"
)

// errStopIteration aborts a sieve run when a consumer asked to stop early.
// It never escapes the package.
var errStopIteration = errors.New("stop iteration")

// smallOutput holds the primes below the engine's start floor of 7; they
// are emitted by the front end instead.
var smallOutput = [3]uint64{2, 3, 5}

// Count returns the number of primes in [start, stop].
func Count(start, stop uint64, optFns ...Option) (uint64, error) {
	o := applyOptions(optFns)

	var count uint64
	t0 := time.Now()
	err := runSieve(start, stop, o,
		func(sieve []byte, _ uint64) error {
			for _, b := range sieve {
				count += uint64(bits.OnesCount8(b))
			}
			return nil
		},
		func(uint64) bool {
			count++
			return true
		})
	o.metrics.RecordSieve(time.Since(t0), err)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// ForEach calls fn for every prime in [start, stop] in ascending order.
// Returning false from fn stops the iteration early without error.
func ForEach(start, stop uint64, fn func(prime uint64) bool, optFns ...Option) error {
	o := applyOptions(optFns)

	t0 := time.Now()
	err := runSieve(start, stop, o,
		func(sieve []byte, segmentLow uint64) error {
			if !scanSegment(sieve, segmentLow, fn) {
				return errStopIteration
			}
			return nil
		},
		fn)
	o.metrics.RecordSieve(time.Since(t0), err)
	return err
}

// Primes returns all primes in [start, stop] in ascending order.
func Primes(start, stop uint64, optFns ...Option) ([]uint64, error) {
	var primes []uint64
	err := ForEach(start, stop, func(p uint64) bool {
		primes = append(primes, p)
		return true
	}, optFns...)
	if err != nil {
		return nil, err
	}
	return primes, nil
}

// Bitmap returns the primes in [start, stop] as a 64-bit Roaring bitmap.
func Bitmap(start, stop uint64, optFns ...Option) (*roaring64.Bitmap, error) {
	bm := roaring64.New()
	err := ForEach(start, stop, func(p uint64) bool {
		bm.Add(p)
		return true
	}, optFns...)
	if err != nil {
		return nil, err
	}
	return bm, nil
}

// All returns an iterator over the primes in [start, stop] in ascending
// order. A sieve failure is yielded as the final element's error.
func All(start, stop uint64, optFns ...Option) iter.Seq2[uint64, error] {
	return func(yield func(uint64, error) bool) {
		err := ForEach(start, stop, func(p uint64) bool {
			return yield(p, nil)
		}, optFns...)
		if err != nil {
			yield(0, err)
		}
	}
}

// WriteSegments sieves [start, stop] and writes every emitted segment to w
// as a compressed, checksummed segment log. The log can be replayed with
// ScanPrimes without re-sieving.
func WriteSegments(w io.Writer, start, stop uint64, compression seglog.Compression, optFns ...Option) error {
	o := applyOptions(optFns)

	// Validate before the header is written so a rejected configuration
	// leaves w untouched.
	if start > stop {
		return fmt.Errorf("%w: invalid range [%d, %d]: start must be <= stop", ErrConfiguration, start, stop)
	}
	if o.sieveSizeKiB < erat.MinSieveSizeKiB || o.sieveSizeKiB > erat.MaxSieveSizeKiB {
		return translateError(&erat.SieveSizeError{KiB: o.sieveSizeKiB})
	}
	if o.preSieveLimit < erat.MinPreSieveLimit || o.preSieveLimit > erat.MaxPreSieveLimit {
		return translateError(&erat.PreSieveLimitError{Limit: o.preSieveLimit})
	}

	sw, err := seglog.NewWriter(w, start, stop, compression)
	if err != nil {
		return err
	}
	t0 := time.Now()
	err = runSieve(start, stop, o,
		func(sieve []byte, segmentLow uint64) error {
			return sw.WriteSegment(segmentLow, sieve)
		},
		func(uint64) bool { return true })
	o.metrics.RecordSieve(time.Since(t0), err)
	return err
}

// ScanPrimes replays a segment log written by WriteSegments and calls fn
// for every prime in the log's range, in ascending order. Returning false
// from fn stops the scan early without error.
func ScanPrimes(r io.Reader, fn func(prime uint64) bool) error {
	sr, err := seglog.NewReader(r)
	if err != nil {
		return err
	}
	for _, p := range smallOutput {
		if p >= sr.Start() && p <= sr.Stop() {
			if !fn(p) {
				return nil
			}
		}
	}
	for {
		segmentLow, sieve, err := sr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if !scanSegment(sieve, segmentLow, fn) {
			return nil
		}
	}
}

// runSieve drives one full sieve run: it emits the primes below 7 through
// onSmall, constructs the segment sieve for the rest of the range, supplies
// its sieving primes and finishes it. onSegment receives every emitted
// segment.
func runSieve(start, stop uint64, o *options, onSegment erat.SegmentFunc, onSmall func(uint64) bool) error {
	if start > stop {
		return fmt.Errorf("%w: invalid range [%d, %d]: start must be <= stop", ErrConfiguration, start, stop)
	}

	for _, p := range smallOutput {
		if p >= start && p <= stop {
			if !onSmall(p) {
				return nil
			}
		}
	}
	if stop < 7 {
		return nil
	}
	if start < 7 {
		start = 7
	}

	metered := onSegment
	if _, noop := o.metrics.(NoopMetricsCollector); !noop {
		metered = func(sieve []byte, segmentLow uint64) error {
			t0 := time.Now()
			err := onSegment(sieve, segmentLow)
			o.metrics.RecordSegment(len(sieve), time.Since(t0))
			return err
		}
	}

	main, err := erat.New(erat.Config{
		Start:         start,
		Stop:          stop,
		SieveSizeKiB:  o.sieveSizeKiB,
		PreSieveLimit: o.preSieveLimit,
		OnSegment:     metered,
		Logger:        o.logger.Logger,
	})
	if err != nil {
		return translateError(err)
	}
	if err := supplySievingPrimes(main, o); err != nil {
		return err
	}
	if err := main.Finish(); err != nil {
		if errors.Is(err, errStopIteration) {
			return nil
		}
		return err
	}
	return nil
}

// supplySievingPrimes feeds main every sieving prime it needs, i.e. all
// primes in (preSieveLimit, sqrt(stop)]. They are produced by a second,
// smaller instance of the same segment sieve covering [7, sqrt(stop)],
// which in turn is seeded by a plain bootstrap sieve up to sqrt(sqrt(stop)).
func supplySievingPrimes(main *erat.Sieve, o *options) error {
	sqrtStop := main.SqrtStop()
	if sqrtStop <= main.PreSieveLimit() {
		return nil
	}

	gen, err := erat.New(erat.Config{
		Start:         7,
		Stop:          sqrtStop,
		SieveSizeKiB:  o.sieveSizeKiB,
		PreSieveLimit: 13,
		Logger:        o.logger.Logger,
		OnSegment: func(sieve []byte, segmentLow uint64) error {
			scanSegment(sieve, segmentLow, func(p uint64) bool {
				if p > main.PreSieveLimit() {
					main.AddSievingPrime(p)
				}
				return true
			})
			return nil
		},
	})
	if err != nil {
		return translateError(err)
	}
	if gsqrt := gen.SqrtStop(); gsqrt > gen.PreSieveLimit() {
		for _, p := range bootstrapPrimes(gsqrt) {
			if p > gen.PreSieveLimit() {
				gen.AddSievingPrime(p)
			}
		}
	}
	return gen.Finish()
}

// scanSegment decodes the set bits of a finished segment into prime values
// and hands them to fn in ascending order. It reports whether the scan ran
// to completion.
func scanSegment(sieve []byte, segmentLow uint64, fn func(uint64) bool) bool {
	for i, b := range sieve {
		base := segmentLow + uint64(i)*wheel.NumbersPerByte
		for ; b != 0; b &= b - 1 {
			if !fn(base + wheel.BitValues[bits.TrailingZeros8(b)]) {
				return false
			}
		}
	}
	return true
}

// bootstrapPrimes returns the primes in [7, n] using a plain odd-number
// sieve. It seeds the sieving-prime generator, so n is at most
// sqrt(sqrt(stop)) = 65536 and the temporary bitmap stays tiny.
func bootstrapPrimes(n uint64) []uint64 {
	if n < 7 {
		return nil
	}
	composite := make([]bool, n+1)
	var primes []uint64
	for i := uint64(3); i <= n; i += 2 {
		if composite[i] {
			continue
		}
		if i >= 7 {
			primes = append(primes, i)
		}
		for j := i * i; j <= n; j += 2 * i {
			composite[j] = true
		}
	}
	return primes
}
