// Package primego enumerates prime numbers in arbitrary 64-bit ranges
// using a segmented, wheel-factorized sieve of Eratosthenes.
//
// The engine processes a range in fixed-size windows, so memory use is a
// small caller-chosen constant (1 KiB to 4 MiB) regardless of how large
// the range is; ranges up to 2^64 - 10*2^32 are supported. Only numbers
// coprime to 2, 3 and 5 are represented, packing 8 candidates per 30
// numbers into one byte, and multiples of the smallest primes come from a
// precomputed pattern instead of being re-sieved per segment.
//
// # Quick Start
//
// Count the primes below one million:
//
//	count, err := primego.Count(0, 1_000_000)
//	if err != nil {
//	    panic(err)
//	}
//
// Iterate primes in a range, stopping early if needed:
//
//	err := primego.ForEach(1_000_000_000, 1_000_001_000, func(p uint64) bool {
//	    fmt.Println(p)
//	    return true
//	})
//
// Range-over-func iteration:
//
//	for p, err := range primego.All(0, 100) {
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(p)
//	}
//
// Collect a range into a Roaring bitmap:
//
//	bm, err := primego.Bitmap(0, 1_000_000)
//
// # Tuning
//
// The sieve size and pre-sieve limit trade memory for speed; the result
// set never depends on them:
//
//	count, err := primego.Count(0, 1_000_000_000,
//	    primego.WithSieveSize(256),
//	    primego.WithPreSieveLimit(23),
//	)
//
// # Segment Logs
//
// WriteSegments persists the raw sieved segments as a compressed,
// checksummed stream that ScanPrimes can replay later without re-sieving:
//
//	var buf bytes.Buffer
//	err := primego.WriteSegments(&buf, 0, 10_000_000, seglog.CompressionZstd)
//	...
//	err = primego.ScanPrimes(&buf, func(p uint64) bool { ... })
package primego
