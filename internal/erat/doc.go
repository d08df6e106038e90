// Package erat implements the segmented sieve of Eratosthenes engine.
//
// The engine enumerates primes in [start, stop] for arbitrary 64-bit
// bounds while holding only a small fixed-size byte buffer: it slides a
// segment window across the range, pre-sieves each segment with a
// precomputed small-prime pattern, and crosses off multiples of the
// remaining sieving primes with three magnitude-tiered algorithms. Each
// finished segment is handed to a callback whose set bits encode the
// primes of that segment's numeric span.
//
// The engine is single-threaded and synchronous. A caller constructs a
// Sieve, supplies every sieving prime up to sqrt(stop) via
// AddSievingPrime, and then calls Finish exactly once.
package erat
