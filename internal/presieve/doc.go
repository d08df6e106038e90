// Package presieve generates the precomputed composite pattern for the
// smallest sieving primes (7 to at most 23).
//
// Crossing off multiples of these primes dominates the cost of a naive
// sieve because they hit so many candidates per segment. The pattern is
// computed once per sieve and copied into every segment instead, aligned
// to the segment's numeric offset.
package presieve
