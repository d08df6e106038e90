// Package wheel implements the modulo 30 wheel factorization used by the
// sieve engine.
//
// Each byte of a sieve array represents a contiguous block of 30 integers.
// Only the 8 residues coprime to 2, 3 and 5 are stored, one per bit, so a
// set bit means "still a prime candidate". All tables in this package are
// process-wide immutable constant data and safe for concurrent readers.
package wheel
