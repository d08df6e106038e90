// Package seglog persists sieved segments as a compressed, checksummed
// stream.
//
// A segment log stores the raw wheel-packed segment buffers emitted by a
// sieve run, so consumers can replay the primes of a range later without
// re-sieving it. Each record is CRC32-Castagnoli protected and compressed
// with LZ4 or ZSTD (or stored raw).
package seglog
