// Package imath provides integer math helpers for the sieve engine.
//
// All functions are pure and overflow-safe for the full uint64 range the
// engine supports.
package imath
