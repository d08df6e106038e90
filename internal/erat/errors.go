package erat

import (
	"errors"
	"fmt"
)

var (
	// ErrFinished is returned when Finish is called more than once.
	ErrFinished = errors.New("sieve already finished")

	// ErrNoCallback is returned when a sieve is constructed without a
	// segment callback.
	ErrNoCallback = errors.New("segment callback required")
)

// RangeError indicates invalid start/stop bounds.
type RangeError struct {
	Start  uint64
	Stop   uint64
	Reason string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("invalid range [%d, %d]: %s", e.Start, e.Stop, e.Reason)
}

// SieveSizeError indicates a sieve size outside [1, 4096] KiB.
type SieveSizeError struct {
	KiB int
}

func (e *SieveSizeError) Error() string {
	return fmt.Sprintf("sieve size %d KiB out of range [1, 4096]", e.KiB)
}

// PreSieveLimitError indicates a pre-sieve limit outside [13, 23].
type PreSieveLimitError struct {
	Limit int
}

func (e *PreSieveLimitError) Error() string {
	return fmt.Sprintf("pre-sieve limit %d out of range [13, 23]", e.Limit)
}
