package seglog

import "errors"

var (
	// ErrCorrupt is returned when a segment log fails validation: bad
	// magic, a checksum mismatch, a truncated record or an implausible
	// length field.
	ErrCorrupt = errors.New("segment log corrupt")

	// ErrIncompatibleVersion is returned when the log version is not
	// supported.
	ErrIncompatibleVersion = errors.New("incompatible segment log version")

	// ErrUnknownCompression is returned for an unsupported compression
	// mode.
	ErrUnknownCompression = errors.New("unknown compression mode")
)
