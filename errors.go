package primego

import (
	"errors"
	"fmt"

	"github.com/hupe1980/primego/internal/erat"
)

var (
	// ErrConfiguration is returned for invalid construction parameters:
	// bad start/stop ordering, an out-of-range sieve size or an
	// out-of-range pre-sieve limit. Use errors.As to retrieve the
	// underlying engine error for details.
	ErrConfiguration = errors.New("invalid sieve configuration")

	// ErrResource is returned when a sieve buffer or tier allocation
	// fails during construction.
	ErrResource = errors.New("sieve resource allocation failed")
)

// translateError maps internal engine errors onto the public taxonomy.
// The original underlying error can be accessed via errors.Unwrap.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	var re *erat.RangeError
	if errors.As(err, &re) {
		return fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	var se *erat.SieveSizeError
	if errors.As(err, &se) {
		return fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	var pe *erat.PreSieveLimitError
	if errors.As(err, &pe) {
		return fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	return err
}
