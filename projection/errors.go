package projection

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRange is returned for an axis that cannot be enumerated.
	ErrInvalidRange = errors.New("invalid range")

	// ErrTooManyPoints is returned when the grid exceeds the engine limit.
	ErrTooManyPoints = errors.New("too many projection points")
)

// RangeError describes the offending axis.
type RangeError struct {
	Range  Range
	Reason string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("invalid range %s..%s step %s: %s", e.Range.Min, e.Range.Max, e.Range.Step, e.Reason)
}

func (e *RangeError) Unwrap() error {
	return ErrInvalidRange
}

// IsClientError returns true if the error was caused by the request.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidRange) || errors.Is(err, ErrTooManyPoints)
}
