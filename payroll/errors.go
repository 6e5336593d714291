/*
errors.go - Error types for the payroll engine

PURPOSE:
  The engine has exactly two failure modes: an unsupported fiscal year and
  a malformed mandatory field. Missing optional data is never an error.
  Cache backends add a third sentinel, ErrCacheMiss, used by Memo.

ERROR CATEGORIES:
  1. Dispatch errors - no calculator registered for the year
  2. Validation errors - mandatory field out of range
  3. Cache errors - fingerprint not stored

USAGE:
  out, err := payroll.Compute(in)
  if payroll.IsClientError(err) {
      // 4xx at the HTTP edge
  }

SEE ALSO:
  - registry.go: Raises UnsupportedYearError
  - input.go: Raises InputError
  - memo.go: Consumes ErrCacheMiss
*/
package payroll

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrUnsupportedYear is returned when no calculator is registered for
	// the requested fiscal year. No partial output is produced.
	ErrUnsupportedYear = errors.New("unsupported fiscal year")

	// ErrInvalidInput is returned when a mandatory field is out of range.
	ErrInvalidInput = errors.New("invalid input")

	// ErrCacheMiss is returned by cache backends for an unknown fingerprint.
	ErrCacheMiss = errors.New("cache miss")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// UnsupportedYearError names the requested year and the registered ones.
type UnsupportedYearError struct {
	Year      int
	Supported []int
}

func (e *UnsupportedYearError) Error() string {
	years := append([]int(nil), e.Supported...)
	sort.Ints(years)
	parts := make([]string, len(years))
	for i, y := range years {
		parts[i] = fmt.Sprint(y)
	}
	return fmt.Sprintf("unsupported fiscal year %d (supported: %s)", e.Year, strings.Join(parts, ", "))
}

func (e *UnsupportedYearError) Unwrap() error {
	return ErrUnsupportedYear
}

// InputError points at the offending field.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Reason)
}

func (e *InputError) Unwrap() error {
	return ErrInvalidInput
}

// =============================================================================
// ERROR CLASSIFICATION
// =============================================================================

// IsClientError returns true if the error was caused by the request.
func IsClientError(err error) bool {
	return errors.Is(err, ErrUnsupportedYear) || errors.Is(err, ErrInvalidInput)
}

// IsNotFound returns true for lookups of unknown entities.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrCacheMiss)
}
