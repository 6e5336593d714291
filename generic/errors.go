/*
errors.go - Error types for the numeric core

PURPOSE:
  Sentinel and structured errors raised while validating rule data.
  Domain packages wrap these with their own context (year, region code).

USAGE:
  if err := schedule.Validate(); err != nil {
      if errors.Is(err, generic.ErrInvalidSchedule) { ... }
  }

SEE ALSO:
  - schedule.go: Raises ScheduleError
  - payroll/errors.go: Domain errors wrapping these
*/
package generic

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidSchedule is returned when a bracket schedule is malformed:
	// empty, not ascending, or missing the unbounded final bracket.
	ErrInvalidSchedule = errors.New("invalid bracket schedule")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ScheduleError points at the offending bracket. Index is -1 when the
// schedule as a whole is wrong.
type ScheduleError struct {
	Index  int
	Reason string
}

func (e *ScheduleError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("invalid bracket schedule: %s", e.Reason)
	}
	return fmt.Sprintf("invalid bracket schedule: bracket %d: %s", e.Index+1, e.Reason)
}

func (e *ScheduleError) Unwrap() error {
	return ErrInvalidSchedule
}
