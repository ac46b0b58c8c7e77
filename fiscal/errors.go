/*
errors.go - Centralized error types for the fiscal engine

PURPOSE:
  All shared error types in one place. Domain packages wrap these with
  additional context where useful.

ERROR CATEGORIES:
  1. Lifecycle violations - mutating a closed period or a non-editable budget
  2. Validation errors    - missing required entry fields
  3. Store errors         - persistence-level failures

Parse errors are deliberately absent: malformed numeric input normalizes to
zero at the boundary (see amount.go) and never becomes an error value.

USAGE:
  if errors.Is(err, fiscal.ErrPeriodClosed) {
      // explain to the caller why the action is blocked
  }
*/
package fiscal

import (
	"errors"
	"fmt"
	"strings"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrPeriodClosed is returned when an entry, schema, or metadata mutation
	// is attempted against a register period with editing closed.
	ErrPeriodClosed = errors.New("period is closed for editing")

	// ErrNotEditable is returned when a budget mutation is attempted while
	// the record's status is not open_for_editing.
	ErrNotEditable = errors.New("budget is not open for editing")

	// ErrInvalidTransition is returned by a lifecycle operation whose source
	// state does not permit it.
	ErrInvalidTransition = errors.New("invalid lifecycle transition")

	// ErrInvalidPeriodKey is returned when a period key string cannot be
	// parsed into a (year, quarter) pair.
	ErrInvalidPeriodKey = errors.New("invalid period key")

	// ErrRecordNotFound is returned by stores when no snapshot exists for
	// the requested key.
	ErrRecordNotFound = errors.New("record not found")

	// ErrEntryIndexOutOfRange is returned when deleting a register entry by
	// an index the period does not have.
	ErrEntryIndexOutOfRange = errors.New("entry index out of range")

	// ErrSaveInFlight is returned when an explicit save is requested while
	// another save for the same aggregate is still running.
	ErrSaveInFlight = errors.New("save already in flight")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationError reports required entry fields that are missing or blank.
// It is raised before any mutation; the caller decides the messaging.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Missing, ", ")
}

// TransitionError reports a refused lifecycle transition with enough context
// for the caller to explain why the action is blocked.
type TransitionError struct {
	From   string
	Action string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s from status %q", e.Action, e.From)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsLifecycleViolation reports whether the error is a refused mutation or
// transition, as opposed to a persistence failure.
func IsLifecycleViolation(err error) bool {
	return errors.Is(err, ErrPeriodClosed) ||
		errors.Is(err, ErrNotEditable) ||
		errors.Is(err, ErrInvalidTransition)
}

// IsClientError reports whether the error is due to invalid caller input.
func IsClientError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve) ||
		errors.Is(err, ErrInvalidPeriodKey) ||
		errors.Is(err, ErrEntryIndexOutOfRange) ||
		IsLifecycleViolation(err)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrRecordNotFound)
}
