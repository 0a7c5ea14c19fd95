package trend

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedSummary matches any MalformedSummaryError with errors.Is
	ErrMalformedSummary = errors.New("malformed summary")
	// ErrInvalidInput matches any InvalidInputError with errors.Is
	ErrInvalidInput = errors.New("invalid input")
)

// MalformedSummaryError is returned when a summary is missing a field
// or a field has a value that can not be charted.
type MalformedSummaryError struct {
	// Index is the position of the summary in the trend, -1 if it is unknown
	Index  int
	Field  string
	Reason string
}

func (e *MalformedSummaryError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("malformed summary field %q: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("malformed summary at position %d field %q: %s", e.Index, e.Field, e.Reason)
}

// Is allows errors.Is(err, ErrMalformedSummary)
func (e *MalformedSummaryError) Is(target error) bool {
	return target == ErrMalformedSummary
}

// InvalidInputError is returned when a value has no defined result,
// such as the passed percentage of a run with no passed or failed tests.
type InvalidInputError struct {
	Index  int
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input at position %d: %s", e.Index, e.Reason)
}

// Is allows errors.Is(err, ErrInvalidInput)
func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}
