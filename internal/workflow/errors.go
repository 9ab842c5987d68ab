package workflow

import (
	"errors"
	"strings"
)

var (
	// ErrTerminalStep is returned when advancing a job that is already at
	// the final step. It is a no-op failure, not a system fault.
	ErrTerminalStep = errors.New("job is already at the final step")

	// ErrStepNotAccessible is returned when a requested step is out of
	// reach from the job's current position.
	ErrStepNotAccessible = errors.New("target step is not accessible from the current step")

	// ErrUnknownStep is returned when a job carries a step the catalog
	// does not define.
	ErrUnknownStep = errors.New("unknown workflow step")
)

// ValidationError reports that one or more gate conditions are unmet.
// The caller fixes the underlying data and retries the advance.
type ValidationError struct {
	Reasons  []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Reasons, ". ")
}

// IsValidationError unwraps err as a *ValidationError if it is one.
func IsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
