package jobs

import "errors"

var (
	// ErrNotFound is returned when a job does not exist.
	ErrNotFound = errors.New("job not found")

	// ErrStepConflict is returned when a compare-and-swap on the job's
	// current step loses to a concurrent advance. Callers should re-fetch
	// the job and retry.
	ErrStepConflict = errors.New("job step changed concurrently")

	// ErrDuplicateJobNumber is returned when the generated job number
	// collides with an existing row.
	ErrDuplicateJobNumber = errors.New("job number already exists")
)
