package scheduler

import "errors"

var (
	// ErrInvalidConcurrency is returned when the worker count is not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrInvalidDuration is returned when the run duration is not positive.
	ErrInvalidDuration = errors.New("invalid duration: must be positive")

	// ErrInvalidRate is returned when the submission rate is negative.
	ErrInvalidRate = errors.New("invalid rate: must not be negative")

	// ErrNilTarget is returned when no target operation is given.
	ErrNilTarget = errors.New("target function is nil")

	// ErrNilRecorder is returned when the scheduler has nowhere to record outcomes.
	ErrNilRecorder = errors.New("recorder is nil")

	// ErrAlreadyStarted is returned when Run is called more than once.
	ErrAlreadyStarted = errors.New("scheduler has already been started")
)
