package scheduler

import "errors"

var (
	// ErrAlreadyStarted indicates Register was called after Start.
	ErrAlreadyStarted = errors.New("scheduler: already started")

	// ErrNotStarted indicates Submit was called before Start.
	ErrNotStarted = errors.New("scheduler: not started")

	// ErrStopped indicates the scheduler has been stopped.
	ErrStopped = errors.New("scheduler: stopped")

	// ErrDuplicateJob indicates a job name was registered twice.
	ErrDuplicateJob = errors.New("scheduler: duplicate job name")

	// ErrInvalidInterval indicates a non-positive job interval.
	ErrInvalidInterval = errors.New("scheduler: interval must be positive")
)
