package domain

import "errors"

var (
	// ErrJobNotFound is returned when a job record is missing from the database
	ErrJobNotFound = errors.New("job not found")

	// ErrJobAlreadyClaimed is returned when a job is not in PENDING status,
	// usually because another worker claimed the same delivery
	ErrJobAlreadyClaimed = errors.New("job already claimed or not in PENDING status")

	// ErrInvalidPayload is returned when the stored params or callback JSON
	// cannot be decoded, or references an unknown device type or test plan
	ErrInvalidPayload = errors.New("invalid job payload")

	// ErrMaxRetriesExceeded marks a transient failure that spent its retry budget
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")
)

// RetryableError marks failures worth requeueing: scheduler unreachable,
// job file IO, database hiccups. Generation errors never wear it.
type RetryableError struct {
	Err error
}

func (e *RetryableError) Error() string {
	return "retryable error: " + e.Err.Error()
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// NewRetryableError wraps err so the requeue decision can recognize it.
func NewRetryableError(err error) error {
	return &RetryableError{Err: err}
}
