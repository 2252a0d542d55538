package types

import "fmt"

// RetryableError marks an error as transient: rate limits, timeouts,
// temporary upstream unavailability. Callers may retry at their discretion;
// the pipeline itself never does.
type RetryableError struct {
	Err error
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable error: %v", e.Err)
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// NewRetryableError wraps an existing error as a RetryableError.
func NewRetryableError(err error) error {
	return &RetryableError{Err: err}
}
