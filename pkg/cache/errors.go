package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNetwork marks backend connection failures: timeouts, refused or
// dropped connections. Redis errors that are not a cache miss wrap it.
var ErrNetwork = errors.New("cache backend unreachable")

// RetryableError marks an error as transient.
type RetryableError struct{ Err error }

// Retryable wraps err so RetryWithBackoff tries again. It returns nil for a
// nil err.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err or anything it wraps is a RetryableError.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// maxAttempts bounds RetryWithBackoff.
const maxAttempts = 3

// retryDelay is the first backoff delay of RetryWithBackoff. It doubles
// after every attempt.
var retryDelay = 200 * time.Millisecond

// RetryWithBackoff calls fn until it succeeds, returns an error that is not
// Retryable, or has run maxAttempts times. Waiting between attempts stops
// early when ctx is done.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	delay := retryDelay
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil || !IsRetryable(err) || attempt == maxAttempts {
			return err
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}
}
