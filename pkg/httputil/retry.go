package httputil

import (
	"context"
	"errors"
	"time"
)

// RetryableError marks err as transient. [Retry] only retries errors that
// wrap one; any other error is returned at once.
type RetryableError struct {
	Err error

	// After, when positive, is the minimum wait before the next attempt
	// (from a Retry-After header).
	After time.Duration
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable wraps err as a [RetryableError]. Retryable(nil) is nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// IsRetryable reports whether err wraps a [RetryableError].
func IsRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}

// Backoff is an exponential retry policy.
type Backoff struct {
	Attempts int           // total calls, at least 1
	Initial  time.Duration // wait after the first failure
	Max      time.Duration // cap on any single wait; zero means no cap
}

// DefaultBackoff is used by [RetryWithBackoff]: three attempts, waiting one
// second and then two.
var DefaultBackoff = Backoff{Attempts: 3, Initial: time.Second, Max: 10 * time.Second}

// wait returns the delay after failed attempt n (0-based).
func (b Backoff) wait(n int, err error) time.Duration {
	d := b.Initial << n
	if b.Max > 0 && (d > b.Max || d <= 0) {
		d = b.Max
	}
	var re *RetryableError
	if errors.As(err, &re) && re.After > d {
		d = re.After
		if b.Max > 0 && d > b.Max {
			d = b.Max
		}
	}
	return d
}

// Retry calls fn until it succeeds, returns a non-retryable error, or the
// policy runs out of attempts. It returns the last error, or ctx.Err() if
// ctx ends while waiting.
func Retry(ctx context.Context, b Backoff, fn func() error) error {
	attempts := max(b.Attempts, 1)
	var err error
	for i := range attempts {
		if err = fn(); err == nil || !IsRetryable(err) {
			return err
		}
		if i == attempts-1 {
			break
		}
		timer := time.NewTimer(b.wait(i, err))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return err
}

// RetryWithBackoff runs [Retry] with [DefaultBackoff].
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return Retry(ctx, DefaultBackoff, fn)
}
