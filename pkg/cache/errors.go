package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/matzehuels/gcad/pkg/httputil"
)

// ErrNetwork marks failures to reach a cache backend (timeouts, refused
// connections, failed server selection).
var ErrNetwork = errors.New("cache backend unreachable")

// backendBackoff is the retry policy for network backends. Cache calls sit
// on the solve path, so waits stay short.
var backendBackoff = httputil.Backoff{Attempts: 3, Initial: 100 * time.Millisecond, Max: time.Second}

// Retryable wraps err so [RetryWithBackoff] retries it.
func Retryable(err error) error { return httputil.Retryable(err) }

// IsRetryable reports whether err was wrapped with [Retryable].
func IsRetryable(err error) bool { return httputil.IsRetryable(err) }

// RetryWithBackoff retries fn on errors wrapped with [Retryable].
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return httputil.Retry(ctx, backendBackoff, fn)
}

// unreachable wraps a backend error as a retryable ErrNetwork.
func unreachable(backend string, err error) error {
	return Retryable(fmt.Errorf("%s: %w: %v", backend, ErrNetwork, err))
}
