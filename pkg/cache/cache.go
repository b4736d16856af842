// Package cache stores solver results between runs.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for servers
//   - [MongoCache]: a MongoDB collection with a TTL index
//   - [NullCache]: stores nothing, for disabled caching and tests
//
// All backends treat an expired entry as a miss. Network backends wrap
// transient failures with [Retryable] so [RetryWithBackoff] can retry them.
//
// # Keys
//
// A [Keyer] derives keys from the canonical hash of a figure and the options
// that affect the result. [NewScopedKeyer] prefixes every key, which lets
// several tenants share one backend.
package cache

import (
	"context"
	"time"
)

// DefaultTTL is how long solutions stay cached when no TTL is configured.
const DefaultTTL = 7 * 24 * time.Hour

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the entry for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A non-positive ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) error
}
