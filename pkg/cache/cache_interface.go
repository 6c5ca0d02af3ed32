package cache

import (
	"context"
	"time"
)

// Cache is the contract for the cache layer. Keeping it as an interface
// allows swapping the Redis implementation for an in-memory one in tests.
type Cache interface {
	// Get reads a key and unmarshals it into dest.
	// Returns: (found bool, error)
	// - found = true: cache hit, data unmarshaled into dest
	// - found = false: cache miss, dest untouched
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores a value under key with a TTL. A zero TTL means no expiry.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Ping verifies connectivity.
	Ping(ctx context.Context) error
}
