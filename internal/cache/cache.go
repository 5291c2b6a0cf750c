package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented read-through cache for API responses. Values are
// pre-serialized JSON; the cache never interprets them.
type Cache interface {
	// Get returns the cached value and whether it was present. A miss is not
	// an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with a TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// ClearPrefix drops every key with the given prefix. Used to invalidate
	// whole surfaces (e.g. all leaderboards) after a pipeline run.
	ClearPrefix(ctx context.Context, prefix string) error

	// Close releases any underlying resources.
	Close() error
}
