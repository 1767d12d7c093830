package port

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by Cache.Get when the key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

// Cache defines the interface for caching operations
type Cache interface {
	// Get decodes the cached value into dest or returns ErrCacheMiss
	Get(ctx context.Context, key string, dest interface{}) error

	// Set stores a value with an absolute expiry of now+ttl; ttl <= 0 uses the cache default
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes a value from cache
	Delete(ctx context.Context, key string) error

	// Close releases the underlying resources
	Close() error
}
