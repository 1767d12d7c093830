package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/dreschagin/support-dashboard/internal/application/port"
)

const DefaultTTL = 30 * time.Second

type entry struct {
	value     []byte
	expiresAt time.Time
}

// Cache is an in-process TTL cache. Values are stored JSON-encoded so callers never
// share mutable state with the cache. Expired entries are not evicted; the key space
// is a small set of query shapes.
type Cache struct {
	mu         sync.RWMutex
	entries    map[string]entry
	now        func() time.Time
	defaultTTL time.Duration
}

var _ port.Cache = (*Cache)(nil)

type Option func(*Cache)

// WithClock injects the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

// WithDefaultTTL overrides the TTL used when Set receives ttl <= 0.
func WithDefaultTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.defaultTTL = ttl
		}
	}
}

func New(opts ...Option) *Cache {
	c := &Cache{
		entries:    make(map[string]entry),
		now:        time.Now,
		defaultTTL: DefaultTTL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cache) Get(_ context.Context, key string, dest interface{}) error {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || !e.expiresAt.After(c.now()) {
		return port.ErrCacheMiss
	}

	if err := json.Unmarshal(e.value, dest); err != nil {
		return fmt.Errorf("failed to unmarshal cached value: %w", err)
	}
	return nil
}

func (c *Cache) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	c.mu.Lock()
	c.entries[key] = entry{value: data, expiresAt: c.now().Add(ttl)}
	c.mu.Unlock()
	return nil
}

func (c *Cache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}

// Len reports the number of stored entries, expired ones included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache) Close() error {
	return nil
}
