package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

// memoryCache is an in-process Cache for single-instance deployments and
// tests. Expired entries are dropped lazily on read and by eviction when the
// entry cap is hit.
type memoryCache struct {
	mu         sync.Mutex
	entries    map[string]memoryEntry
	maxEntries int
	now        func() time.Time
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// NewMemory returns an in-process cache holding at most maxEntries values.
func NewMemory(maxEntries int) Cache {
	if maxEntries <= 0 {
		maxEntries = 1024
	}
	return &memoryCache{
		entries:    make(map[string]memoryEntry),
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	if c.now().After(entry.expiresAt) {
		delete(c.entries, key)
		return nil, false, nil
	}
	return entry.value, true, nil
}

func (c *memoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= c.maxEntries {
		c.evictLocked()
	}
	c.entries[key] = memoryEntry{value: value, expiresAt: c.now().Add(ttl)}
	return nil
}

// evictLocked drops expired entries, and if nothing expired, drops a quarter
// of the map in iteration order. Crude, but this cache fronts queries that
// are cheap to recompute.
func (c *memoryCache) evictLocked() {
	now := c.now()
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
		}
	}
	if len(c.entries) < c.maxEntries {
		return
	}
	toDrop := c.maxEntries / 4
	for key := range c.entries {
		if toDrop <= 0 {
			break
		}
		delete(c.entries, key)
		toDrop--
	}
}

func (c *memoryCache) ClearPrefix(_ context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
	return nil
}

func (c *memoryCache) Close() error { return nil }
