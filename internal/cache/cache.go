// Package cache is the in-memory TTL store for rendered metric payloads.
// The cache is the only component whose state outlives a single request:
// one instance is created at process start and injected into the metrics
// layer. Entries are replaced wholesale on refresh and never evicted;
// staleness is judged lazily on read.
package cache

import (
	"sync"
	"time"
)

type entry struct {
	value      any
	capturedAt time.Time
}

type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

func New() *Cache {
	return &Cache{
		entries: map[string]entry{},
		now:     time.Now,
	}
}

// Put stores the value under key with the current capture time, overwriting
// any previous entry. At most one value per key.
func (c *Cache) Put(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{value: value, capturedAt: c.now()}
}

// Get returns the stored value regardless of freshness.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	stored, exists := c.entries[key]
	if !exists {
		return nil, false
	}
	return stored.value, true
}

// Fresh reports whether the entry exists and is younger than ttl. A missing
// key is always stale.
func (c *Cache) Fresh(key string, ttl time.Duration) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.freshLocked(key, ttl)
}

// GetFresh combines the freshness check and the read under one lock, so a
// concurrent refresh cannot slip between them.
func (c *Cache) GetFresh(key string, ttl time.Duration) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.freshLocked(key, ttl) {
		return nil, false
	}
	return c.entries[key].value, true
}

func (c *Cache) freshLocked(key string, ttl time.Duration) bool {
	stored, exists := c.entries[key]
	if !exists {
		return false
	}
	return c.now().Sub(stored.capturedAt) < ttl
}
