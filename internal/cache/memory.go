package cache

import (
	"sync"
	"time"
)

type entry struct {
	value  []byte
	expiry time.Time
}

// MemoryStore is a map-backed Cache. Expired entries are removed lazily on
// read; there is no size bound.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]entry
	ttl   time.Duration
	clock Clock
}

// NewMemoryStore creates an empty store with the given default TTL.
func NewMemoryStore(ttl time.Duration, opts ...Option) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	o := buildOptions(opts)
	return &MemoryStore{
		items: make(map[string]entry),
		ttl:   ttl,
		clock: o.clock,
	}
}

// Get returns the value for key if present and not expired.
func (c *MemoryStore) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	e, ok := c.items[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}

	now := c.clock.Now()
	if !now.Before(e.expiry) {
		c.mu.Lock()
		// Re-check: a concurrent Set may have refreshed the entry.
		if e2, ok2 := c.items[key]; ok2 && !now.Before(e2.expiry) {
			delete(c.items, key)
		}
		c.mu.Unlock()
		return nil, false
	}

	return e.value, true
}

// Set stores value under key, replacing any existing entry.
func (c *MemoryStore) Set(key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.ttl
	}
	c.mu.Lock()
	c.items[key] = entry{value: value, expiry: c.clock.Now().Add(ttl)}
	c.mu.Unlock()
	return nil
}

// Len reports the number of stored entries, expired ones included until read.
func (c *MemoryStore) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Close is a no-op.
func (c *MemoryStore) Close() error { return nil }
