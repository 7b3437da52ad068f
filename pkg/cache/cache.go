// Package cache provides a thread-safe in-memory cache with TTL support.
package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value      V
	expiration time.Time
}

// Cache holds values for a fixed TTL. Expired entries are dropped on access.
type Cache[V any] struct {
	now     func() time.Time
	entries map[string]entry[V]
	mu      sync.RWMutex
	ttl     time.Duration
}

// New creates a new cache with the specified TTL.
func New[V any](ttl time.Duration) *Cache[V] {
	return &Cache[V]{
		entries: make(map[string]entry[V]),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get retrieves a value from cache if not expired.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	e, exists := c.entries[key]
	c.mu.RUnlock()

	var zero V
	if !exists {
		return zero, false
	}
	if c.now().After(e.expiration) {
		c.mu.Lock()
		// Another writer may have refreshed the key meanwhile.
		if e, exists := c.entries[key]; exists && c.now().After(e.expiration) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return zero, false
	}
	return e.value, true
}

// Set stores a value in cache with TTL.
func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry[V]{value: value, expiration: c.now().Add(c.ttl)}
}

// Len returns the number of stored entries, including expired ones not yet dropped.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
