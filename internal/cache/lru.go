package cache

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultSize is the number of entries kept when no size is given.
const DefaultSize = 128

// LRU is a fixed-size, concurrency-safe least-recently-used cache that counts hits and misses.
type LRU[K comparable, V any] struct {
	entries *lru.Cache[K, V]
	hits    atomic.Int64
	misses  atomic.Int64
}

// NewLRU creates a cache holding at most size entries. A non-positive size uses DefaultSize.
func NewLRU[K comparable, V any](size int) (*LRU[K, V], error) {
	if size <= 0 {
		size = DefaultSize
	}
	entries, err := lru.New[K, V](size)
	if err != nil {
		return nil, err
	}
	return &LRU[K, V]{entries: entries}, nil
}

// Get returns the cached value for key.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	v, ok := c.entries.Get(key)
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return v, ok
}

// Set stores value under key, evicting the least recently used entry when full.
func (c *LRU[K, V]) Set(key K, value V) {
	c.entries.Add(key, value)
}

// GetOrLoad returns the cached value for key, calling load on a miss.
// Failed loads are not cached.
func (c *LRU[K, V]) GetOrLoad(key K, load func() (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	v, err := load()
	if err != nil {
		var zero V
		return zero, err
	}
	c.entries.Add(key, v)
	return v, nil
}

// Delete removes key from the cache.
func (c *LRU[K, V]) Delete(key K) {
	c.entries.Remove(key)
}

// Clear removes all cached entries.
func (c *LRU[K, V]) Clear() {
	c.entries.Purge()
}

// Len returns the number of cached entries.
func (c *LRU[K, V]) Len() int {
	return c.entries.Len()
}

// Stats returns cache statistics.
func (c *LRU[K, V]) Stats() Stats {
	return Stats{
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
		Entries: c.entries.Len(),
	}
}
