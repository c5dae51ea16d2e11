// Package cache holds read-mostly lists (profiles, categories) in a bounded
// LRU so the admin screens and the submission form avoid a query per request.
package cache

import (
	"sync"

	lru "github.com/hashicorp/golang-lru"
)

const (
	KeyProfiles         = "profiles:all"
	KeyCategories       = "categories:all"
	KeyActiveCategories = "categories:active"
)

const DefaultSize = 128

type Cache struct {
	entries *lru.Cache

	// epoch counts purges and generations counts invalidations per key. A fetch
	// that overlaps either must not store its result.
	mu          sync.Mutex
	epoch       uint64
	generations map[string]uint64
}

func New(size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultSize
	}
	entries, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &Cache{entries: entries, generations: make(map[string]uint64)}, nil
}

// Get and the other methods treat a nil *Cache as always empty.
func (c *Cache) Get(key string) (interface{}, bool) {
	if c == nil {
		return nil, false
	}
	return c.entries.Get(key)
}

// Invalidate drops every listed key.
func (c *Cache) Invalidate(keys ...string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		c.generations[key]++
		c.entries.Remove(key)
	}
}

func (c *Cache) Purge() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.epoch++
	c.entries.Purge()
}

func (c *Cache) generation(key string) uint64 {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.epoch + c.generations[key]
}

// setIfCurrent stores value only when key has not been invalidated since gen
// was read.
func (c *Cache) setIfCurrent(key string, value interface{}, gen uint64) bool {
	if c == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch+c.generations[key] != gen {
		return false
	}
	c.entries.Add(key, value)
	return true
}

// Load returns the cached value for key, calling fetch on a miss. The fetched
// value is stored only if key was not invalidated while fetch ran.
func Load[T any](c *Cache, key string, fetch func() (T, error)) (T, error) {
	if v, ok := c.Get(key); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}
	gen := c.generation(key)
	v, err := fetch()
	if err != nil {
		return v, err
	}
	c.setIfCurrent(key, v, gen)
	return v, nil
}
