// Package cache provides a bounded in-memory store of reconciliation
// results keyed by entity fingerprint. Eviction is strictly insertion
// order: once the cache is full, the oldest entry goes, regardless of
// how recently it was read.
package cache

import (
	"sync"

	"github.com/nomina-io/nomina/pkg/entities"
)

// DefaultCapacity bounds the cache when no capacity is given.
const DefaultCapacity = 1000

// Stats reports cache effectiveness counters.
type Stats struct {
	Hits      int `json:"hits"`
	Misses    int `json:"misses"`
	Evictions int `json:"evictions"`
	Size      int `json:"size"`
	Capacity  int `json:"capacity"`
}

// Cache is a fixed-capacity FIFO store. Safe for concurrent use.
type Cache struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]entities.ReconciliationResult
	order    []string
	hits     int
	misses   int
	evicted  int
}

// New creates a cache with the given capacity. Non-positive capacities
// fall back to DefaultCapacity.
func New(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache{
		capacity: capacity,
		entries:  make(map[string]entities.ReconciliationResult, capacity),
		order:    make([]string, 0, capacity),
	}
}

// Get returns the cached result for a fingerprint. Reads do not affect
// eviction order.
func (c *Cache) Get(fingerprint string) (entities.ReconciliationResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	r, found := c.entries[fingerprint]
	if found {
		c.hits++
	} else {
		c.misses++
	}
	return r, found
}

// Put stores a result under a fingerprint, evicting the oldest entry
// if the cache is at capacity. Storing an existing fingerprint
// overwrites the value but keeps its original position in the order.
func (c *Cache) Put(fingerprint string, result entities.ReconciliationResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[fingerprint]; exists {
		c.entries[fingerprint] = result
		return
	}

	if len(c.order) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
		c.evicted++
	}

	c.entries[fingerprint] = result
	c.order = append(c.order, fingerprint)
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns a snapshot of cache counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evicted,
		Size:      len(c.entries),
		Capacity:  c.capacity,
	}
}
