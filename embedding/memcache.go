// Copyright 2026 Gold.Arch Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package embedding

import (
	"sync"
	"time"
)

const (
	// DefaultCacheTTL is how long an entry stays valid.
	DefaultCacheTTL = time.Hour

	// DefaultCacheMaxEntries caps the in-memory cache size.
	DefaultCacheMaxEntries = 1000
)

type memEntry struct {
	vector    []float32
	createdAt time.Time
}

// MemoryCache is an in-process Cache with TTL expiry and insertion-order
// eviction. Expiry is checked lazily on access; Cleanup sweeps eagerly.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memEntry
	order   []string // insertion order, oldest first
	ttl     time.Duration
	max     int
	hits    uint64
	misses  uint64

	// now is swappable for expiry tests.
	now func() time.Time
}

// MemoryCacheOption configures a MemoryCache.
type MemoryCacheOption func(*MemoryCache)

// WithTTL sets the entry lifetime. Zero or negative disables expiry.
func WithTTL(ttl time.Duration) MemoryCacheOption {
	return func(c *MemoryCache) {
		c.ttl = ttl
	}
}

// WithMaxEntries sets the capacity. When full, the oldest-inserted entry is
// evicted first.
func WithMaxEntries(n int) MemoryCacheOption {
	return func(c *MemoryCache) {
		c.max = n
	}
}

// NewMemoryCache creates an in-memory cache with a 1 hour TTL and room for
// 1000 entries unless configured otherwise.
func NewMemoryCache(opts ...MemoryCacheOption) *MemoryCache {
	c := &MemoryCache{
		entries: make(map[string]memEntry),
		ttl:     DefaultCacheTTL,
		max:     DefaultCacheMaxEntries,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached vector for key. An expired entry is removed and
// reads as a miss.
func (c *MemoryCache) Get(key string) ([]float32, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		c.misses++
		return nil, false
	}
	if c.expired(entry) {
		c.remove(key)
		c.misses++
		return nil, false
	}

	c.hits++
	return entry.vector, true
}

// Set stores a vector under key. At capacity the oldest-inserted entry is
// evicted. Overwriting an existing key keeps its original insertion slot.
func (c *MemoryCache) Set(key string, vector []float32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists {
		for c.max > 0 && len(c.entries) >= c.max && len(c.order) > 0 {
			c.remove(c.order[0])
		}
		c.order = append(c.order, key)
	}
	c.entries[key] = memEntry{vector: vector, createdAt: c.now()}
}

// Has reports whether key is cached and not expired. Does not count toward
// hit/miss statistics.
func (c *MemoryCache) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	return ok && !c.expired(entry)
}

// Cleanup removes all expired entries and returns how many were removed.
func (c *MemoryCache) Cleanup() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, entry := range c.entries {
		if c.expired(entry) {
			c.remove(key)
			removed++
		}
	}
	return removed
}

// Clear removes all entries and resets statistics.
func (c *MemoryCache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]memEntry)
	c.order = nil
	c.hits = 0
	c.misses = 0
	return nil
}

// Stats returns a snapshot of cache statistics.
func (c *MemoryCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := CacheStats{
		Size:   len(c.entries),
		Hits:   c.hits,
		Misses: c.misses,
	}
	if total := c.hits + c.misses; total > 0 {
		stats.HitRate = float64(c.hits) / float64(total)
	}
	return stats
}

func (c *MemoryCache) expired(entry memEntry) bool {
	return c.ttl > 0 && c.now().Sub(entry.createdAt) > c.ttl
}

// remove deletes key from the entry map and the insertion-order queue.
// Callers must hold the mutex.
func (c *MemoryCache) remove(key string) {
	delete(c.entries, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

var _ Cache = (*MemoryCache)(nil)
