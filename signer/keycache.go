package signer

import (
	"fmt"
	"sync"
)

// DefaultKeyCacheCapacity is the capacity of the cache a Signer creates
// when none is injected.
const DefaultKeyCacheCapacity = 300

// CacheKey identifies a derived signing key by the inputs of its
// derivation chain. It is comparable, so it hashes and compares as a
// value in the cache map.
type CacheKey struct {
	SecretAccessKey string
	Region          string
	Service         string
}

// SigningKeyCache is a fixed-capacity, insertion-ordered cache of derived
// signing keys with strict FIFO eviction: on overflow the single
// oldest-inserted entry is dropped, regardless of access recency.
//
// Reads proceed concurrently under a shared lock and never mutate the
// cache; writes are exclusive. The cache itself is day-agnostic: callers
// revalidate a hit with SigningKey.ValidAt before reuse, so a stale entry
// only ever causes re-derivation, never a wrong signature.
type SigningKeyCache struct {
	mu       sync.RWMutex
	capacity int
	entries  map[CacheKey]SigningKey
	order    []CacheKey
}

// NewSigningKeyCache creates a cache holding at most capacity entries.
// Capacity must be at least 1 and is immutable afterwards.
func NewSigningKeyCache(capacity int) (*SigningKeyCache, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("signing key cache capacity must be at least 1, got %d", capacity)
	}
	return &SigningKeyCache{
		capacity: capacity,
		entries:  make(map[CacheKey]SigningKey, capacity),
		order:    make([]CacheKey, 0, capacity),
	}, nil
}

// Get returns the cached key for key, if any. It takes only the read
// lock, so concurrent readers do not block each other.
func (c *SigningKeyCache) Get(key CacheKey) (SigningKey, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	v, ok := c.entries[key]
	return v, ok
}

// Put inserts or overwrites the entry for key. Overwriting resets the
// entry's insertion order. If the insert pushes the cache over capacity,
// the oldest-inserted entry is evicted.
func (c *SigningKeyCache) Put(key CacheKey, value SigningKey) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; ok {
		for i := range c.order {
			if c.order[i] == key {
				c.order = append(c.order[:i], c.order[i+1:]...)
				break
			}
		}
	}
	c.entries[key] = value
	c.order = append(c.order, key)

	if len(c.entries) > c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
}

// Len returns the number of cached entries.
func (c *SigningKeyCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Capacity returns the immutable capacity the cache was created with.
func (c *SigningKeyCache) Capacity() int {
	return c.capacity
}
