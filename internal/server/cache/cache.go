// Package cache provides the in-memory response cache for the HTTP server.
// It uses patrickmn/go-cache for TTL-based expiry and stores authority
// retrievals keyed by normalized term and partition.
package cache

import (
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/agentstation/locrecon/pkg/authority"
	"github.com/agentstation/locrecon/pkg/reconcile"
)

// Cache stores authority retrievals. It satisfies reconcile.RetrievalCache.
type Cache struct {
	store  *gocache.Cache
	hits   atomic.Uint64
	misses atomic.Uint64

	onLookup func(hit bool)
}

var _ reconcile.RetrievalCache = (*Cache)(nil)

// New creates a new cache with the given TTL and cleanup interval.
// defaultTTL is the default expiration time for cache entries.
// cleanupInterval is how often expired items are removed from memory.
func New(defaultTTL, cleanupInterval time.Duration) *Cache {
	return &Cache{
		store: gocache.New(defaultTTL, cleanupInterval),
	}
}

// OnLookup registers fn to be called after every Get with its outcome.
// It must be set before the cache is shared.
func (c *Cache) OnLookup(fn func(hit bool)) {
	c.onLookup = fn
}

// Get returns the cached retrieval for key.
func (c *Cache) Get(key reconcile.CacheKey) (authority.Retrieval, bool) {
	v, found := c.store.Get(key.String())
	retrieval, ok := v.(authority.Retrieval)
	hit := found && ok
	if hit {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	if c.onLookup != nil {
		c.onLookup(hit)
	}
	return retrieval, hit
}

// Set stores a retrieval under key with the default TTL.
func (c *Cache) Set(key reconcile.CacheKey, retrieval authority.Retrieval) {
	c.store.Set(key.String(), retrieval, gocache.DefaultExpiration)
}

// SetWithTTL stores a retrieval under key with a custom TTL.
func (c *Cache) SetWithTTL(key reconcile.CacheKey, retrieval authority.Retrieval, ttl time.Duration) {
	c.store.Set(key.String(), retrieval, ttl)
}

// Delete removes a value from the cache.
func (c *Cache) Delete(key reconcile.CacheKey) {
	c.store.Delete(key.String())
}

// Clear removes all items from the cache.
func (c *Cache) Clear() {
	c.store.Flush()
}

// ItemCount returns the number of items in the cache.
func (c *Cache) ItemCount() int {
	return c.store.ItemCount()
}

// Stats returns cache statistics.
type Stats struct {
	ItemCount int    `json:"item_count"`
	Hits      uint64 `json:"hits"`
	Misses    uint64 `json:"misses"`
}

// GetStats returns current cache statistics.
func (c *Cache) GetStats() Stats {
	return Stats{
		ItemCount: c.store.ItemCount(),
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
	}
}
