// ABOUTME: In-process cache backed by patrickmn/go-cache
// ABOUTME: Expiring map with a janitor goroutine that purges stale feeds

package gocache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"social-feed-api/core/interfaces"
)

// GoCache implements the Cache interface on top of go-cache.
type GoCache struct {
	cache *gocache.Cache
}

// NewGoCache creates a cache whose janitor purges expired entries every
// cleanupInterval. Entries never inherit a default expiration; every Set
// passes its own TTL.
func NewGoCache(cleanupInterval time.Duration) *GoCache {
	return &GoCache{
		cache: gocache.New(gocache.NoExpiration, cleanupInterval),
	}
}

// Get retrieves a value from the cache
func (c *GoCache) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	value, found := c.cache.Get(key)
	if !found {
		return nil, interfaces.ErrCacheMiss
	}

	data, ok := value.([]byte)
	if !ok {
		return nil, interfaces.ErrCacheMiss
	}

	result := make([]byte, len(data))
	copy(result, data)
	return result, nil
}

// Set stores a copy of value. A zero TTL never expires.
func (c *GoCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}

	data := make([]byte, len(value))
	copy(data, value)
	c.cache.Set(key, data, ttl)
	return nil
}

// Delete removes a key from the cache
func (c *GoCache) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.cache.Delete(key)
	return nil
}

// Count returns the number of stored items, expired ones included until purged
func (c *GoCache) Count() int {
	return c.cache.ItemCount()
}

// Stats returns cache statistics
func (c *GoCache) Stats() (map[string]interface{}, error) {
	return map[string]interface{}{
		"total_entries": c.Count(),
	}, nil
}

var _ interfaces.Cache = (*GoCache)(nil)
