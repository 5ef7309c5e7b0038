// ABOUTME: In-memory cache implementation using sync.Map for thread-safe operations
// ABOUTME: Default backend for single-instance deployments and the CLI

package memory

import (
	"context"
	"sync"
	"time"

	"social-feed-api/core/interfaces"
)

// item represents a cached value with its expiration
type item struct {
	value      []byte
	expiration time.Time
	noExpire   bool
}

func (i *item) expired(now time.Time) bool {
	return !i.noExpire && now.After(i.expiration)
}

// MemoryCache implements the Cache interface using in-memory storage
type MemoryCache struct {
	items sync.Map
}

// NewMemoryCache creates a new in-memory cache instance
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{}
}

// Get retrieves a value from the cache
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	value, ok := c.items.Load(key)
	if !ok {
		return nil, interfaces.ErrCacheMiss
	}

	entry := value.(*item)
	if entry.expired(time.Now()) {
		c.items.Delete(key)
		go c.cleanup()
		return nil, interfaces.ErrCacheMiss
	}

	result := make([]byte, len(entry.value))
	copy(result, entry.value)
	return result, nil
}

// Set stores a value in the cache with the given TTL. A zero TTL never expires.
func (c *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	valueCopy := make([]byte, len(value))
	copy(valueCopy, value)

	entry := &item{
		value:    valueCopy,
		noExpire: ttl == 0,
	}
	if ttl > 0 {
		entry.expiration = time.Now().Add(ttl)
	}

	c.items.Store(key, entry)
	return nil
}

// Delete removes a key from the cache
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.items.Delete(key)
	return nil
}

// cleanup removes expired items from the cache
func (c *MemoryCache) cleanup() {
	now := time.Now()
	c.items.Range(func(key, value interface{}) bool {
		if value.(*item).expired(now) {
			c.items.Delete(key)
		}
		return true
	})
}

var _ interfaces.Cache = (*MemoryCache)(nil)
