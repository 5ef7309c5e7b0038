// Package interfaces defines the collaborator contracts the feed core depends on.
// Concrete implementations live under infrastructure/ and are injected at startup.
package interfaces

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by Cache.Get when the key is absent or expired.
// Backends must return it (or wrap it) so callers can tell a miss from a
// backend failure.
var ErrCacheMiss = errors.New("cache: key not found")

// Cache defines the key-value store used to keep fetched feeds.
// Implementations can be Redis, SQLite, in-memory, or any other store.
//
// Example usage:
//
//	// Store a value
//	err := cache.Set(ctx, "social-feed-fetcher:instagram:acme", data, time.Hour)
//
//	// Retrieve a value
//	data, err := cache.Get(ctx, "social-feed-fetcher:instagram:acme")
//	if errors.Is(err, interfaces.ErrCacheMiss) {
//		// refetch
//	}
type Cache interface {
	// Get retrieves a value from the cache by key.
	// Returns ErrCacheMiss if the key doesn't exist or has expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in the cache with the given key and TTL.
	// If ttl is 0, the value should be stored indefinitely.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value from the cache by key.
	// Returns nil if the key doesn't exist.
	Delete(ctx context.Context, key string) error
}

// IsCacheMiss reports whether err marks an absent cache entry
func IsCacheMiss(err error) bool {
	return errors.Is(err, ErrCacheMiss)
}
