// ABOUTME: Cache-aside feed fetcher shared by every social provider
// ABOUTME: Serves feeds from cache, refreshes through a FeedSource and reports failures

package socialfeed

import (
	"context"
	"encoding/json"
	"time"

	"social-feed-api/core/domain"
	"social-feed-api/core/interfaces"
)

// DefaultCacheTimeout is how long a fetched feed stays cached when Options
// does not say otherwise.
const DefaultCacheTimeout = time.Hour

// FeedSource is implemented by every provider integration.
type FeedSource interface {
	// Provider names the integration, e.g. "instagram".
	Provider() string

	// CacheKey returns the key the feed is stored under. It must be
	// deterministic for a given configuration and free of side effects.
	CacheKey() string

	// Fetch retrieves and normalizes the feed from the provider.
	Fetch(ctx context.Context) (domain.Feed, error)
}

// Options configures a Fetcher. It is copied at construction time.
type Options struct {
	// CacheTimeout is the TTL of a stored feed. Zero means DefaultCacheTimeout.
	CacheTimeout time.Duration

	// FailSilently turns refresh failures into an empty feed instead of an error.
	// The failure is still reported through the Notifier.
	FailSilently bool

	// CacheEmptyFeeds treats a cached empty feed as a hit. When false an empty
	// cached feed is refetched on every call.
	CacheEmptyFeeds bool
}

// Fetcher implements the cache-aside read path over a FeedSource.
type Fetcher struct {
	source   FeedSource
	cache    interfaces.Cache
	logger   interfaces.Logger
	notifier *Notifier
	opts     Options
}

// NewFetcher creates a fetcher for source backed by deps.Cache and
// deps.Logger. A nil notifier disables failure events.
func NewFetcher(source FeedSource, deps interfaces.Dependencies, notifier *Notifier, opts Options) *Fetcher {
	if opts.CacheTimeout <= 0 {
		opts.CacheTimeout = DefaultCacheTimeout
	}

	logger := deps.Logger
	if logger == nil {
		logger = interfaces.NopLogger{}
	}

	return &Fetcher{
		source:   source,
		cache:    deps.Cache,
		logger:   logger,
		notifier: notifier,
		opts:     opts,
	}
}

// Provider returns the provider of the wrapped source
func (f *Fetcher) Provider() string {
	return f.source.Provider()
}

// CacheKey returns the cache key of the wrapped source
func (f *Fetcher) CacheKey() string {
	return f.source.CacheKey()
}

// Options returns the fetcher configuration
func (f *Fetcher) Options() Options {
	return f.opts
}

// GetFeed returns the cached feed when present, otherwise refreshes it.
func (f *Fetcher) GetFeed(ctx context.Context) (domain.Feed, error) {
	if feed, ok := f.cachedFeed(ctx); ok {
		return feed, nil
	}

	return f.UpdateFeed(ctx)
}

// UpdateFeed fetches the feed from the provider and stores it in the cache.
//
// On failure a FailureEvent is published first. Then, with FailSilently an
// empty feed and a nil error are returned; otherwise the error from the
// source is returned as is. The cache is never touched on failure.
func (f *Fetcher) UpdateFeed(ctx context.Context) (domain.Feed, error) {
	feed, err := f.source.Fetch(ctx)
	if err != nil {
		f.notifier.Notify(NewFailureEvent(f.source, err))

		if f.opts.FailSilently {
			return domain.Feed{}, nil
		}
		return nil, err
	}

	if feed == nil {
		feed = domain.Feed{}
	}

	f.storeFeed(ctx, feed)

	return feed, nil
}

// cachedFeed reads the feed from the cache. Any backend problem counts as a miss.
func (f *Fetcher) cachedFeed(ctx context.Context) (domain.Feed, bool) {
	if f.cache == nil {
		return nil, false
	}

	key := f.source.CacheKey()
	data, err := f.cache.Get(ctx, key)
	if err != nil {
		if !interfaces.IsCacheMiss(err) {
			f.logger.Warn("Cache read failed, refetching feed", map[string]interface{}{
				"cache_key": key,
				"error":     err.Error(),
			})
		}
		return nil, false
	}

	var feed domain.Feed
	if err := json.Unmarshal(data, &feed); err != nil {
		f.logger.Warn("Discarding undecodable cached feed", map[string]interface{}{
			"cache_key": key,
			"error":     err.Error(),
		})
		return nil, false
	}

	if feed.IsEmpty() && !f.opts.CacheEmptyFeeds {
		return nil, false
	}

	return feed, true
}

// storeFeed writes the feed to the cache. A failed write is logged only;
// the caller still gets the fresh feed.
func (f *Fetcher) storeFeed(ctx context.Context, feed domain.Feed) {
	if f.cache == nil {
		return
	}

	key := f.source.CacheKey()
	data, err := json.Marshal(feed)
	if err != nil {
		f.logger.Error("Failed to encode feed for cache", map[string]interface{}{
			"cache_key": key,
			"error":     err.Error(),
		})
		return
	}

	if err := f.cache.Set(ctx, key, data, f.opts.CacheTimeout); err != nil {
		f.logger.Error("Failed to write feed to cache", map[string]interface{}{
			"cache_key": key,
			"error":     err.Error(),
		})
		return
	}

	f.logger.Debug("Feed cached", map[string]interface{}{
		"cache_key": key,
		"posts":     feed.Len(),
		"ttl":       f.opts.CacheTimeout.String(),
	})
}
