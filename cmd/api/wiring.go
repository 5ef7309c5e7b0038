package main

import (
	"fmt"
	"time"

	"social-feed-api/core/instagram"
	"social-feed-api/core/interfaces"
	"social-feed-api/core/registry"
	"social-feed-api/core/socialfeed"
	"social-feed-api/infrastructure/cache/gocache"
	"social-feed-api/infrastructure/cache/memory"
	"social-feed-api/infrastructure/cache/redis"
	"social-feed-api/infrastructure/cache/sqlite"
	"social-feed-api/pkg/config"
)

// buildCache selects the cache backend. Redis and SQLite fall back to the
// in-memory cache when they cannot be opened. The returned func releases
// the backend.
func buildCache(cfg config.CacheConfig, logger interfaces.Logger) (interfaces.Cache, func()) {
	noop := func() {}

	switch cfg.Type {
	case "redis":
		redisCache, err := redis.NewRedisCache(cfg.Redis)
		if err != nil {
			logger.Error("Failed to create Redis cache, falling back to memory", map[string]interface{}{
				"error": err.Error(),
			})
			return memory.NewMemoryCache(), noop
		}
		logger.Info("Using Redis cache", map[string]interface{}{
			"address": cfg.Redis.Address,
		})
		return redisCache, func() { _ = redisCache.Close() }

	case "sqlite":
		sqliteCache, err := sqlite.NewSQLiteCache(cfg.SQLite.Path)
		if err != nil {
			logger.Error("Failed to open SQLite cache, falling back to memory", map[string]interface{}{
				"error": err.Error(),
			})
			return memory.NewMemoryCache(), noop
		}
		logger.Info("Using SQLite cache", map[string]interface{}{
			"path": cfg.SQLite.Path,
		})
		return sqliteCache, func() { _ = sqliteCache.Close() }

	case "gocache":
		logger.Info("Using go-cache", map[string]interface{}{
			"cleanup_interval": cfg.Memory.CleanupInterval,
		})
		return gocache.NewGoCache(time.Duration(cfg.Memory.CleanupInterval) * time.Second), noop

	default:
		logger.Info("Using memory cache", nil)
		return memory.NewMemoryCache(), noop
	}
}

// buildRegistry creates one fetcher per configured account
func buildRegistry(cfg *config.Config, cache interfaces.Cache, client interfaces.HTTPClient, logger interfaces.Logger, notifier *socialfeed.Notifier) (*registry.Registry, error) {
	deps := interfaces.Dependencies{
		Cache:      cache,
		HTTPClient: client,
		Logger:     logger,
	}

	feeds := registry.New()
	for _, account := range cfg.Accounts {
		source, err := newSource(account, client, cfg.Feed.PostsToFetch)
		if err != nil {
			return nil, err
		}

		fetcher := socialfeed.NewFetcher(source, deps, notifier, socialfeed.Options{
			CacheTimeout:    time.Duration(cfg.Feed.CacheTimeout) * time.Second,
			FailSilently:    account.ResolveFailSilently(cfg.Feed.FailSilently),
			CacheEmptyFeeds: cfg.Feed.CacheEmptyFeeds,
		})
		if err := feeds.Register(account.Username, fetcher); err != nil {
			return nil, err
		}

		logger.Info("Registered account", map[string]interface{}{
			"provider":  account.Provider,
			"account":   account.Username,
			"cache_key": fetcher.CacheKey(),
		})
	}

	return feeds, nil
}

func newSource(account config.AccountConfig, client interfaces.HTTPClient, defaultPosts int) (socialfeed.FeedSource, error) {
	posts := account.PostsToFetch
	if posts <= 0 {
		posts = defaultPosts
	}

	switch account.Provider {
	case instagram.ProviderName:
		return instagram.NewSource(client, instagram.Config{
			AccessToken:  account.AccessToken,
			Username:     account.Username,
			PostsToFetch: posts,
		}), nil
	default:
		return nil, fmt.Errorf("unsupported provider %q", account.Provider)
	}
}
