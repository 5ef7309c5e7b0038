// Package infrastructure provides concrete implementations of the interfaces
// defined in core/interfaces: cache backends, the provider HTTP client and the
// logger.
//
// The infrastructure package is organized by technical concern:
//
// - cache/memory: In-memory cache using sync.Map
// - cache/gocache: In-memory cache using patrickmn/go-cache with a janitor
// - cache/redis: Redis cache shared between instances
// - cache/sqlite: File-backed cache that survives restarts
// - http/standard: net/http client with retry logic
// - logger/structured: logrus-backed structured logger
//
// Every cache backend returns interfaces.ErrCacheMiss for absent or expired
// keys, so the feed fetcher can tell a miss from a broken backend.
//
// # Cache Implementations
//
//	cache := memory.NewMemoryCache()
//	err := cache.Set(ctx, "social-feed-fetcher:instagram:acme", data, time.Hour)
//	value, err := cache.Get(ctx, "social-feed-fetcher:instagram:acme")
//
//	cache, err := redis.NewRedisCache(config.RedisConfig{Address: "localhost:6379"})
//
// # HTTP Client
//
//	client := standard.NewStandardHTTPClient(30 * time.Second)
//	resp, err := client.Get(ctx, "https://graph.instagram.com/me/media?...")
//	if err != nil {
//	    // Handle error
//	}
//	defer resp.Body().Close()
//
// # Logger
//
//	logger := structured.NewLogger(structured.Options{Level: "info"})
//	logger.Info("Feed refreshed", map[string]interface{}{
//	    "cache_key": "social-feed-fetcher:instagram:acme",
//	})
package infrastructure
