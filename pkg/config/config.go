// ABOUTME: Configuration management for the application with environment variable support
// ABOUTME: Defines server, cache, feed and account settings, optionally merged with a YAML accounts file

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// SupportedProviders lists the providers an account may name
var SupportedProviders = []string{"instagram"}

// Config holds all application configuration
type Config struct {
	// Server contains HTTP server configuration
	Server ServerConfig

	// Cache contains cache configuration
	Cache CacheConfig

	// Feed contains the defaults applied to every fetcher
	Feed FeedConfig

	// Log contains logger configuration
	Log LogConfig

	// Accounts lists the social accounts to serve
	Accounts []AccountConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	// Port is the HTTP server port
	Port string

	// RefreshTimer is the interval in seconds for background feed refresh.
	// Zero disables the background refresh.
	RefreshTimer int

	// HTTPTimeout is the timeout in seconds for provider requests
	HTTPTimeout int

	// RateLimit is the number of requests allowed per client per minute.
	// Zero disables rate limiting.
	RateLimit int

	// TrustProxyHeaders takes the client IP from forwarding headers.
	// Enable only when the server sits behind a trusted reverse proxy.
	TrustProxyHeaders bool
}

// CacheConfig holds cache backend configuration
type CacheConfig struct {
	// Type specifies the cache backend (memory/gocache/redis/sqlite)
	Type string

	// Redis contains Redis-specific configuration
	Redis RedisConfig

	// SQLite contains SQLite-specific configuration
	SQLite SQLiteConfig

	// Memory contains in-memory cache configuration
	Memory MemoryConfig
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	// Address is the Redis server address
	Address string

	// Password is the Redis authentication password
	Password string

	// DB is the Redis database number
	DB int
}

// SQLiteConfig holds SQLite-specific configuration
type SQLiteConfig struct {
	// Path is the database file
	Path string
}

// MemoryConfig holds in-memory cache configuration
type MemoryConfig struct {
	// CleanupInterval is how often, in seconds, expired entries are purged
	CleanupInterval int
}

// FeedConfig holds fetcher defaults
type FeedConfig struct {
	// CacheTimeout is the cache TTL of a feed in seconds
	CacheTimeout int

	// FailSilently makes fetch failures return an empty feed
	FailSilently bool

	// CacheEmptyFeeds serves a cached empty feed instead of refetching it
	CacheEmptyFeeds bool

	// PostsToFetch is the default number of posts per account
	PostsToFetch int
}

// LogConfig holds logger configuration
type LogConfig struct {
	// Level is debug, info, warn or error
	Level string

	// Format is json or text
	Format string
}

// AccountConfig describes one social account
type AccountConfig struct {
	Provider     string `yaml:"provider"`
	Username     string `yaml:"username"`
	AccessToken  string `yaml:"access_token"`
	PostsToFetch int    `yaml:"posts_to_fetch"`
	FailSilently *bool  `yaml:"fail_silently"`
}

// accountsFile is the layout of the FEEDS_CONFIG file
type accountsFile struct {
	Accounts []AccountConfig `yaml:"accounts"`
}

// LoadFromEnv loads configuration from environment variables.
// When FEEDS_CONFIG names a YAML file, its accounts are appended.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:              getEnvOrDefault("PORT", "8000"),
			RefreshTimer:      getEnvAsIntOrDefault("REFRESH_TIMER", 0),
			HTTPTimeout:       getEnvAsIntOrDefault("HTTP_TIMEOUT", 10),
			RateLimit:         getEnvAsIntOrDefault("RATE_LIMIT", 100),
			TrustProxyHeaders: getEnvAsBoolOrDefault("TRUST_PROXY_HEADERS", false),
		},
		Cache: CacheConfig{
			Type: getEnvOrDefault("CACHE_TYPE", "memory"),
			Redis: RedisConfig{
				Address:  getEnvOrDefault("REDIS_ADDRESS", "localhost:6379"),
				Password: getEnvOrDefault("REDIS_PASSWORD", ""),
				DB:       getEnvAsIntOrDefault("REDIS_DB", 0),
			},
			SQLite: SQLiteConfig{
				Path: getEnvOrDefault("SQLITE_PATH", "cache.db"),
			},
			Memory: MemoryConfig{
				CleanupInterval: getEnvAsIntOrDefault("MEMORY_CACHE_CLEANUP", 600),
			},
		},
		Feed: FeedConfig{
			CacheTimeout:    getEnvAsIntOrDefault("FEED_CACHE_TIMEOUT", 3600),
			FailSilently:    getEnvAsBoolOrDefault("FEED_FAIL_SILENTLY", false),
			CacheEmptyFeeds: getEnvAsBoolOrDefault("FEED_CACHE_EMPTY", false),
			PostsToFetch:    getEnvAsIntOrDefault("FEED_POSTS_TO_FETCH", 9),
		},
		Log: LogConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: getEnvOrDefault("LOG_FORMAT", "json"),
		},
	}

	if username := os.Getenv("INSTAGRAM_USERNAME"); username != "" {
		cfg.Accounts = append(cfg.Accounts, AccountConfig{
			Provider:    "instagram",
			Username:    username,
			AccessToken: os.Getenv("INSTAGRAM_ACCESS_TOKEN"),
		})
	}

	if path := os.Getenv("FEEDS_CONFIG"); path != "" {
		accounts, err := LoadAccounts(path)
		if err != nil {
			return nil, err
		}
		cfg.Accounts = append(cfg.Accounts, accounts...)
	}

	return cfg, nil
}

// LoadAccounts reads the accounts list from a YAML file.
// Access tokens may reference environment variables as ${NAME}.
func LoadAccounts(path string) ([]AccountConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read accounts file: %w", err)
	}

	var file accountsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse accounts file: %w", err)
	}

	for i := range file.Accounts {
		account := &file.Accounts[i]
		account.AccessToken = os.ExpandEnv(account.AccessToken)
		if account.Provider == "" {
			account.Provider = "instagram"
		}
	}

	return file.Accounts, nil
}

// ResolveFailSilently returns the account override or the given default
func (a AccountConfig) ResolveFailSilently(defaultValue bool) bool {
	if a.FailSilently != nil {
		return *a.FailSilently
	}
	return defaultValue
}

// getEnvOrDefault returns the environment variable value or a default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault returns the environment variable as int or a default
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBoolOrDefault returns the environment variable as bool or a default
func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func isSupportedProvider(provider string) bool {
	for _, p := range SupportedProviders {
		if p == provider {
			return true
		}
	}
	return false
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("port cannot be empty")
	}

	if c.Server.RefreshTimer < 0 {
		return errors.New("refresh timer cannot be negative")
	}

	if c.Server.HTTPTimeout < 1 {
		return errors.New("http timeout must be at least 1 second")
	}

	switch c.Cache.Type {
	case "memory", "gocache", "sqlite":
	case "redis":
		if c.Cache.Redis.Address == "" {
			return errors.New("redis address cannot be empty when using redis cache")
		}
	default:
		return errors.New("cache type must be one of memory, gocache, redis, sqlite")
	}

	if c.Feed.CacheTimeout < 1 {
		return errors.New("feed cache timeout must be at least 1 second")
	}

	seen := make(map[string]bool, len(c.Accounts))
	for i, account := range c.Accounts {
		if !isSupportedProvider(account.Provider) {
			return fmt.Errorf("account %d: unsupported provider %q (supported: %s)",
				i, account.Provider, strings.Join(SupportedProviders, ", "))
		}
		if account.Username == "" {
			return fmt.Errorf("account %d: username cannot be empty", i)
		}
		if account.AccessToken == "" {
			return fmt.Errorf("account %d: access token cannot be empty", i)
		}
		key := account.Provider + "/" + account.Username
		if seen[key] {
			return fmt.Errorf("account %d: duplicate account %s", i, key)
		}
		seen[key] = true
	}

	return nil
}
