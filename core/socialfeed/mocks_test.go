package socialfeed

import (
	"context"
	"sync"
	"time"

	"social-feed-api/core/domain"
	"social-feed-api/core/interfaces"
)

// mockSource is a mock implementation of the FeedSource interface
type mockSource struct {
	provider  string
	key       string
	fetchFunc func(ctx context.Context) (domain.Feed, error)
	calls     int
}

func (m *mockSource) Provider() string {
	if m.provider == "" {
		return "mock"
	}
	return m.provider
}

func (m *mockSource) CacheKey() string {
	if m.key == "" {
		return "social-feed-fetcher:mock:account"
	}
	return m.key
}

func (m *mockSource) Fetch(ctx context.Context) (domain.Feed, error) {
	m.calls++
	if m.fetchFunc != nil {
		return m.fetchFunc(ctx)
	}
	return domain.Feed{}, nil
}

// setCall records one Cache.Set invocation
type setCall struct {
	key   string
	value []byte
	ttl   time.Duration
}

// recordingCache is a map-backed Cache that records writes
type recordingCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	sets    []setCall
	getErr  error
	setErr  error
	getHits int
}

func newRecordingCache() *recordingCache {
	return &recordingCache{data: make(map[string][]byte)}
}

func (c *recordingCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.getHits++
	if c.getErr != nil {
		return nil, c.getErr
	}
	value, ok := c.data[key]
	if !ok {
		return nil, interfaces.ErrCacheMiss
	}
	return value, nil
}

func (c *recordingCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sets = append(c.sets, setCall{key: key, value: value, ttl: ttl})
	if c.setErr != nil {
		return c.setErr
	}
	c.data[key] = value
	return nil
}

func (c *recordingCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.data, key)
	return nil
}

// mockLogger is a mock implementation of the Logger interface
type mockLogger struct {
	mu       sync.Mutex
	warnings []string
	errors   []string
}

func (m *mockLogger) Debug(msg string, fields map[string]interface{}) {}

func (m *mockLogger) Info(msg string, fields map[string]interface{}) {}

func (m *mockLogger) Warn(msg string, fields map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.warnings = append(m.warnings, msg)
}

func (m *mockLogger) Error(msg string, fields map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors = append(m.errors, msg)
}
