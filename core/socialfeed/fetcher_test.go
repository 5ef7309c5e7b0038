package socialfeed

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"social-feed-api/core/domain"
	feederrors "social-feed-api/core/errors"
	"social-feed-api/core/interfaces"
)

var testFeed = domain.Feed{
	{Image: "https://cdn.example.com/1.jpg", Link: "https://instagram.com/p/1"},
	{Image: "https://cdn.example.com/2.jpg", Link: "https://instagram.com/p/2"},
}

func encode(t *testing.T, feed domain.Feed) []byte {
	t.Helper()
	data, err := json.Marshal(feed)
	require.NoError(t, err)
	return data
}

// subscribe attaches a collecting observer and returns the slice it fills
func subscribe(n *Notifier) *[]FailureEvent {
	events := &[]FailureEvent{}
	n.Subscribe(func(event FailureEvent) {
		*events = append(*events, event)
	})
	return events
}

func TestNewFetcher_DefaultsCacheTimeout(t *testing.T) {
	fetcher := NewFetcher(&mockSource{}, interfaces.Dependencies{}, nil, Options{})

	assert.Equal(t, DefaultCacheTimeout, fetcher.Options().CacheTimeout)
}

func TestGetFeed_CacheHitSkipsFetch(t *testing.T) {
	source := &mockSource{
		fetchFunc: func(ctx context.Context) (domain.Feed, error) {
			t.Error("Fetch should not be called on a cache hit")
			return nil, nil
		},
	}
	cache := newRecordingCache()
	cache.data[source.CacheKey()] = encode(t, testFeed)

	fetcher := NewFetcher(source, interfaces.Dependencies{Cache: cache}, nil, Options{})

	feed, err := fetcher.GetFeed(context.Background())

	require.NoError(t, err)
	assert.Equal(t, testFeed, feed)
	assert.Equal(t, 0, source.calls)
	assert.Empty(t, cache.sets)
}

func TestGetFeed_CacheMissFetchesAndStores(t *testing.T) {
	source := &mockSource{
		fetchFunc: func(ctx context.Context) (domain.Feed, error) {
			return testFeed, nil
		},
	}
	cache := newRecordingCache()
	fetcher := NewFetcher(source, interfaces.Dependencies{Cache: cache}, nil, Options{CacheTimeout: 90 * time.Second})

	feed, err := fetcher.GetFeed(context.Background())

	require.NoError(t, err)
	assert.Equal(t, testFeed, feed)
	assert.Equal(t, 1, source.calls)
	require.Len(t, cache.sets, 1)
	assert.Equal(t, source.CacheKey(), cache.sets[0].key)
	assert.Equal(t, 90*time.Second, cache.sets[0].ttl)
	assert.JSONEq(t, string(encode(t, testFeed)), string(cache.sets[0].value))
}

func TestGetFeed_WarmCacheFetchesOnce(t *testing.T) {
	source := &mockSource{
		fetchFunc: func(ctx context.Context) (domain.Feed, error) {
			return testFeed, nil
		},
	}
	fetcher := NewFetcher(source, interfaces.Dependencies{Cache: newRecordingCache()}, nil, Options{})
	ctx := context.Background()

	first, err := fetcher.GetFeed(ctx)
	require.NoError(t, err)
	second, err := fetcher.GetFeed(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, source.calls)
}

func TestGetFeed_EmptyCachedFeedIsRefetchedByDefault(t *testing.T) {
	source := &mockSource{}
	cache := newRecordingCache()
	cache.data[source.CacheKey()] = []byte("[]")

	fetcher := NewFetcher(source, interfaces.Dependencies{Cache: cache}, nil, Options{})

	_, err := fetcher.GetFeed(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, source.calls)
}

func TestGetFeed_EmptyCachedFeedIsHitWhenEnabled(t *testing.T) {
	source := &mockSource{}
	cache := newRecordingCache()
	cache.data[source.CacheKey()] = []byte("[]")

	fetcher := NewFetcher(source, interfaces.Dependencies{Cache: cache}, nil, Options{CacheEmptyFeeds: true})

	feed, err := fetcher.GetFeed(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, feed)
	assert.Empty(t, feed)
	assert.Equal(t, 0, source.calls)
}

func TestGetFeed_EmptyFetchIsCachedAsEmptyList(t *testing.T) {
	source := &mockSource{
		fetchFunc: func(ctx context.Context) (domain.Feed, error) {
			return nil, nil
		},
	}
	cache := newRecordingCache()
	fetcher := NewFetcher(source, interfaces.Dependencies{Cache: cache}, nil, Options{CacheEmptyFeeds: true})
	ctx := context.Background()

	feed, err := fetcher.GetFeed(ctx)
	require.NoError(t, err)
	assert.NotNil(t, feed)

	_, err = fetcher.GetFeed(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, source.calls)
	require.Len(t, cache.sets, 1)
	assert.Equal(t, "[]", string(cache.sets[0].value))
}

func TestGetFeed_CacheReadErrorCountsAsMiss(t *testing.T) {
	source := &mockSource{
		fetchFunc: func(ctx context.Context) (domain.Feed, error) {
			return testFeed, nil
		},
	}
	cache := newRecordingCache()
	cache.getErr = errors.New("connection reset")
	logger := &mockLogger{}

	fetcher := NewFetcher(source, interfaces.Dependencies{Cache: cache, Logger: logger}, nil, Options{})

	feed, err := fetcher.GetFeed(context.Background())

	require.NoError(t, err)
	assert.Equal(t, testFeed, feed)
	assert.Len(t, logger.warnings, 1)
}

func TestGetFeed_CorruptCacheEntryCountsAsMiss(t *testing.T) {
	source := &mockSource{
		fetchFunc: func(ctx context.Context) (domain.Feed, error) {
			return testFeed, nil
		},
	}
	cache := newRecordingCache()
	cache.data[source.CacheKey()] = []byte("{not json")

	fetcher := NewFetcher(source, interfaces.Dependencies{Cache: cache}, nil, Options{})

	feed, err := fetcher.GetFeed(context.Background())

	require.NoError(t, err)
	assert.Equal(t, testFeed, feed)
	assert.Equal(t, 1, source.calls)
}

func TestGetFeed_NoCacheAlwaysFetches(t *testing.T) {
	source := &mockSource{
		fetchFunc: func(ctx context.Context) (domain.Feed, error) {
			return testFeed, nil
		},
	}
	fetcher := NewFetcher(source, interfaces.Dependencies{}, nil, Options{})
	ctx := context.Background()

	_, _ = fetcher.GetFeed(ctx)
	_, _ = fetcher.GetFeed(ctx)

	assert.Equal(t, 2, source.calls)
}

func TestUpdateFeed_SilentFailure(t *testing.T) {
	fetchErr := &feederrors.RemoteFetchError{Provider: "mock", Err: errors.New("timeout")}
	source := &mockSource{
		fetchFunc: func(ctx context.Context) (domain.Feed, error) {
			return nil, fetchErr
		},
	}
	cache := newRecordingCache()
	notifier := NewNotifier(nil)
	events := subscribe(notifier)

	fetcher := NewFetcher(source, interfaces.Dependencies{Cache: cache}, notifier, Options{FailSilently: true})

	feed, err := fetcher.GetFeed(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, feed)
	assert.Empty(t, feed)
	assert.Empty(t, cache.sets)
	require.Len(t, *events, 1)
	assert.Equal(t, "mock", (*events)[0].Provider)
	assert.Equal(t, source.CacheKey(), (*events)[0].CacheKey)
	assert.Same(t, fetchErr, (*events)[0].Err)
	assert.NotEmpty(t, (*events)[0].ID)
}

func TestUpdateFeed_LoudFailureReturnsOriginalError(t *testing.T) {
	fetchErr := &feederrors.MalformedResponseError{Provider: "mock", Reason: "missing data field"}
	source := &mockSource{
		fetchFunc: func(ctx context.Context) (domain.Feed, error) {
			return nil, fetchErr
		},
	}
	cache := newRecordingCache()
	notifier := NewNotifier(nil)

	var notifiedBeforeReturn bool
	notifier.Subscribe(func(event FailureEvent) {
		notifiedBeforeReturn = true
	})

	fetcher := NewFetcher(source, interfaces.Dependencies{Cache: cache}, notifier, Options{})

	feed, err := fetcher.GetFeed(context.Background())

	assert.Nil(t, feed)
	assert.Same(t, fetchErr, err)
	assert.True(t, notifiedBeforeReturn)
	assert.Empty(t, cache.sets)
}

func TestUpdateFeed_FailureKeepsPreviousCachedFeed(t *testing.T) {
	source := &mockSource{
		fetchFunc: func(ctx context.Context) (domain.Feed, error) {
			return nil, errors.New("upstream down")
		},
	}
	cache := newRecordingCache()
	cache.data[source.CacheKey()] = encode(t, testFeed)

	fetcher := NewFetcher(source, interfaces.Dependencies{Cache: cache}, nil, Options{FailSilently: true})
	ctx := context.Background()

	_, err := fetcher.UpdateFeed(ctx)
	require.NoError(t, err)

	feed, err := fetcher.GetFeed(ctx)
	require.NoError(t, err)
	assert.Equal(t, testFeed, feed)
}

func TestUpdateFeed_CacheWriteErrorStillReturnsFeed(t *testing.T) {
	source := &mockSource{
		fetchFunc: func(ctx context.Context) (domain.Feed, error) {
			return testFeed, nil
		},
	}
	cache := newRecordingCache()
	cache.setErr = errors.New("disk full")
	logger := &mockLogger{}
	notifier := NewNotifier(nil)
	events := subscribe(notifier)

	fetcher := NewFetcher(source, interfaces.Dependencies{Cache: cache, Logger: logger}, notifier, Options{})

	feed, err := fetcher.UpdateFeed(context.Background())

	require.NoError(t, err)
	assert.Equal(t, testFeed, feed)
	assert.Len(t, logger.errors, 1)
	assert.Empty(t, *events)
}

func TestUpdateFeed_AlwaysFetches(t *testing.T) {
	source := &mockSource{
		fetchFunc: func(ctx context.Context) (domain.Feed, error) {
			return testFeed, nil
		},
	}
	cache := newRecordingCache()
	cache.data[source.CacheKey()] = encode(t, domain.Feed{{Image: "old", Link: "old"}})

	fetcher := NewFetcher(source, interfaces.Dependencies{Cache: cache}, nil, Options{})

	feed, err := fetcher.UpdateFeed(context.Background())

	require.NoError(t, err)
	assert.Equal(t, testFeed, feed)
	assert.Equal(t, 1, source.calls)
	assert.JSONEq(t, string(encode(t, testFeed)), string(cache.data[source.CacheKey()]))
}
