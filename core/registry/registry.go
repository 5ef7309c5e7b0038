// ABOUTME: Registry of configured social accounts
// ABOUTME: Resolves provider/account pairs to their cache-aside fetchers

package registry

import (
	"context"
	"sort"
	"sync"

	"social-feed-api/core/domain"
	feederrors "social-feed-api/core/errors"
	"social-feed-api/core/socialfeed"
)

// Registry holds one fetcher per configured provider/account pair.
// It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	fetchers map[string]*socialfeed.Fetcher
}

// New creates an empty registry
func New() *Registry {
	return &Registry{
		fetchers: make(map[string]*socialfeed.Fetcher),
	}
}

func entryKey(provider, account string) string {
	return provider + "/" + account
}

// Register adds fetcher under its provider and the given account name.
func (r *Registry) Register(account string, fetcher *socialfeed.Fetcher) error {
	if account == "" {
		return &feederrors.ValidationError{Field: "account", Message: "cannot be empty"}
	}
	if fetcher == nil {
		return &feederrors.ValidationError{Field: "fetcher", Message: "cannot be nil"}
	}

	key := entryKey(fetcher.Provider(), account)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.fetchers[key]; exists {
		return &feederrors.ValidationError{Field: "account", Message: "already registered: " + key}
	}
	r.fetchers[key] = fetcher
	return nil
}

// Lookup returns the fetcher for provider/account or a NotFoundError
func (r *Registry) Lookup(provider, account string) (*socialfeed.Fetcher, error) {
	key := entryKey(provider, account)

	r.mu.RLock()
	fetcher, ok := r.fetchers[key]
	r.mu.RUnlock()

	if !ok {
		return nil, &feederrors.NotFoundError{Resource: "feed", ID: key}
	}
	return fetcher, nil
}

// All returns every registered fetcher ordered by provider/account
func (r *Registry) All() []*socialfeed.Fetcher {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.fetchers))
	for key := range r.fetchers {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	fetchers := make([]*socialfeed.Fetcher, 0, len(keys))
	for _, key := range keys {
		fetchers = append(fetchers, r.fetchers[key])
	}
	return fetchers
}

// Len returns the number of registered accounts
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.fetchers)
}

// GetFeed serves the cached or freshly fetched feed of provider/account
func (r *Registry) GetFeed(ctx context.Context, provider, account string) (domain.Feed, error) {
	fetcher, err := r.Lookup(provider, account)
	if err != nil {
		return nil, err
	}
	return fetcher.GetFeed(ctx)
}

// RefreshFeed bypasses the cache read and refetches provider/account
func (r *Registry) RefreshFeed(ctx context.Context, provider, account string) (domain.Feed, error) {
	fetcher, err := r.Lookup(provider, account)
	if err != nil {
		return nil, err
	}
	return fetcher.UpdateFeed(ctx)
}
