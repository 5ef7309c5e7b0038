// ABOUTME: Refresh worker keeps cached feeds warm in the background
// ABOUTME: Periodically refetches every registered account so reads rarely miss

package workers

import (
	"context"
	"sync"
	"time"

	"social-feed-api/core/interfaces"
	"social-feed-api/core/socialfeed"
)

// FetcherSource lists the fetchers to refresh, usually a *registry.Registry
type FetcherSource interface {
	All() []*socialfeed.Fetcher
}

// RefreshConfig holds configuration for the refresh worker
type RefreshConfig struct {
	// Interval between two refresh rounds
	Interval time.Duration

	// RunOnStart refreshes once immediately when the worker starts
	RunOnStart bool
}

// DefaultRefreshConfig returns the default worker configuration
func DefaultRefreshConfig() RefreshConfig {
	return RefreshConfig{
		Interval:   15 * time.Minute,
		RunOnStart: true,
	}
}

// RefreshWorker refetches every feed of a FetcherSource on a fixed interval.
// Failures go through each fetcher's own policy and notifier.
type RefreshWorker struct {
	source  FetcherSource
	logger  interfaces.Logger
	config  RefreshConfig
	wg      sync.WaitGroup
	cancel  context.CancelFunc
	mu      sync.Mutex
	running bool
}

// NewRefreshWorker creates a new refresh worker
func NewRefreshWorker(source FetcherSource, logger interfaces.Logger, config RefreshConfig) *RefreshWorker {
	if config.Interval <= 0 {
		config.Interval = DefaultRefreshConfig().Interval
	}
	if logger == nil {
		logger = interfaces.NopLogger{}
	}

	return &RefreshWorker{
		source: source,
		logger: logger,
		config: config,
	}
}

// Start launches the refresh loop. Calling Start on a running worker is a no-op.
func (w *RefreshWorker) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}

	loopCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.running = true

	w.wg.Add(1)
	go w.run(loopCtx)

	w.logger.Info("Feed refresh worker started", map[string]interface{}{
		"interval": w.config.Interval.String(),
	})
	return nil
}

// Stop ends the refresh loop and waits for the current round to finish
func (w *RefreshWorker) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return nil
	}

	w.cancel()
	w.wg.Wait()
	w.running = false

	w.logger.Info("Feed refresh worker stopped", nil)
	return nil
}

// RefreshAll refetches every feed once, one after another, and returns the
// number of refreshes that returned an error.
func (w *RefreshWorker) RefreshAll(ctx context.Context) int {
	failed := 0
	for _, fetcher := range w.source.All() {
		if ctx.Err() != nil {
			break
		}

		feed, err := fetcher.UpdateFeed(ctx)
		if err != nil {
			failed++
			w.logger.Warn("Background feed refresh failed", map[string]interface{}{
				"cache_key": fetcher.CacheKey(),
				"error":     err.Error(),
			})
			continue
		}

		w.logger.Debug("Background feed refresh done", map[string]interface{}{
			"cache_key": fetcher.CacheKey(),
			"posts":     feed.Len(),
		})
	}
	return failed
}

// run is the main loop of the worker
func (w *RefreshWorker) run(ctx context.Context) {
	defer w.wg.Done()

	if w.config.RunOnStart {
		w.RefreshAll(ctx)
	}

	ticker := time.NewTicker(w.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.RefreshAll(ctx)
		case <-ctx.Done():
			return
		}
	}
}
