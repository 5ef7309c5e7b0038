package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"social-feed-api/core/domain"
	"social-feed-api/core/instagram"
	"social-feed-api/core/interfaces"
	"social-feed-api/core/socialfeed"
	"social-feed-api/infrastructure/cache/memory"
	"social-feed-api/infrastructure/cache/sqlite"
	stdhttp "social-feed-api/infrastructure/http/standard"
	"social-feed-api/infrastructure/logger/structured"
)

type fetchOptions struct {
	username     string
	token        string
	limit        int
	refresh      bool
	failSilently bool
	endpoint     string
	cachePath    string
	cacheTimeout time.Duration
	timeout      time.Duration
	verbose      bool
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:   "feedctl",
		Short: "Social feed fetcher CLI",
		Long: `feedctl fetches recent posts of a social account and prints them as JSON.

Example usage:
  feedctl fetch --username acme --token $INSTAGRAM_ACCESS_TOKEN
  feedctl fetch --username acme --token $INSTAGRAM_ACCESS_TOKEN --limit 3
  feedctl fetch --username acme --token $INSTAGRAM_ACCESS_TOKEN --cache-path feeds.db`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.AddCommand(newFetchCmd(stdout, stderr))
	return root
}

func newFetchCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &fetchOptions{}

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch an Instagram account's recent posts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch(cmd, opts, stdout, stderr)
		},
	}

	cmd.Flags().StringVar(&opts.username, "username", "", "account username, used for the cache key")
	cmd.Flags().StringVar(&opts.token, "token", "", "Graph API access token")
	cmd.Flags().IntVar(&opts.limit, "limit", instagram.DefaultPostsToFetch, "number of posts to fetch")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "skip the cache read and refetch")
	cmd.Flags().StringVar(&opts.cachePath, "cache-path", "", "SQLite cache file kept between runs (default: no persistent cache)")
	cmd.Flags().DurationVar(&opts.cacheTimeout, "cache-timeout", socialfeed.DefaultCacheTimeout, "how long a fetched feed stays cached")
	cmd.Flags().BoolVar(&opts.failSilently, "fail-silently", false, "print an empty feed instead of failing")
	cmd.Flags().StringVar(&opts.endpoint, "endpoint", instagram.DefaultEndpoint, "Graph API media endpoint")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "HTTP timeout")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging on stderr")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("token")

	return cmd
}

func runFetch(cmd *cobra.Command, opts *fetchOptions, stdout, stderr io.Writer) error {
	if opts.limit <= 0 {
		return errors.New("--limit must be positive")
	}

	level := "warn"
	if opts.verbose {
		level = "debug"
	}
	logger := structured.NewLogger(structured.Options{Level: level, Format: "text", Output: stderr})

	notifier := socialfeed.NewNotifier(logger)
	notifier.Subscribe(socialfeed.LoggingObserver(logger))

	cache, closeCache, err := openCache(opts.cachePath)
	if err != nil {
		return err
	}
	defer closeCache()

	client := stdhttp.NewStandardHTTPClient(opts.timeout)
	source := instagram.NewSource(client, instagram.Config{
		AccessToken:  opts.token,
		Username:     opts.username,
		PostsToFetch: opts.limit,
		Endpoint:     opts.endpoint,
	})

	fetcher := socialfeed.NewFetcher(source, interfaces.Dependencies{
		Cache:      cache,
		HTTPClient: client,
		Logger:     logger,
	}, notifier, socialfeed.Options{
		CacheTimeout: opts.cacheTimeout,
		FailSilently: opts.failSilently,
	})

	get := fetcher.GetFeed
	if opts.refresh {
		get = fetcher.UpdateFeed
	}

	feed, err := get(cmd.Context())
	if err != nil {
		return err
	}
	if feed == nil {
		feed = domain.Feed{}
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(feed)
}

// openCache returns the SQLite cache at path, or a throwaway in-memory cache
// when path is empty.
func openCache(path string) (interfaces.Cache, func(), error) {
	if path == "" {
		return memory.NewMemoryCache(), func() {}, nil
	}

	cache, err := sqlite.NewSQLiteCache(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open cache %s: %w", path, err)
	}
	return cache, func() { _ = cache.Close() }, nil
}
