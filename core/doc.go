// Package core contains the business logic of the social feed service.
// It is framework-agnostic and does not depend on any infrastructure
// package.
//
// The core package is organized into several sub-packages:
//
// - domain: the normalized Post and Feed models
// - socialfeed: the cache-aside Fetcher shared by every provider, and the
// failure Notifier
// - instagram: the Instagram Graph API FeedSource
// - registry: configured provider/account pairs and their fetchers
// - workers: the optional background refresher
// - errors: typed errors for provider failures and lookups
// - interfaces: contracts for external dependencies (cache, HTTP, logger)
//
// # Design Principles
//
// - All external dependencies are injected via interfaces
// - Providers only fetch and normalize; caching and failure policy live in
// socialfeed.Fetcher
// - Failures are reported to observers before the policy decides whether
// the caller sees an error or an empty feed
//
// # Usage Example
//
//	deps := interfaces.Dependencies{
//	    Cache:      myCache,      // implements interfaces.Cache
//	    HTTPClient: myHTTPClient, // implements interfaces.HTTPClient
//	    Logger:     myLogger,     // implements interfaces.Logger
//	}
//
//	notifier := socialfeed.NewNotifier(myLogger)
//	notifier.Subscribe(socialfeed.LoggingObserver(myLogger))
//
//	source := instagram.NewSource(myHTTPClient, instagram.Config{
//	    AccessToken: token,
//	    Username:    "acme",
//	})
//	fetcher := socialfeed.NewFetcher(source, deps, notifier, socialfeed.Options{
//	    FailSilently: true,
//	})
//
//	feed, err := fetcher.GetFeed(ctx)
package core
