// ABOUTME: Dependencies container provides dependency injection for core services
// ABOUTME: Groups the collaborators every feed fetcher needs

package interfaces

// Dependencies holds all external dependencies required by the feed core
type Dependencies struct {
	// Cache stores fetched feeds between requests
	Cache Cache

	// HTTPClient reaches the provider APIs
	HTTPClient HTTPClient

	// Logger provides structured logging
	Logger Logger
}
