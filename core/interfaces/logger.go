package interfaces

// Logger defines the interface for logging throughout the application.
// The production implementation wraps logrus; tests pass a func-field mock.
//
// Example usage:
//
//	logger.Info("Feed refreshed", map[string]interface{}{
//		"cache_key": "social-feed-fetcher:instagram:acme",
//		"posts":     9,
//	})
type Logger interface {
	// Debug logs detailed troubleshooting information.
	Debug(msg string, fields map[string]interface{})

	// Info logs general informational messages.
	Info(msg string, fields map[string]interface{})

	// Warn logs potential issues that don't prevent operation.
	Warn(msg string, fields map[string]interface{})

	// Error logs failures that need attention.
	Error(msg string, fields map[string]interface{})
}

// NopLogger discards everything. Used when no logger is injected.
type NopLogger struct{}

func (NopLogger) Debug(string, map[string]interface{}) {}
func (NopLogger) Info(string, map[string]interface{})  {}
func (NopLogger) Warn(string, map[string]interface{})  {}
func (NopLogger) Error(string, map[string]interface{}) {}
