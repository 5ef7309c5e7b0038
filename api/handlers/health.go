// ABOUTME: Health check handler for the Huma API
// ABOUTME: Reports configured accounts and, when the backend supports it, cache statistics

package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// AccountCounter reports how many accounts are configured
type AccountCounter interface {
	Len() int
}

// CacheStatsReporter is implemented by cache backends that can describe
// their contents
type CacheStatsReporter interface {
	Stats() (map[string]interface{}, error)
}

// HealthHandler serves the liveness endpoint
type HealthHandler struct {
	accounts AccountCounter
	stats    CacheStatsReporter
}

// NewHealthHandler creates a new health handler. cache may be any backend;
// its statistics are reported only when it implements CacheStatsReporter.
func NewHealthHandler(accounts AccountCounter, cache interface{}) *HealthHandler {
	stats, _ := cache.(CacheStatsReporter)
	return &HealthHandler{accounts: accounts, stats: stats}
}

// RegisterRoutes registers the health route
func (h *HealthHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Tags:        []string{"System"},
	}, h.Health)
}

// HealthOutput defines the output of the health operation
type HealthOutput struct {
	Body struct {
		Status   string                 `json:"status" example:"ok" doc:"ok, or degraded when the cache cannot be inspected"`
		Accounts int                    `json:"accounts" doc:"Number of configured accounts"`
		Cache    map[string]interface{} `json:"cache,omitempty" doc:"Cache backend statistics"`
	}
}

// Health handles GET /health
func (h *HealthHandler) Health(ctx context.Context, input *struct{}) (*HealthOutput, error) {
	out := &HealthOutput{}
	out.Body.Status = "ok"
	if h.accounts != nil {
		out.Body.Accounts = h.accounts.Len()
	}

	if h.stats != nil {
		stats, err := h.stats.Stats()
		if err != nil {
			out.Body.Status = "degraded"
			out.Body.Cache = map[string]interface{}{"error": "cache statistics unavailable"}
		} else {
			out.Body.Cache = stats
		}
	}

	return out, nil
}
