// ABOUTME: Feed handlers for the Huma API
// ABOUTME: Serves cached social feeds and forces refreshes per configured account

package handlers

import (
	"context"
	"net/http"

	"social-feed-api/core/domain"

	"github.com/danielgtaylor/huma/v2"
)

// FeedService resolves feeds for configured provider/account pairs
type FeedService interface {
	GetFeed(ctx context.Context, provider, account string) (domain.Feed, error)
	RefreshFeed(ctx context.Context, provider, account string) (domain.Feed, error)
}

// FeedHandler handles feed-related HTTP requests
type FeedHandler struct {
	feedService FeedService
}

// NewFeedHandler creates a new feed handler
func NewFeedHandler(feedService FeedService) *FeedHandler {
	return &FeedHandler{feedService: feedService}
}

// RegisterRoutes registers all feed-related routes
func (h *FeedHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "getFeed",
		Method:      http.MethodGet,
		Path:        "/feeds/{provider}/{account}",
		Summary:     "Get a cached social feed",
		Description: "Returns the account's recent posts, served from cache when fresh",
		Tags:        []string{"Feeds"},
	}, h.GetFeed)

	huma.Register(api, huma.Operation{
		OperationID: "refreshFeed",
		Method:      http.MethodPost,
		Path:        "/feeds/{provider}/{account}/refresh",
		Summary:     "Refresh a social feed",
		Description: "Fetches the account's posts from the provider and rewrites the cache",
		Tags:        []string{"Feeds"},
	}, h.RefreshFeed)
}

// FeedInput identifies a configured account
type FeedInput struct {
	Provider string `path:"provider" doc:"Feed provider" example:"instagram"`
	Account  string `path:"account" doc:"Account name as configured" example:"acme"`
	Page     int    `query:"page" minimum:"1" default:"1" doc:"Page number"`
	PerPage  int    `query:"per_page" minimum:"0" maximum:"100" default:"0" doc:"Posts per page, 0 for all"`
}

// FeedResponse is the JSON body of a feed
type FeedResponse struct {
	Provider string        `json:"provider" doc:"Feed provider"`
	Account  string        `json:"account" doc:"Account name"`
	Total    int           `json:"total" doc:"Number of posts in the feed"`
	Count    int           `json:"count" doc:"Number of posts in this page"`
	Posts    []domain.Post `json:"posts" doc:"Posts in provider order"`
}

// FeedOutput defines the output of the feed operations
type FeedOutput struct {
	Body FeedResponse
}

// GetFeed handles GET /feeds/{provider}/{account}
func (h *FeedHandler) GetFeed(ctx context.Context, input *FeedInput) (*FeedOutput, error) {
	feed, err := h.feedService.GetFeed(ctx, input.Provider, input.Account)
	if err != nil {
		return nil, toHumaError(err)
	}
	return newFeedOutput(input, feed), nil
}

// RefreshFeed handles POST /feeds/{provider}/{account}/refresh
func (h *FeedHandler) RefreshFeed(ctx context.Context, input *FeedInput) (*FeedOutput, error) {
	feed, err := h.feedService.RefreshFeed(ctx, input.Provider, input.Account)
	if err != nil {
		return nil, toHumaError(err)
	}
	return newFeedOutput(input, feed), nil
}

func newFeedOutput(input *FeedInput, feed domain.Feed) *FeedOutput {
	posts := []domain.Post(feed.Page(input.Page, input.PerPage))
	if posts == nil {
		posts = []domain.Post{}
	}
	return &FeedOutput{
		Body: FeedResponse{
			Provider: input.Provider,
			Account:  input.Account,
			Total:    feed.Len(),
			Count:    len(posts),
			Posts:    posts,
		},
	}
}
