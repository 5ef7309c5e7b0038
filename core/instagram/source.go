// ABOUTME: Instagram Graph API feed source
// ABOUTME: Builds the media-listing request and normalizes media items into posts

package instagram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"social-feed-api/core/domain"
	feederrors "social-feed-api/core/errors"
	"social-feed-api/core/interfaces"
)

const (
	// ProviderName identifies Instagram in cache keys, routes and failure events
	ProviderName = "instagram"

	// DefaultEndpoint is the Graph API media listing of the token's user
	DefaultEndpoint = "https://graph.instagram.com/me/media"

	// DefaultPostsToFetch is the page size requested when Config leaves it unset
	DefaultPostsToFetch = 9

	cacheKeyNamespace = "social-feed-fetcher"
	mediaFields       = "id,caption,media_type,media_url,permalink,thumbnail_url"
	mediaTypeVideo    = "VIDEO"
	redactedToken     = "[REDACTED]"
)

// Config holds the per-account settings of a Source.
type Config struct {
	// AccessToken is the long-lived Graph API token. It is sent as is and
	// never validated locally.
	AccessToken string

	// Username identifies the account in the cache key
	Username string

	// PostsToFetch is the number of media items requested
	PostsToFetch int

	// Endpoint overrides DefaultEndpoint, mostly for tests
	Endpoint string
}

// Source fetches recent media of one Instagram account.
type Source struct {
	client interfaces.HTTPClient
	cfg    Config
}

// NewSource creates an Instagram source. Zero-valued Config fields get defaults.
func NewSource(client interfaces.HTTPClient, cfg Config) *Source {
	if cfg.PostsToFetch <= 0 {
		cfg.PostsToFetch = DefaultPostsToFetch
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}

	return &Source{
		client: client,
		cfg:    cfg,
	}
}

// CacheKey returns the cache key used for username's feed
func CacheKey(username string) string {
	return strings.Join([]string{cacheKeyNamespace, ProviderName, username}, ":")
}

// Provider returns "instagram"
func (s *Source) Provider() string {
	return ProviderName
}

// Username returns the configured account
func (s *Source) Username() string {
	return s.cfg.Username
}

// CacheKey returns the cache key of the configured account
func (s *Source) CacheKey() string {
	return CacheKey(s.cfg.Username)
}

// mediaResponse is the media listing payload. Data is a pointer so an
// absent field can be told apart from an empty list.
type mediaResponse struct {
	Data  *[]mediaItem `json:"data"`
	Error *graphError  `json:"error"`
}

type mediaItem struct {
	ID           string `json:"id"`
	Caption      string `json:"caption"`
	MediaType    string `json:"media_type"`
	MediaURL     string `json:"media_url"`
	Permalink    string `json:"permalink"`
	ThumbnailURL string `json:"thumbnail_url"`
}

type graphError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    int    `json:"code"`
}

// Fetch requests the latest media and converts them to posts.
//
// Transport failures, non-2xx answers and bodies that are not JSON return a
// *errors.RemoteFetchError. Valid JSON without a data list of media items
// returns a *errors.MalformedResponseError. An empty data list is a valid
// empty feed. Returned errors never carry the access token.
func (s *Source) Fetch(ctx context.Context) (domain.Feed, error) {
	if s.client == nil {
		return nil, s.remoteError(0, "", fmt.Errorf("HTTP client not configured"))
	}

	requestURL, err := s.requestURL()
	if err != nil {
		return nil, s.remoteError(0, "", err)
	}

	resp, err := s.client.Get(ctx, requestURL)
	if err != nil {
		return nil, s.remoteError(0, "", s.scrub(err))
	}
	if resp == nil {
		return nil, s.remoteError(0, "", fmt.Errorf("empty response"))
	}
	body := resp.Body()
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, s.remoteError(resp.StatusCode(), "", s.scrub(err))
	}

	var raw json.RawMessage
	syntaxErr := json.Unmarshal(data, &raw)

	var payload mediaResponse
	var shapeErr error
	if syntaxErr == nil {
		shapeErr = json.Unmarshal(data, &payload)
	}

	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		message := ""
		if syntaxErr == nil && shapeErr == nil && payload.Error != nil {
			message = payload.Error.Message
		}
		return nil, s.remoteError(resp.StatusCode(), message, nil)
	}

	if syntaxErr != nil {
		return nil, s.remoteError(resp.StatusCode(), "response is not valid JSON", syntaxErr)
	}

	if shapeErr != nil {
		return nil, &feederrors.MalformedResponseError{Provider: ProviderName, Reason: shapeErr.Error()}
	}

	if payload.Data == nil {
		reason := "missing data field"
		if payload.Error != nil && payload.Error.Message != "" {
			reason = fmt.Sprintf("%s (%s)", reason, payload.Error.Message)
		}
		return nil, &feederrors.MalformedResponseError{Provider: ProviderName, Reason: reason}
	}

	return normalize(*payload.Data), nil
}

func (s *Source) requestURL() (string, error) {
	u, err := url.Parse(s.cfg.Endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint %q: %w", s.cfg.Endpoint, err)
	}

	query := u.Query()
	query.Set("fields", mediaFields)
	query.Set("access_token", s.cfg.AccessToken)
	query.Set("limit", strconv.Itoa(s.cfg.PostsToFetch))
	u.RawQuery = query.Encode()

	return u.String(), nil
}

// scrub removes the request URL, and with it the access token, from a
// transport error. Any remaining occurrence of the token is masked.
func (s *Source) scrub(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		err = urlErr.Err
	}

	token := s.cfg.AccessToken
	if token == "" || !strings.Contains(err.Error(), token) {
		return err
	}
	return errors.New(strings.ReplaceAll(err.Error(), token, redactedToken))
}

func (s *Source) remoteError(status int, message string, cause error) error {
	return &feederrors.RemoteFetchError{
		Provider:   ProviderName,
		StatusCode: status,
		Message:    message,
		Err:        cause,
	}
}

// normalize maps media items to posts in order. Videos show their thumbnail.
func normalize(items []mediaItem) domain.Feed {
	feed := make(domain.Feed, 0, len(items))
	for _, item := range items {
		image := item.MediaURL
		if item.MediaType == mediaTypeVideo {
			image = item.ThumbnailURL
		}
		feed = append(feed, domain.Post{
			Image: image,
			Link:  item.Permalink,
		})
	}
	return feed
}
