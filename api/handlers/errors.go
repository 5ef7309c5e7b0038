// ABOUTME: Error handling utilities for API handlers
// ABOUTME: Converts domain errors to appropriate HTTP responses

package handlers

import (
	"errors"
	"fmt"
	"net/http"

	feederrors "social-feed-api/core/errors"

	"github.com/danielgtaylor/huma/v2"
)

// toHumaError converts domain errors to appropriate Huma HTTP errors.
// Provider and internal errors are reduced to a fixed message; their text
// may carry upstream URLs and stays in the logs.
func toHumaError(err error) error {
	if err == nil {
		return nil
	}

	if feederrors.IsNotFound(err) {
		return huma.Error404NotFound(err.Error())
	}

	if feederrors.IsValidation(err) {
		return huma.Error400BadRequest(err.Error())
	}

	var fetchErr *feederrors.RemoteFetchError
	if errors.As(err, &fetchErr) {
		if fetchErr.StatusCode == http.StatusTooManyRequests {
			return huma.Error429TooManyRequests("Rate limited by upstream provider")
		}
		if fetchErr.StatusCode != 0 {
			return huma.Error502BadGateway(fmt.Sprintf("Upstream provider request failed with status %d", fetchErr.StatusCode))
		}
		return huma.Error502BadGateway("Upstream provider request failed")
	}

	if feederrors.IsMalformedResponse(err) {
		return huma.Error502BadGateway("Upstream provider returned an unexpected response")
	}

	return huma.Error500InternalServerError("Internal server error")
}
