// Package api provides the HTTP API layer for the social feed service.
// It uses the Huma framework on a chi router to provide OpenAPI
// documentation, request validation and RFC 7807 error bodies.
//
// # Architecture
//
// - server.go: Huma API configuration and middleware stack
// - handlers/: HTTP request handlers
// - middleware/: request logging with request IDs, per-IP rate limiting
//
// # Endpoints
//
//	GET  /feeds/{provider}/{account}          cached feed of a configured account
//	POST /feeds/{provider}/{account}/refresh  refetch from the provider and recache
//	GET  /health                              liveness and account count
//
// The OpenAPI spec is served at /openapi.json and the docs UI at /docs.
//
// # Error Handling
//
// Domain errors are mapped to status codes in handlers/errors.go:
// unknown accounts are 404, provider failures and malformed provider
// payloads are 502, and a provider rate limit is passed through as 429.
package api
