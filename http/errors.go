// Package http provides the retrying lookup client shared by the package
// registry and code-hosting integrations.
package http

import (
	"errors"
	"fmt"
	"time"
)

// Standard sentinel errors for lookup clients.
var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrUnauthorized indicates invalid or missing authentication.
	ErrUnauthorized = errors.New("authentication failed")

	// ErrForbidden indicates the caller lacks permission for the resource.
	ErrForbidden = errors.New("permission denied")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrBadRequest indicates the request was malformed.
	ErrBadRequest = errors.New("bad request")

	// ErrServerError indicates a server-side error occurred.
	ErrServerError = errors.New("server error")

	// ErrUnreachable indicates the service could not be reached at all.
	ErrUnreachable = errors.New("service unreachable")
)

// APIError represents an error status returned by an external API.
type APIError struct {
	// Service is the name of the integration (e.g., "rubygems", "goproxy").
	Service string

	// StatusCode is the HTTP status code returned.
	StatusCode int

	// Message is the error message from the API.
	Message string

	// Endpoint is the API endpoint that was called.
	Endpoint string

	// RequestID is the request ID for debugging (if available).
	RequestID string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.RequestID != "" {
		return fmt.Sprintf("%s API error (%d) at %s [%s]: %s",
			e.Service, e.StatusCode, e.Endpoint, e.RequestID, e.Message)
	}
	return fmt.Sprintf("%s API error (%d) at %s: %s",
		e.Service, e.StatusCode, e.Endpoint, e.Message)
}

// Unwrap returns the underlying sentinel error based on status code.
func (e *APIError) Unwrap() error {
	return StatusError(e.StatusCode)
}

// StatusError maps an HTTP status code to its sentinel, or nil when the
// status has no dedicated sentinel.
func StatusError(status int) error {
	switch status {
	case 400:
		return ErrBadRequest
	case 401:
		return ErrUnauthorized
	case 403:
		return ErrForbidden
	case 404, 410:
		return ErrNotFound
	case 429:
		return ErrRateLimited
	default:
		if status >= 500 {
			return ErrServerError
		}
		return nil
	}
}

// RequestError is a transport-level failure that persisted through every
// retry attempt.
type RequestError struct {
	Service  string
	Endpoint string
	Attempts int
	Err      error
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	return fmt.Sprintf("%s request to %s failed after %d attempt(s): %v",
		e.Service, e.Endpoint, e.Attempts, e.Err)
}

// Unwrap returns ErrUnreachable and the underlying transport error.
func (e *RequestError) Unwrap() []error {
	return []error{ErrUnreachable, e.Err}
}

// AuthError represents an authentication failure.
type AuthError struct {
	// Service is the integration that failed authentication.
	Service string

	// Reason explains why authentication failed.
	Reason string
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	return fmt.Sprintf("%s authentication failed: %s", e.Service, e.Reason)
}

// Unwrap returns ErrUnauthorized.
func (e *AuthError) Unwrap() error {
	return ErrUnauthorized
}

// RateLimitError represents a rate limit being exceeded.
type RateLimitError struct {
	// Service is the integration that rate limited.
	Service string

	// RetryAfter is how long to wait before retrying.
	RetryAfter time.Duration
}

// Error implements the error interface.
func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("%s rate limit exceeded, retry after %s", e.Service, e.RetryAfter)
	}
	return fmt.Sprintf("%s rate limit exceeded", e.Service)
}

// Unwrap returns ErrRateLimited.
func (e *RateLimitError) Unwrap() error {
	return ErrRateLimited
}

// IsNotFound reports whether the error indicates a resource was not found.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsUnauthorized reports whether the error indicates authentication failed
// or the credentials were not allowed to see the resource.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrForbidden)
}

// IsRateLimited reports whether the error indicates rate limiting.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// IsUnreachable reports whether the service could not be contacted.
func IsUnreachable(err error) bool {
	return errors.Is(err, ErrUnreachable)
}

// IsRetryable reports whether the error is transient and a later scan may
// succeed.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrRateLimited) || errors.Is(err, ErrServerError) || errors.Is(err, ErrUnreachable) {
		return true
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= 500 && apiErr.StatusCode < 600
	}

	return false
}
