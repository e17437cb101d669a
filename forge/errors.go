package forge

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	todohttp "github.com/randalmurphal/todowatch/http"
)

// Code host errors
var (
	// ErrNotFound indicates the repository or issue does not exist, or is
	// not visible with the configured credentials.
	ErrNotFound = errors.New("issue or pull request not found")

	// ErrAuthRequired indicates credentials are missing or were rejected.
	ErrAuthRequired = errors.New("code host credentials missing or rejected")

	// ErrUnavailable indicates the code host could not answer after retries.
	ErrUnavailable = errors.New("code host unavailable")

	// ErrInvalidRef indicates a malformed issue reference.
	ErrInvalidRef = errors.New("invalid issue reference")

	// ErrUnexpectedState indicates the code host returned an unknown state.
	ErrUnexpectedState = errors.New("unexpected issue state")
)

// classify maps a failed code host call onto the forge sentinels. resp may
// be nil when the request never produced a response.
func classify(service string, ref Ref, resp *http.Response, err error, authenticated bool) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if errors.Is(err, ErrAuthRequired) {
		// Raised while obtaining credentials, before any API response.
		return fmt.Errorf("%s on %s: %w", ref, service, err)
	}

	if resp != nil {
		switch sentinel := todohttp.StatusError(resp.StatusCode); {
		case errors.Is(sentinel, todohttp.ErrNotFound):
			if !authenticated {
				return fmt.Errorf("%w: %s on %s (no token configured): %w", ErrNotFound, ref, service, err)
			}
			return fmt.Errorf("%w: %s on %s: %w", ErrNotFound, ref, service, err)
		case errors.Is(sentinel, todohttp.ErrUnauthorized), errors.Is(sentinel, todohttp.ErrForbidden):
			if isRateLimit(err) {
				break
			}
			return fmt.Errorf("%w: %s on %s: %w", ErrAuthRequired, ref, service,
				&todohttp.AuthError{Service: service, Reason: authReason(resp.StatusCode, authenticated)})
		}
	}

	return fmt.Errorf("%w: %s on %s: %w", ErrUnavailable, ref, service, err)
}

func authReason(status int, authenticated bool) string {
	if !authenticated {
		return fmt.Sprintf("status %d and no token configured", status)
	}
	return fmt.Sprintf("token rejected with status %d", status)
}
