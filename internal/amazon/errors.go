package amazon

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced by the Amazon API client. Callers match them with
// errors.Is and decide whether a run can continue.
var (
	// ErrConfiguration means API credentials are missing or invalid. Fatal, never retried.
	ErrConfiguration = errors.New("amazon api credentials not configured")
	// ErrUnauthorized is a 401 response, surfaced immediately.
	ErrUnauthorized = errors.New("amazon api unauthorized")
	// ErrRateLimited is a 429 that persisted after the client's single internal retry.
	ErrRateLimited = errors.New("amazon api rate limited")
	// ErrServer is a 5xx response, surfaced without retry.
	ErrServer = errors.New("amazon api server error")
)

// APIError carries the HTTP status and response body of a failed call
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("amazon api returned status %d: %s", e.StatusCode, e.Body)
}

// wrapStatus maps an HTTP status to its sentinel, keeping the APIError in the chain
func wrapStatus(status int, body string) error {
	apiErr := &APIError{StatusCode: status, Body: body}
	switch {
	case status == 401:
		return fmt.Errorf("%w: %w", ErrUnauthorized, apiErr)
	case status == 429:
		return fmt.Errorf("%w: %w", ErrRateLimited, apiErr)
	case status >= 500:
		return fmt.Errorf("%w: %w", ErrServer, apiErr)
	default:
		return apiErr
	}
}
