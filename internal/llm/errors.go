package llm

import (
	"errors"
	"fmt"
	"time"
)

// ErrMissingAPIKey marks the precondition failure of constructing a request
// without a credential. It is never retried.
var ErrMissingAPIKey = errors.New("llm: API key is required")

// ErrMaxRetries marks a request abandoned after the configured number of
// throttled retries.
var ErrMaxRetries = errors.New("llm: maximum retries reached")

// AuthError is a terminal credential rejection (HTTP 401). Callers should
// invalidate any stored credential.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("llm: invalid credential: %s", e.Message)
}

// ThrottleError is a provider-side rejection for exceeding call-rate limits
// (HTTP 429). RetryAfter carries the server-requested delay.
type ThrottleError struct {
	RetryAfter time.Duration
}

func (e *ThrottleError) Error() string {
	return fmt.Sprintf("llm: throttled, retry after %s", e.RetryAfter)
}

// APIError is any other non-2xx upstream response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("llm: API error (status %d): %s", e.Status, e.Message)
}
