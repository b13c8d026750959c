package research

import (
	"errors"
	"fmt"
)

// Sentinel errors for the research provider boundary. Callers check these
// with errors.Is; wrapped context travels via fmt.Errorf + %w.
var (
	// ErrUpstreamUnavailable indicates a network or transport failure
	// before any HTTP status was received.
	ErrUpstreamUnavailable = errors.New("research provider unavailable")

	// ErrTruncatedResponse indicates the provider cut its output short.
	// Truncated text must never be parsed.
	ErrTruncatedResponse = errors.New("response was truncated due to length limits")

	// ErrEmptyResponse indicates the provider returned no choices.
	ErrEmptyResponse = errors.New("empty response from research provider")
)

// UpstreamError is a non-success HTTP status from the provider, with the
// response body preserved for diagnostics.
type UpstreamError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface
func (e *UpstreamError) Error() string {
	return fmt.Sprintf("research request failed with status %d: %s", e.StatusCode, e.Body)
}
