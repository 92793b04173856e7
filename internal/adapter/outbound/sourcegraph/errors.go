package sourcegraph

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors returned by the adapter.
var (
	// ErrMalformedResponse is returned when a success response lacks a required field.
	ErrMalformedResponse = errors.New("malformed response")
	// ErrInvalidHeaderValue is returned when a header value cannot be sent on the wire.
	ErrInvalidHeaderValue = errors.New("invalid header value")
	// ErrNoRepositoryNames is returned when a lookup is attempted with no names.
	ErrNoRepositoryNames = errors.New("no repository names to resolve")
	// ErrModelsUnavailable is returned when no models URL is configured.
	ErrModelsUnavailable = errors.New("models URL is not configured")
)

// maxErrorBodySnippet bounds how much of an error response body is kept.
const maxErrorBodySnippet = 512

// APIError is returned for a non-success status on calls that do not degrade.
type APIError struct {
	Operation  string
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	msg := fmt.Sprintf("%s: API request failed: %d %s", e.Operation, e.StatusCode, http.StatusText(e.StatusCode))
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// IsAuthError reports whether the instance rejected the access token.
func (e *APIError) IsAuthError() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

func malformed(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrMalformedResponse, fmt.Sprintf(format, args...))
}
