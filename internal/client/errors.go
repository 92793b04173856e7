package client

import (
	"codycli/internal/adapter/outbound/sourcegraph"
	"codycli/internal/application/common"
	"context"
	"errors"
	"net"
	"net/http"
)

// Error codes reported in the JSON envelope.
const (
	CodeInvalidArgument   = "INVALID_ARGUMENT"
	CodeInvalidConfig     = "INVALID_CONFIG"
	CodeAuthError         = "AUTH_ERROR"
	CodeNotFound          = "NOT_FOUND"
	CodeServerError       = "SERVER_ERROR"
	CodeAPIError          = "API_ERROR"
	CodeMalformedResponse = "MALFORMED_RESPONSE"
	CodeConnectionError   = "CONNECTION_ERROR"
	CodeTimeoutError      = "TIMEOUT_ERROR"
	CodeInternalError     = "INTERNAL_ERROR"
)

// ConfigError marks a failure to load or validate configuration.
type ConfigError struct {
	Err error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// ErrorCode classifies err into one of the Code constants.
func ErrorCode(err error) string {
	var (
		validationErr common.ValidationError
		configErr     *ConfigError
		apiErr        *sourcegraph.APIError
		netErr        net.Error
	)

	switch {
	case errors.As(err, &validationErr):
		return CodeInvalidArgument
	case errors.As(err, &configErr), errors.Is(err, sourcegraph.ErrInvalidHeaderValue):
		return CodeInvalidConfig
	case errors.Is(err, sourcegraph.ErrMalformedResponse):
		return CodeMalformedResponse
	case errors.As(err, &apiErr):
		return apiErrorCode(apiErr)
	case errors.Is(err, context.DeadlineExceeded):
		return CodeTimeoutError
	case errors.As(err, &netErr):
		if netErr.Timeout() {
			return CodeTimeoutError
		}
		return CodeConnectionError
	default:
		return CodeInternalError
	}
}

func apiErrorCode(err *sourcegraph.APIError) string {
	switch {
	case err.IsAuthError():
		return CodeAuthError
	case err.StatusCode == http.StatusNotFound:
		return CodeNotFound
	case err.StatusCode >= http.StatusInternalServerError:
		return CodeServerError
	default:
		return CodeAPIError
	}
}

func errorDetails(err error) interface{} {
	var apiErr *sourcegraph.APIError
	if errors.As(err, &apiErr) {
		return map[string]interface{}{
			"operation":   apiErr.Operation,
			"status_code": apiErr.StatusCode,
		}
	}
	return nil
}
