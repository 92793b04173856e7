// Package client provides the structured JSON output of the CLI. Every command
// run with --output json writes exactly one envelope to stdout.
package client

import (
	"encoding/json"
	"errors"
	"io"
	"time"
)

// Output formats accepted by --output.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// ErrInvalidFormat is returned for an unknown --output value.
var ErrInvalidFormat = errors.New("output format must be text or json")

// Response is the JSON envelope for command output. Data and Error are
// mutually exclusive.
type Response struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     *Error      `json:"error,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Error is the machine-readable failure carried by a Response.
type Error struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// ValidateFormat checks an --output value.
func ValidateFormat(format string) error {
	switch format {
	case FormatText, FormatJSON:
		return nil
	default:
		return ErrInvalidFormat
	}
}

// WriteSuccess writes a success envelope around data.
func WriteSuccess(w io.Writer, data interface{}) error {
	return writeResponse(w, Response{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC(),
	})
}

// WriteError writes a failure envelope.
func WriteError(w io.Writer, code, message string, details interface{}) error {
	return writeResponse(w, Response{
		Success: false,
		Error: &Error{
			Code:    code,
			Message: message,
			Details: details,
		},
		Timestamp: time.Now().UTC(),
	})
}

// WriteFailure classifies err and writes it as a failure envelope.
func WriteFailure(w io.Writer, err error) error {
	return WriteError(w, ErrorCode(err), err.Error(), errorDetails(err))
}

func writeResponse(w io.Writer, response Response) error {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	return encoder.Encode(response)
}
