package common

import (
	"fmt"
	"strings"
	"unicode"
)

// maxRepositoryNameLength bounds a single --context-repo value.
const maxRepositoryNameLength = 255

// ValidationError represents a validation error with field details
type ValidationError struct {
	Field   string
	Message string
	Value   string
}

// Error implements the error interface
func (e ValidationError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("validation error on field '%s': %s (value: %s)", e.Field, e.Message, e.Value)
	}
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// NewValidationError creates a validation error without a value.
func NewValidationError(field, message string) ValidationError {
	return ValidationError{Field: field, Message: message}
}

// ValidateQuery validates the user query.
func ValidateQuery(query string) error {
	if strings.TrimSpace(query) == "" {
		return NewValidationError("message", "message is required")
	}
	return nil
}

// ValidateRepositoryNames validates each repository name used for context.
func ValidateRepositoryNames(names []string) error {
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			return NewValidationError("context-repo", "repository name cannot be empty")
		}
		if len(name) > maxRepositoryNameLength {
			return ValidationError{Field: "context-repo", Message: "exceeds maximum length", Value: name[:32] + "..."}
		}
		if ContainsControlCharacters(name) {
			return ValidationError{Field: "context-repo", Message: "contains control characters", Value: name}
		}
	}
	return nil
}

// ContainsControlCharacters reports whether input has any control character other than tab.
func ContainsControlCharacters(input string) bool {
	for _, r := range input {
		if unicode.IsControl(r) && r != '\t' {
			return true
		}
	}
	return false
}
