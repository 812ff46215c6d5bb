package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Common errors
var (
	ErrNotFound  = errors.New("not found")
	ErrInvalidID = errors.New("invalid object id")
)

// Validation error locations, mirrored in the 422 response body.
const (
	LocationJSON  = "json"
	LocationQuery = "query"
)

// ValidationError groups field level messages by request location.
type ValidationError struct {
	Location string
	Fields   map[string][]string
}

func NewValidationError(location string) *ValidationError {
	return &ValidationError{
		Location: location,
		Fields:   make(map[string][]string),
	}
}

// Add records a message for field. "_schema" is used for cross-field failures.
func (e *ValidationError) Add(field, message string) *ValidationError {
	e.Fields[field] = append(e.Fields[field], message)
	return e
}

func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(e.Fields[k], ", ")))
	}
	return fmt.Sprintf("invalid %s: %s", e.Location, strings.Join(parts, "; "))
}

// IsValidationError reports whether err wraps a *ValidationError.
func IsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
