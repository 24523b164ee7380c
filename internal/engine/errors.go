package engine

import (
	"fmt"
	"strings"
)

// ValidationError collects every problem found in a comparison request.
// It is returned before any scoring happens, so a failed request never
// produces a partial result.
type ValidationError struct {
	Entity string
	Errors []string
}

// NewValidationError creates an empty ValidationError for the given entity.
func NewValidationError(entity string) *ValidationError {
	return &ValidationError{Entity: entity}
}

// AddError appends one problem description.
func (e *ValidationError) AddError(msg string) {
	e.Errors = append(e.Errors, msg)
}

// HasErrors reports whether any problem was recorded.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Entity, strings.Join(e.Errors, "; "))
}

// ConfigurationError marks a malformed weight vector or tunables set.
// It is distinct from ValidationError: the request may be fine, the
// engine configuration is not.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}
