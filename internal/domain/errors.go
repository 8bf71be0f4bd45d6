package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned for a missing entity
type ErrNotFound struct {
	Entity string
	ID     string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found with ID: %s", e.Entity, e.ID)
}

// ValidationError represents an error that occurs due to invalid input or parameters
type ValidationError struct {
	Message string
}

// Error implements the error interface
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s", e.Message)
}

// NewValidationError creates a new validation error with the given message
func NewValidationError(message string) error {
	return ValidationError{
		Message: message,
	}
}

var (
	// ErrSessionNotFound is returned when an editor session expired or never existed
	ErrSessionNotFound = errors.New("editor session not found")

	// ErrPreviewReadOnly is returned for structural edits while a template is previewed
	ErrPreviewReadOnly = errors.New("editor is in preview mode")
)
