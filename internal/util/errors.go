package util

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors shared by services and handlers.
var (
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation error")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrConflict        = errors.New("conflict")
)

// FieldError describes a validation error for a specific form field.
// An empty Field marks an error that belongs to the form as a whole.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		if e.Errors[0].Field == "" {
			return "validation: " + e.Errors[0].Message
		}
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Add appends an error for field.
func (e *ValidationError) Add(field, message string) {
	e.Errors = append(e.Errors, FieldError{Field: field, Message: message})
}

// Field joins the messages recorded for field, or returns "".
func (e *ValidationError) Field(field string) string {
	if e == nil {
		return ""
	}
	var msgs []string
	for _, fe := range e.Errors {
		if fe.Field == field {
			msgs = append(msgs, fe.Message)
		}
	}
	return strings.Join(msgs, " ")
}

// NonField returns the messages not tied to a field.
func (e *ValidationError) NonField() string {
	return e.Field("")
}

// OrNil returns e when it holds at least one error, nil otherwise.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Errors) == 0 {
		return nil
	}
	return e
}

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// AsValidation extracts a *ValidationError from err.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
