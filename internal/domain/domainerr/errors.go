// internal/domain/domainerr/errors.go

// Package domainerr defines the error kinds every store operation can
// surface. Handlers branch on these with errors.Is / errors.As to pick an
// HTTP status; stores return them unwrapped or wrapped with %w.
package domainerr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound means a referenced entity does not exist. No state changed.
	ErrNotFound = errors.New("not found")

	// ErrInvalidState means the operation is not legal in the entity's
	// current lifecycle state (e.g. approving an already-approved member,
	// editing a form schema that already has participants).
	ErrInvalidState = errors.New("invalid state for operation")

	// ErrDeadlinePassed means a time-gated operation was attempted after
	// its cutoff.
	ErrDeadlinePassed = errors.New("deadline passed")
)

// Field validation failure reasons. These are wire-stable strings; clients
// key error rendering off them.
const (
	ReasonRequired      = "required"
	ReasonInvalidOption = "invalid_option"
	ReasonTooLong       = "too_long"
	ReasonTooMany       = "too_many"
	ReasonInvalid       = "invalid"
	ReasonDuplicate     = "duplicate"
)

// FieldError describes one invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Reason  string `json:"reason"`
	Message string `json:"message,omitempty"`
}

func (e FieldError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Field, e.Message, e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// ValidationError aggregates every field violation found in one request, so
// a caller can report all problems in a single round trip. It is only
// returned non-empty, and no state is ever applied alongside it.
type ValidationError struct {
	Errors []FieldError `json:"errors"`
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "validation failed"
	}
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Error()
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validation wraps field errors into a *ValidationError, or returns nil when
// there are none. The nil return makes "return domainerr.Validation(errs)"
// safe as the final statement of a validate step.
func Validation(errs []FieldError) error {
	if len(errs) == 0 {
		return nil
	}
	return &ValidationError{Errors: errs}
}

// Invalid is shorthand for a single-field ValidationError.
func Invalid(field, reason, message string) error {
	return &ValidationError{Errors: []FieldError{{Field: field, Reason: reason, Message: message}}}
}

// AsValidation unwraps err into a *ValidationError when it is one.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
