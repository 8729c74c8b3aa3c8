package menu

import (
	"errors"
	"strings"
)

// Domain errors.
var (
	// ErrNotFound indicates a referenced group or page does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates a field or tree rule failed.
	ErrValidation = errors.New("validation error")
)

// ValidationError carries the violations that rejected an edit or a tree.
type ValidationError struct {
	Violations []Violation
}

// Error joins the violation messages.
func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.String()
	}
	return "validation error: " + strings.Join(msgs, "; ")
}

// Unwrap returns ErrValidation for errors.Is compatibility.
func (e *ValidationError) Unwrap() error { return ErrValidation }

// Messages returns the bare violation messages in order.
func (e *ValidationError) Messages() []string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.Message
	}
	return msgs
}

// NewValidationError returns a *ValidationError, or nil when there are no
// violations.
func NewValidationError(violations []Violation) error {
	if len(violations) == 0 {
		return nil
	}
	return &ValidationError{Violations: violations}
}
