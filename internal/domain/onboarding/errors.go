package onboarding

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidSubmission = errors.New("invalid form submission")
	ErrNotFound          = errors.New("form not found")
	ErrUpdateDisabled    = errors.New("updating this form is disabled")
	ErrRenderTimeout     = errors.New("pdf render timed out")
)

// ValidationError names the field that made a submission invalid.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidSubmission, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidSubmission
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
