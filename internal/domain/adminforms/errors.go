package adminforms

import "errors"

var (
	ErrNotFound    = errors.New("admin job form not found")
	ErrInvalidForm = errors.New("invalid admin job form")
)

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidForm
}
