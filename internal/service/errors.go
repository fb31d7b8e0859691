package service

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrValidation        = errors.New("validation failed")
	ErrInvalidState      = errors.New("action not allowed in current state")
	ErrInsufficientStock = fmt.Errorf("%w: insufficient stock", ErrValidation)
)

// FieldError is a validation failure tied to input fields.
type FieldError struct {
	Fields map[string]string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(e.Fields))
}

func (e *FieldError) Unwrap() error {
	return ErrValidation
}
