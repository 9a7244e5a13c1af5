// trustcall-directory-service/internal/domain/errors.go
package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation matches every *ValidationError through errors.Is.
	ErrValidation = errors.New("validation failed")

	// ErrDuplicateReport: the reporter already reported this phone number.
	ErrDuplicateReport = errors.New("phone number already reported by this reporter")

	// ErrDuplicateContact: the owner already has a contact entry for this phone number.
	ErrDuplicateContact = errors.New("contact entry already exists for this owner and phone number")
)

// ValidationError rejects malformed or missing input before any store access.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError builds a ValidationError for field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}
