package store

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Sentinel errors for the whole store layer. Handlers map these to HTTP
// status codes exactly once, in the API package.
var (
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrValidation        = errors.New("validation failed")
	ErrInvalidTransition = errors.New("illegal status transition")
)

// translateNotFound converts gorm.ErrRecordNotFound into ErrNotFound with a
// description of what was looked up; other errors pass through unchanged.
func translateNotFound(err error, format string, args ...any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrNotFound)
	}
	return err
}

// validationErr wraps a field-level complaint in ErrValidation.
func validationErr(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrValidation)
}
