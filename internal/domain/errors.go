package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks user-correctable input errors. Use errors.Is to detect it.
	ErrValidation = errors.New("validation failed")

	// ErrConflict means the short code or username is already in use
	ErrConflict = errors.New("already in use")

	// ErrNotFound means no visible link exists for the short code
	ErrNotFound = errors.New("short code not found")

	// ErrExpired means the link exists but is past its expiry
	ErrExpired = errors.New("link expired")

	// ErrExhaustedRetries means random generation found no free code within the attempt bound
	ErrExhaustedRetries = errors.New("exhausted short code generation attempts")

	// ErrInvalidCredentials means the username or password did not match
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnauthorized means the operation requires a logged in user
	ErrUnauthorized = errors.New("login required")
)

// ValidationError describes a rejected input field
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Is makes errors.Is(err, ErrValidation) true for every ValidationError
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError creates a ValidationError for field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
