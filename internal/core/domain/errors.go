package domain

import (
	"errors"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrNotFound           = errors.New("not found")

	ErrMissingToken   = errors.New("no token provided")
	ErrExpiredToken   = errors.New("token expired")
	ErrMalformedToken = errors.New("invalid token")
	ErrUserNotFound   = errors.New("token user not found")
	ErrTokenRevoked   = errors.New("token revoked")
)

// ValidationError reports the first offending field of a rejected input.
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// IsAuthError reports whether err is one of the access control failures.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrMissingToken) ||
		errors.Is(err, ErrExpiredToken) ||
		errors.Is(err, ErrMalformedToken) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrTokenRevoked)
}
