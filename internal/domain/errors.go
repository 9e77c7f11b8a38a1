package entity

import (
	"errors"
	"fmt"
)

var (
	ErrOfferNotFound = errors.New("offer not found")
	ErrUserNotFound  = errors.New("user not found")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden: you are not the owner of this offer")
)

// ValidationError reports the first rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// UploadError wraps a failed media store call. Op is upload or delete.
type UploadError struct {
	Op  string
	Err error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("media %s failed: %v", e.Op, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}
