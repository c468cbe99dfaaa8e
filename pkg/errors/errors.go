// Package errors carries the error taxonomy the rest of the module speaks:
// validation failures the caller can correct, lookups that found nothing,
// and internal faults nobody outside should see the details of.
package errors

import (
	"errors"
	"fmt"
)

// ErrorType partitions failures by who can act on them
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "VALIDATION"
	ErrorTypeNotFound   ErrorType = "NOT_FOUND"
	ErrorTypeInternal   ErrorType = "INTERNAL"
)

// AppError pairs a type with a message and an optional cause. The cause
// chain is preserved in full, so errors.Is and errors.As keep working on
// whatever was wrapped.
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *AppError) Error() string {
	// A nested AppError already folded its message into ours via Wrap
	var nested *AppError
	if e.Err == nil || errors.As(e.Err, &nested) {
		return fmt.Sprintf("%s: %s", e.Type, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewValidationError reports input the caller can fix
func NewValidationError(message string) error {
	return &AppError{Type: ErrorTypeValidation, Message: message}
}

// NewNotFoundError reports a lookup that matched nothing
func NewNotFoundError(message string) error {
	return &AppError{Type: ErrorTypeNotFound, Message: message}
}

// NewInternalError reports a fault in the system itself
func NewInternalError(message string, err error) error {
	return &AppError{Type: ErrorTypeInternal, Message: message, Err: err}
}

// Wrap prefixes an error with context. An already-classified error keeps
// its type no matter how deeply it sits in the chain; anything else is
// treated as internal.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return &AppError{
			Type:    appErr.Type,
			Message: fmt.Sprintf("%s: %s", message, appErr.Message),
			Err:     err,
		}
	}
	return &AppError{Type: ErrorTypeInternal, Message: message, Err: err}
}

// TypeOf classifies an error chain, returning the empty type for nil and
// for errors that never passed through this package
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ""
}

// IsValidation reports whether the chain contains a validation error
func IsValidation(err error) bool {
	return TypeOf(err) == ErrorTypeValidation
}

// IsNotFound reports whether the chain contains a not-found error
func IsNotFound(err error) bool {
	return TypeOf(err) == ErrorTypeNotFound
}

// IsInternal reports whether the chain contains an internal error
func IsInternal(err error) bool {
	return TypeOf(err) == ErrorTypeInternal
}
