package errors

import (
	"errors"
	"fmt"
)

// Standard error types
var (
	ErrNotFound      = errors.New("resource not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrConflict      = errors.New("resource conflict")
	ErrConfigMissing = errors.New("configuration or database file not found")
	ErrInternal      = errors.New("internal error")
)

// AppError represents an application error with context
type AppError struct {
	Err     error  `json:"-"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError
func New(code string, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, code string, message string) *AppError {
	return &AppError{
		Err:     err,
		Code:    code,
		Message: message,
	}
}

// Common error constructors

func NotFound(resource string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s not found", resource),
	}
}

func InvalidInput(message string) *AppError {
	return &AppError{
		Err:     ErrInvalidInput,
		Code:    "INVALID_INPUT",
		Message: message,
	}
}

func Conflict(message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Code:    "CONFLICT",
		Message: message,
	}
}

// ConfigMissing marks a missing settings or database file. The CLI reports
// these separately from generic report failures.
func ConfigMissing(path string) *AppError {
	return &AppError{
		Err:     ErrConfigMissing,
		Code:    "CONFIG_MISSING",
		Message: fmt.Sprintf("configuration or database file not found: %s", path),
	}
}

func Internal(message string) *AppError {
	return &AppError{
		Err:     ErrInternal,
		Code:    "INTERNAL_ERROR",
		Message: message,
	}
}

// Is checks if the error matches a target error
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As attempts to convert an error to a specific type
func As(err error, target any) bool {
	return errors.As(err, target)
}
