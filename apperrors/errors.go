package apperrors

import (
	"errors"
	"fmt"
)

// Machine-readable error codes surfaced to callers.
const (
	CodeValidation = "VALIDATION"
	CodeNotFound   = "NOT_FOUND"
	CodeConflict   = "CONFLICT"
	CodeStoreError = "STORE_ERROR"
)

// AppError is the single failure shape every component returns: a stable
// code, a user-facing message, and an optional wrapped cause that is only
// shown in development mode.
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func Validation(format string, args ...interface{}) *AppError {
	return &AppError{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...interface{}) *AppError {
	return &AppError{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...interface{}) *AppError {
	return &AppError{Code: CodeConflict, Message: fmt.Sprintf(format, args...)}
}

// Store wraps a document-store failure with a caller-supplied description.
// The wrapped error stays diagnosable via Unwrap but is never sent to end
// users outside development mode.
func Store(err error, format string, args ...interface{}) *AppError {
	return &AppError{Code: CodeStoreError, Message: fmt.Sprintf(format, args...), Err: err}
}

// From extracts an *AppError from err, or wraps err as a store error when it
// carries no code of its own.
func From(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{Code: CodeStoreError, Message: "internal error", Err: err}
}

// Is reports whether err carries the given code.
func Is(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}
