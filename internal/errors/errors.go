// Package errors provides error code definitions for Go-host boundary bridging.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a unique error code that can be bridged to the host app.
type ErrorCode string

const (
	// General errors
	ErrInternal    ErrorCode = "INTERNAL_ERROR"
	ErrInvalid     ErrorCode = "INVALID_INPUT"
	ErrNotFound    ErrorCode = "NOT_FOUND"
	ErrPermission  ErrorCode = "PERMISSION_DENIED"
	ErrCancelled   ErrorCode = "CANCELLED"
	ErrUnavailable ErrorCode = "UNAVAILABLE"

	// Notebook errors
	ErrNotebookNotFound ErrorCode = "NOTEBOOK_NOT_FOUND"
	ErrNoteNotFound     ErrorCode = "NOTE_NOT_FOUND"

	// Storage errors
	ErrStorageRead  ErrorCode = "STORAGE_READ_FAILED"
	ErrStorageWrite ErrorCode = "STORAGE_WRITE_FAILED"
	ErrCorruptState ErrorCode = "CORRUPT_STATE"
	ErrDatabase     ErrorCode = "DATABASE_ERROR"
	ErrMigration    ErrorCode = "MIGRATION_FAILED"

	// Media errors
	ErrImageInvalid ErrorCode = "IMAGE_INVALID"
)

// AppError represents an application error with code and message.
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new AppError with a formatted message.
func Newf(code ErrorCode, format string, args ...interface{}) *AppError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps an existing error with an error code.
func Wrap(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Is checks if an error, or any error it wraps, carries a specific code.
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// CodeOf returns the code of the outermost AppError in err's chain.
// Plain errors map to ErrInternal; nil maps to the empty code.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrInternal
}

// MessageOf returns the user-facing message of err.
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
