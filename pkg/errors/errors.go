// Package errors provides structured error types for the setplot library.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the library and CLI
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Taxonomy
//
// There are two first-class error families:
//   - Validation errors (INVALID_*): bad configuration, missing set columns,
//     out-of-range dimensions. Surfaced to the caller immediately, never retried.
//   - Coercion errors (COERCION): input cell values that cannot be interpreted
//     as set membership. Surfaced immediately with column and value context.
//
// Errors originating in external collaborators (the dataframe library, the
// vl-convert binary) are passed through unwrapped so callers can diagnose them
// against those projects' own documentation.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidSets, "unknown set column %q", name)
//	if errors.Is(err, errors.ErrCodeInvalidSets) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInternal, origErr, "writing %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput      Code = "INVALID_INPUT"
	ErrCodeInvalidSets       Code = "INVALID_SETS"
	ErrCodeInvalidConfig     Code = "INVALID_CONFIG"
	ErrCodeInvalidDimensions Code = "INVALID_DIMENSIONS"
	ErrCodeInvalidFormat     Code = "INVALID_FORMAT"
	ErrCodeInvalidTheme      Code = "INVALID_THEME"
	ErrCodeInvalidAnnotation Code = "INVALID_ANNOTATION"

	// Type coercion errors
	ErrCodeCoercion Code = "COERCION"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// External tooling errors
	ErrCodeConverter Code = "CONVERTER_ERROR"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// IsValidation reports whether err belongs to the validation family
// (any INVALID_* code).
func IsValidation(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	switch e.Code {
	case ErrCodeInvalidInput, ErrCodeInvalidSets, ErrCodeInvalidConfig,
		ErrCodeInvalidDimensions, ErrCodeInvalidFormat, ErrCodeInvalidTheme,
		ErrCodeInvalidAnnotation:
		return true
	}
	return false
}

// IsCoercion reports whether err is a type coercion error.
func IsCoercion(err error) bool {
	return Is(err, ErrCodeCoercion)
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
