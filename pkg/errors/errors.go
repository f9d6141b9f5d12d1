// Package errors provides structured error types for linkpad.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the library core and the CLI
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// The four gesture-level codes map onto the engine's failure taxonomy:
//   - GEOMETRY_DEGENERATE: a genericity check failed; the mutation was
//     rejected and no state changed
//   - INVARIANT_VIOLATION: a locked drag would have changed the crossing
//     signature; the tentative position was reverted
//   - UNSUPPORTED_CONFIGURATION: a Reidemeister move precondition failed,
//     including a move invoked on a crossing the diagram does not have;
//     the diagram is untouched
//   - STRUCTURAL_INCONSISTENCY: an operation targeted a vertex or arrow
//     that no longer exists; fatal to the current gesture
//
// # Usage
//
//	err := errors.New(errors.ErrCodeGeometryDegenerate, "vertex %d too close to arrow %d", v, a)
//	if errors.Is(err, errors.ErrCodeGeometryDegenerate) {
//	    // reject the gesture, leave the diagram alone
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Gesture-level failures surfaced by the engine.
	ErrCodeGeometryDegenerate      Code = "GEOMETRY_DEGENERATE"
	ErrCodeInvariantViolation      Code = "INVARIANT_VIOLATION"
	ErrCodeUnsupportedConfig       Code = "UNSUPPORTED_CONFIGURATION"
	ErrCodeStructuralInconsistency Code = "STRUCTURAL_INCONSISTENCY"

	// Input validation errors.
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"

	// Resource errors.
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Internal errors.
	ErrCodeInternal Code = "INTERNAL_ERROR"
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
