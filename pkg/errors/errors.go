// Package errors provides structured error types for gcad.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the solver, CLI and HTTP API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Solver failures have dedicated codes:
//   - UNDERCONSTRAINED_FROM_ROOT: the ordering pass stalled; retrying with a
//     different root may succeed
//   - OVERCONSTRAINED: the backtracking search exhausted every candidate
//   - UNSUPPORTED_LOCUS_PAIR: an internal geometric combination outside the
//     supported table was requested (a programming error)
//
// Other codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - *_NOT_FOUND: Resource not found
//   - NETWORK_*: Network-related errors (cache backends)
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidFigure, "angle %s has no measure", id)
//	if errors.Is(err, errors.ErrCodeOverconstrained) {
//	    // Handle unsolvable figure
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeNetwork, origErr, "failed to reach %s", addr)
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Solver taxonomy
	ErrCodeUnderconstrained Code = "UNDERCONSTRAINED_FROM_ROOT"
	ErrCodeOverconstrained  Code = "OVERCONSTRAINED"
	ErrCodeUnsupportedLocus Code = "UNSUPPORTED_LOCUS_PAIR"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFigure Code = "INVALID_FIGURE"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeUnknownPoint Code = "UNKNOWN_POINT"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Network errors
	ErrCodeNetwork Code = "NETWORK_ERROR"
	ErrCodeTimeout Code = "TIMEOUT"

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

// StalledError describes where the ordering pass stopped when a figure is
// underconstrained from the chosen root. It is attached as the cause of an
// ErrCodeUnderconstrained error so callers can pick another root.
type StalledError struct {
	Root    string   // Root the ordering started from
	Path    []string // Points fixed before the pass stalled, in order
	Last    string   // Last point processed
	Unfixed []string // Points that could not be fixed
}

// Error implements the error interface.
func (e *StalledError) Error() string {
	return fmt.Sprintf("stalled after [%s] at %s; unfixed: [%s]",
		strings.Join(e.Path, " "), e.Last, strings.Join(e.Unfixed, " "))
}

// Code returns the error code for this error type.
func (e *StalledError) Code() Code {
	return ErrCodeUnderconstrained
}
