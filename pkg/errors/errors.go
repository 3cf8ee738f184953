// Package errors provides structured error types for schedulator.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and the HTTP API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages naming the offending task
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - *_NOT_FOUND: Resource not found
//   - Graph codes (DUPLICATE_TASK, UNKNOWN_PREDECESSOR, CYCLE): structural problems
//   - INTERNAL_*: Unexpected internal errors
//
// # Domain Errors
//
// The scheduling core reports structural problems with typed errors
// ([DuplicateTaskError], [InvalidWeightError], [UnknownPredecessorError],
// [CycleError], [InconsistentGraphError]). Each implements Code so that
// [GetCode] and [Is] work uniformly across typed and generic errors:
//
//	var dup *errors.DuplicateTaskError
//	if stderrors.As(err, &dup) {
//	    fmt.Println("redefined:", dup.ID)
//	}
//	if errors.Is(err, errors.ErrCodeCycle) {
//	    // handle cycle
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
	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"
	ErrCodeInvalidTask   Code = "INVALID_TASK"
	ErrCodeInvalidWeight Code = "INVALID_WEIGHT"

	// Graph structure errors
	ErrCodeDuplicateTask      Code = "DUPLICATE_TASK"
	ErrCodeUnknownPredecessor Code = "UNKNOWN_PREDECESSOR"
	ErrCodeCycle              Code = "CYCLE"
	ErrCodeInconsistentGraph  Code = "INCONSISTENT_GRAPH"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// coder is implemented by typed errors that carry a code.
type coder interface {
	Code() Code
}

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

// Is reports whether the outermost coded error in err's chain has the given code.
// Both *Error values and typed domain errors are considered.
func Is(err error, code Code) bool {
	return GetCode(err) == code
}

// GetCode extracts the error code from an error, if available.
// The first coded error found while unwrapping wins.
// Returns empty string if no error in the chain carries a code.
func GetCode(err error) Code {
	for err != nil {
		switch e := err.(type) {
		case *Error:
			return e.Code
		case coder:
			return e.Code()
		}
		err = errors.Unwrap(err)
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
