// Package errors provides structured error and warning types for opentestability.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI, API and library packages
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Recoverable warnings reported next to results instead of failing a run
//
// # Error Codes
//
// Fatal codes stop the operation that produced them:
//   - FORMAT_ERROR: malformed gate record, vector range or input file
//   - NON_CONVERGENCE: a relaxation exceeded its sweep cap
//   - INVALID_INPUT: option or argument validation failures
//
// Warning codes are carried by [Warning] values:
//   - UNDEFINED_NET: a gate references a net nothing declares or drives
//   - CYCLE_DETECTED: edges were removed to make the dependency graph acyclic
//   - UNCONTROLLABLE_NET, UNOBSERVABLE_NET: metrics left unbounded
//
// # Usage
//
//	err := errors.New(errors.ErrCodeFormat, "gate %d has no output", i)
//	if errors.Is(err, errors.ErrCodeFormat) {
//	    // Handle malformed input
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeFileNotFound, origErr, "open %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input errors
	ErrCodeInvalidInput Code = "INVALID_INPUT"
	ErrCodeFormat       Code = "FORMAT_ERROR"
	ErrCodeInvalidPath  Code = "INVALID_PATH"

	// Analysis conditions
	ErrCodeUndefinedNet     Code = "UNDEFINED_NET"
	ErrCodeCycleDetected    Code = "CYCLE_DETECTED"
	ErrCodeNonConvergence   Code = "NON_CONVERGENCE"
	ErrCodeUncontrollable   Code = "UNCONTROLLABLE_NET"
	ErrCodeUnobservable     Code = "UNOBSERVABLE_NET"
	ErrCodePreconditionFail Code = "PRECONDITION_FAILED"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

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

// Warning is a recoverable condition reported alongside results.
//
// Subject names what the warning is about, usually a net. It may be
// empty for warnings that concern the whole design.
type Warning struct {
	Code    Code   `json:"code"`
	Subject string `json:"subject,omitempty"`
	Message string `json:"message"`
}

// Warn creates a Warning with a formatted message.
func Warn(code Code, subject, format string, args ...any) Warning {
	return Warning{
		Code:    code,
		Subject: subject,
		Message: fmt.Sprintf(format, args...),
	}
}

// String formats the warning as "CODE: subject: message".
func (w Warning) String() string {
	if w.Subject != "" {
		return fmt.Sprintf("%s: %s: %s", w.Code, w.Subject, w.Message)
	}
	return fmt.Sprintf("%s: %s", w.Code, w.Message)
}

// CountByCode tallies warnings per code.
func CountByCode(ws []Warning) map[Code]int {
	counts := make(map[Code]int)
	for _, w := range ws {
		counts[w.Code]++
	}
	return counts
}

// NonConvergenceError reports a relaxation that was still changing values
// when it reached its sweep cap.
type NonConvergenceError struct {
	Engine  string // "controllability" or "observability"
	Sweeps  int    // Sweeps performed before giving up
	Pending int    // Values updated by the final sweep
}

// Error implements the error interface.
func (e *NonConvergenceError) Error() string {
	return fmt.Sprintf("%s did not converge after %d sweeps (%d updates pending)", e.Engine, e.Sweeps, e.Pending)
}

// Code returns the error code for this error type.
func (e *NonConvergenceError) Code() Code {
	return ErrCodeNonConvergence
}
