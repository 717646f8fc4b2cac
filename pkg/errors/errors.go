// Package errors provides structured error types for sketchreveal.
//
// Every failure a user action can hit belongs to one of four categories:
//
//   - CONFIGURATION: missing or invalid provider credentials
//   - NETWORK_ERROR: non-2xx HTTP responses or transport failures
//   - CONTENT: an LLM response without extractable, valid SVG
//   - INVALID_INPUT / EMPTY_INPUT: bad prompts or SVG documents
//
// None of them is fatal. The application layer turns them into user-facing
// notifications at the boundary of the action that produced them.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidInput, "no paths found")
//	if errors.IsInputValidation(err) {
//	    // warn the user
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeNetwork, origErr, "request to %s failed", url)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for the failure taxonomy.
const (
	// Provider credentials
	ErrCodeConfiguration Code = "CONFIGURATION"

	// Transport
	ErrCodeNetwork Code = "NETWORK_ERROR"
	ErrCodeTimeout Code = "TIMEOUT"

	// LLM output
	ErrCodeContent Code = "CONTENT"

	// User input
	ErrCodeEmptyInput   Code = "EMPTY_INPUT"
	ErrCodeInvalidInput Code = "INVALID_INPUT"

	// Internal errors
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

// Is reports whether the outermost *Error in err's chain has the given code.
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

// IsInputValidation reports whether err was caused by user input.
func IsInputValidation(err error) bool {
	switch GetCode(err) {
	case ErrCodeEmptyInput, ErrCodeInvalidInput:
		return true
	}
	return false
}

// IsNetwork reports whether err is a transport or HTTP status failure.
func IsNetwork(err error) bool {
	switch GetCode(err) {
	case ErrCodeNetwork, ErrCodeTimeout:
		return true
	}
	return false
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
