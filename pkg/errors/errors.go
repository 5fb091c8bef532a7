// Package errors provides structured error types for docgraph.
//
// This package defines error codes and types that enable:
//   - Separating usage/configuration failures from I/O failures
//   - Machine-readable error codes for exit-status mapping
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// Broken documentation (missing files, missing anchors, orphans) is never an
// error: it is reported as findings. Only configuration contradictions and
// I/O or parse failures on files the builder believed existed travel as
// errors.
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input or configuration validation failures
//   - ENTRYPOINT_*: Entry point contradictions
//   - FILE_* / PARSE: I/O and parsing failures
//   - INTERNAL: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidConfig, "unknown policy: %s", p)
//	if errors.IsUsage(err) {
//	    // exit 2
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeFileRead, origErr, "read %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Usage and configuration errors
	ErrCodeInvalidInput       Code = "INVALID_INPUT"
	ErrCodeInvalidConfig      Code = "INVALID_CONFIG"
	ErrCodeEntryOutOfScope    Code = "ENTRYPOINT_OUT_OF_SCOPE"
	ErrCodeInvalidPolicy      Code = "INVALID_POLICY"
	ErrCodeNoEntrypoints      Code = "NO_ENTRYPOINTS"
	ErrCodeEntrypointNotFound Code = "ENTRYPOINT_NOT_FOUND"

	// I/O errors
	ErrCodeFileRead Code = "FILE_READ"
	ErrCodeParse    Code = "PARSE"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// usageCodes are the codes that indicate the caller asked for something
// contradictory rather than the tool failing.
var usageCodes = map[Code]bool{
	ErrCodeInvalidInput:       true,
	ErrCodeInvalidConfig:      true,
	ErrCodeEntryOutOfScope:    true,
	ErrCodeInvalidPolicy:      true,
	ErrCodeNoEntrypoints:      true,
	ErrCodeEntrypointNotFound: true,
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

// IsUsage reports whether err is a usage or configuration error.
// The CLI maps these to a distinct exit status.
func IsUsage(err error) bool {
	return usageCodes[GetCode(err)]
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Cause)
		}
		return e.Message
	}
	return err.Error()
}
