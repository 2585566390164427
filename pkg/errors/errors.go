// Package errors provides structured error types for gridplot.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the library, CLI and serve surface
//   - Machine-readable error codes for programmatic handling
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Configuration rejected before any work starts
//   - RENDER_*: A cell's preprocess or render callback failed
//   - RESOURCE_*: The artifact store could not be created or released
//   - ARTIFACT_*: Internal consistency failures around stored artifacts
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidShape, "grid must have positive dimensions, got %s", shape)
//	if errors.Is(err, errors.ErrCodeInvalidShape) {
//	    // Handle configuration error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeResource, origErr, "open cache %s", dir)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Configuration errors, rejected before any worker is started
	ErrCodeInvalidShape    Code = "INVALID_SHAPE"
	ErrCodeInvalidCellSize Code = "INVALID_CELL_SIZE"
	ErrCodeInvalidTotal    Code = "INVALID_TOTAL"
	ErrCodeInvalidLabels   Code = "INVALID_LABELS"
	ErrCodeInvalidOrder    Code = "INVALID_ORDER"
	ErrCodeInvalidInput    Code = "INVALID_INPUT"

	// Worker errors
	ErrCodeRenderFailed Code = "RENDER_FAILED"

	// Artifact store errors
	ErrCodeResource         Code = "RESOURCE_ERROR"
	ErrCodeArtifactNotFound Code = "ARTIFACT_NOT_FOUND"

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

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
// RenderError values report ErrCodeRenderFailed.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	if code == ErrCodeRenderFailed {
		var re *RenderError
		return errors.As(err, &re)
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error carries no code.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var re *RenderError
	if errors.As(err, &re) {
		return ErrCodeRenderFailed
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

// RenderError reports that the preprocess or render callback failed for one
// cell. The index identifies which task failed; failed tasks are never
// retried.
type RenderError struct {
	Index int
	Cause error
}

// Error implements the error interface.
func (e *RenderError) Error() string {
	return fmt.Sprintf("render cell %d: %v", e.Index, e.Cause)
}

// Unwrap returns the callback's error.
func (e *RenderError) Unwrap() error {
	return e.Cause
}

// AsRenderError extracts a RenderError from an error chain.
func AsRenderError(err error) (*RenderError, bool) {
	var re *RenderError
	ok := errors.As(err, &re)
	return re, ok
}
