// Package apperrors defines the coded error taxonomy of the deployment
// engine. Callers branch on the stable Code, not on message text.
package apperrors

import (
	"errors"
	"fmt"
)

// Code identifies an error category with a stable, machine-readable value
type Code string

const (
	CodeValidation                Code = "VALIDATION_ERROR"
	CodeNotFound                  Code = "NOT_FOUND"
	CodeDuplicateAssignment       Code = "DUPLICATE_ASSIGNMENT"
	CodeCapacityExceeded          Code = "CAPACITY_EXCEEDED"
	CodeInvalidState              Code = "INVALID_STATE"
	CodeUpstreamDependencyMissing Code = "UPSTREAM_DEPENDENCY_MISSING"
	CodeInternal                  Code = "INTERNAL"
)

// Error is a coded error. Err, when set, is the wrapped cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// E creates a coded error with a formatted message.
func E(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a coded error around a cause.
func Wrap(code Code, err error, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Err: err}
}

// CodeOf extracts the code from err, unwrapping as needed. Uncoded errors
// report CodeInternal.
func CodeOf(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	return CodeOf(err) == code
}
