// Package apperr defines the domain error taxonomy. Rule violations are
// returned as *Error values with a Code; anything else reaching a caller is an
// infrastructure failure (storage, network) and may be retried.
package apperr

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error code.
type Code string

const (
	CodeInvalidProposal   Code = "INVALID_PROPOSAL"
	CodeItemUnavailable   Code = "ITEM_UNAVAILABLE"
	CodeUnauthorized      Code = "UNAUTHORIZED"
	CodeInvalidTransition Code = "INVALID_TRANSITION"
	CodeEmptyMessage      Code = "EMPTY_MESSAGE"
	CodeNotFound          Code = "NOT_FOUND"
	CodeInvalidInput      Code = "INVALID_INPUT"
	CodeConflict          Code = "CONFLICT"
)

// Error is a domain rule violation.
type Error struct {
	Code    Code
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// New creates a new Error.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates a new Error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Is checks if err (or anything it wraps) is a domain error with the given code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// IsDomain reports whether err is a domain rule violation. Domain errors must
// not be retried automatically.
func IsDomain(err error) bool {
	var e *Error
	return errors.As(err, &e)
}
