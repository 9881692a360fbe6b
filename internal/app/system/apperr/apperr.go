// internal/app/system/apperr/apperr.go

// Package apperr is the error taxonomy shared by stores, policies, and
// HTTP handlers.
//
// Every failure a caller can act on is one of the codes below. Stores
// return these directly; handlers map them to HTTP statuses with
// httpjson.Error. Anything unexpected (a dropped Mongo connection, a
// decode failure) is wrapped as CodeUnavailable so callers see a single
// retryable "try again" error instead of driver internals.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeForbidden            Code = "forbidden"
	CodeNotFound             Code = "not_found"
	CodeClosed               Code = "closed"
	CodePositionClosed       Code = "position_closed"
	CodeDuplicateApplication Code = "duplicate_application"
	CodeCapacityExceeded     Code = "capacity_exceeded"
	CodeInvalidTransition    Code = "invalid_transition"
	CodeValidation           Code = "validation_error"
	CodeUnavailable          Code = "unavailable"
)

// Error carries a taxonomy code and a user-facing message. The wrapped
// cause (if any) is for logs, never for responses.
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

func (e *Error) Unwrap() error { return e.Err }

// New builds a taxonomy error with a user-facing message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap marks an unexpected failure as retryable-unavailable, keeping the
// cause for logging.
func Wrap(message string, err error) *Error {
	return &Error{Code: CodeUnavailable, Message: message, Err: err}
}

// Is reports whether err (or anything it wraps) carries the given code.
func Is(err error, code Code) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// MessageFor returns the user-facing message for err, or a generic one
// when err is not a taxonomy error.
func MessageFor(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "something went wrong"
}

// HTTPStatus maps a taxonomy code to the status the HTTP layer should
// send. Non-taxonomy errors are treated as unavailable.
func HTTPStatus(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusServiceUnavailable
	}
	switch e.Code {
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeValidation:
		return http.StatusBadRequest
	case CodeClosed, CodePositionClosed, CodeDuplicateApplication,
		CodeCapacityExceeded, CodeInvalidTransition:
		return http.StatusConflict
	default:
		return http.StatusServiceUnavailable
	}
}
