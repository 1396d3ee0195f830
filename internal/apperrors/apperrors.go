// Package apperrors defines the application error taxonomy. Every failure
// that reaches the client goes through one of these tagged errors; the error
// middleware is the only place responses are formatted.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError carries an HTTP status code, a client-safe message and an
// operational flag. Operational errors are anticipated failures whose message
// may be returned verbatim; anything else collapses to a generic message in
// production.
type AppError struct {
	Code        int
	Message     string
	Operational bool
	Err         error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Status returns the envelope status class: "fail" for 4xx, "error" otherwise.
func (e *AppError) Status() string {
	if e.Code >= 400 && e.Code < 500 {
		return "fail"
	}
	return "error"
}

func New(code int, message string) *AppError {
	return &AppError{Code: code, Message: message, Operational: true}
}

func BadRequest(message string) *AppError {
	return New(http.StatusBadRequest, message)
}

func BadRequestf(format string, args ...interface{}) *AppError {
	return BadRequest(fmt.Sprintf(format, args...))
}

func Unauthorized(message string) *AppError {
	return New(http.StatusUnauthorized, message)
}

func Forbidden(message string) *AppError {
	return New(http.StatusForbidden, message)
}

func NotFound(message string) *AppError {
	return New(http.StatusNotFound, message)
}

func NotFoundf(format string, args ...interface{}) *AppError {
	return NotFound(fmt.Sprintf(format, args...))
}

func TooManyRequests(message string) *AppError {
	return New(http.StatusTooManyRequests, message)
}

// Internal wraps an unanticipated failure. It is not operational: the client
// only ever sees a generic message for it in production.
func Internal(err error) *AppError {
	return &AppError{
		Code:    http.StatusInternalServerError,
		Message: "Something went wrong",
		Err:     err,
	}
}

// As extracts an *AppError from anywhere in err's chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
