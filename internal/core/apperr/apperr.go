// Package apperr is the error vocabulary shared by services and the HTTP boundary.
// Codes follow HTTP semantics so the transport can map them one to one.
package apperr

import (
	"errors"
	"net/http"
)

type Error struct {
	Code int
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(msg string) error   { return &Error{Code: http.StatusBadRequest, Msg: msg} }
func Unauthorized(msg string) error { return &Error{Code: http.StatusUnauthorized, Msg: msg} }
func Forbidden(msg string) error    { return &Error{Code: http.StatusForbidden, Msg: msg} }
func NotFound(msg string) error     { return &Error{Code: http.StatusNotFound, Msg: msg} }
func Conflict(msg string) error     { return &Error{Code: http.StatusConflict, Msg: msg} }

// Internal wraps a collaborator failure. msg is what the caller sees; err is only logged.
func Internal(msg string, err error) error {
	return &Error{Code: http.StatusInternalServerError, Msg: msg, Err: err}
}

// CodeOf returns the status carried by err, or 500 for anything that is not an *Error.
func CodeOf(err error) int {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return http.StatusInternalServerError
}

func Is(err error, code int) bool { return err != nil && CodeOf(err) == code }
