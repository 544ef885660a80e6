// Package apierr carries the HTTP status and machine code a service failure
// should be rendered with.
package apierr

import (
	"errors"
	"net/http"
	"strconv"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e == nil:
		return ""
	case e.Err != nil:
		return e.Err.Error()
	case e.Code != "":
		return e.Code
	case e.Status != 0:
		return "api error (" + strconv.Itoa(e.Status) + ")"
	default:
		return "api error"
	}
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// From extracts the first *Error in err's chain.
func From(err error) (*Error, bool) {
	var ae *Error
	if err == nil || !errors.As(err, &ae) || ae == nil {
		return nil, false
	}
	return ae, true
}

func BadRequest(code string, err error) *Error {
	return New(http.StatusBadRequest, code, err)
}

// Validation is a 400 with code "validation" and a user facing message.
func Validation(msg string) *Error {
	return BadRequest("validation", errors.New(msg))
}

func Unauthorized(err error) *Error {
	return New(http.StatusUnauthorized, "unauthorized", err)
}

func NotFound(code string, err error) *Error {
	return New(http.StatusNotFound, code, err)
}

// Missing is a 404 with code "not_found".
func Missing(msg string) *Error {
	return NotFound("not_found", errors.New(msg))
}

func Internal(code string, err error) *Error {
	return New(http.StatusInternalServerError, code, err)
}
