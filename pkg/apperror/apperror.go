package apperror

import (
	"errors"
	"net/http"
)

// Error is an error that carries the HTTP status it should be answered with
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}

	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

func BadRequest(message string) *Error {
	return New(http.StatusBadRequest, message)
}

func NotFound(message string) *Error {
	return New(http.StatusNotFound, message)
}

func Internal(message string, err error) *Error {
	return &Error{Status: http.StatusInternalServerError, Message: message, Err: err}
}

// StatusOf returns the status carried by err, 500 for anything untyped
func StatusOf(err error) int {
	var appError *Error
	if errors.As(err, &appError) {
		return appError.Status
	}

	return http.StatusInternalServerError
}

// MessageOf returns the client facing message, never the wrapped cause
func MessageOf(err error) string {
	var appError *Error
	if errors.As(err, &appError) {
		return appError.Message
	}

	return http.StatusText(http.StatusInternalServerError)
}
