package service

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a service failure and decides the status hint the
// transport layer responds with.
type Kind int

const (
	KindInvalidInput Kind = iota + 1
	KindNotFound
	KindInvalidState
	KindUnauthorized
	KindStoreFailure
)

// Error is the uniform failure value returned by every service operation.
// The services are transport-agnostic; StatusHint is the only HTTP-shaped
// thing they emit.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// StatusHint maps the error kind to an HTTP-style status category.
func (e *Error) StatusHint() int {
	switch e.Kind {
	case KindInvalidInput, KindInvalidState:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// AsError extracts the service error from err, if any.
func AsError(err error) (*Error, bool) {
	var se *Error
	ok := errors.As(err, &se)
	return se, ok
}

func invalidInput(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidInput, Message: fmt.Sprintf(format, args...)}
}

func notFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func invalidState(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidState, Message: fmt.Sprintf(format, args...)}
}

func unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

func storeFailure(err error, format string, args ...any) *Error {
	return &Error{Kind: KindStoreFailure, Message: fmt.Sprintf(format, args...), Err: err}
}
