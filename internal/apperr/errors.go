// Package apperr holds the error taxonomy shared by services and handlers.
package apperr

import (
	"net/http"

	"github.com/pkg/errors"
)

// Kind classifies an application error.
type Kind int

const (
	Internal Kind = iota
	InvalidInput
	Unauthorized
	Forbidden
	NotFound
	Conflict
	InvalidState
	Unavailable
)

func (k Kind) String() string {
	switch k {
	case InvalidInput:
		return "invalid_input"
	case Unauthorized:
		return "unauthorized"
	case Forbidden:
		return "forbidden"
	case NotFound:
		return "not_found"
	case Conflict:
		return "conflict"
	case InvalidState:
		return "invalid_state"
	case Unavailable:
		return "unavailable"
	default:
		return "internal"
	}
}

// Error is an error with a Kind and a client-safe message.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// New creates an error of the given kind.
func New(kind Kind, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap attaches a kind and message to err, recording a stack on the cause.
func Wrap(err error, kind Kind, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Msg: msg, Err: errors.WithStack(err)}
}

func InvalidInputf(format string, args ...interface{}) error {
	return &Error{Kind: InvalidInput, Msg: errors.Errorf(format, args...).Error()}
}

func NotFoundf(format string, args ...interface{}) error {
	return &Error{Kind: NotFound, Msg: errors.Errorf(format, args...).Error()}
}

func Conflictf(format string, args ...interface{}) error {
	return &Error{Kind: Conflict, Msg: errors.Errorf(format, args...).Error()}
}

func InvalidStatef(format string, args ...interface{}) error {
	return &Error{Kind: InvalidState, Msg: errors.Errorf(format, args...).Error()}
}

func Forbiddenf(format string, args ...interface{}) error {
	return &Error{Kind: Forbidden, Msg: errors.Errorf(format, args...).Error()}
}

// KindOf returns the kind of the first *Error in err's chain, or Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Message returns the client-facing message for err.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	return "internal server error"
}

// HTTPStatus maps err to a response status code.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case InvalidInput:
		return http.StatusBadRequest
	case Unauthorized:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case Conflict, InvalidState:
		return http.StatusConflict
	case Unavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
