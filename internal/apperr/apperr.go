// Package apperr defines the error taxonomy shared by both store backends.
// Repositories classify failures at the point of occurrence; the HTTP layer
// only ever switches on the kind.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	// Validation: the client supplied missing or invalid input.
	Validation Kind = iota
	// NotFound: well-formed identifier, no matching record.
	NotFound
	// Conflict: a uniqueness constraint was violated.
	Conflict
	// MalformedID: the identifier fails the backend's key-format check.
	MalformedID
	// Upstream: connection failure, query failure, anything unclassified.
	Upstream
)

type Error struct {
	Kind Kind
	Msg  string
	Err  error // wrapped cause, if any
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func Validationf(format string, args ...any) *Error { return New(Validation, format, args...) }
func NotFoundf(format string, args ...any) *Error   { return New(NotFound, format, args...) }
func Conflictf(format string, args ...any) *Error   { return New(Conflict, format, args...) }
func MalformedIDf(format string, args ...any) *Error {
	return New(MalformedID, format, args...)
}

// Wrap classifies an unexpected failure as Upstream, keeping the cause.
func Wrap(err error, msg string) *Error {
	return &Error{Kind: Upstream, Msg: msg, Err: err}
}

// KindOf reports the taxonomy kind of err. Anything that is not an *Error
// counts as Upstream.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return Upstream
}

// Status maps an error to the HTTP status code the envelope contract uses.
func Status(err error) int {
	switch KindOf(err) {
	case Validation, MalformedID:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the client-facing message for err. Upstream causes are
// never leaked here; the responder decides whether to attach detail.
func Message(err error) string {
	var ae *Error
	if errors.As(err, &ae) && ae.Kind != Upstream {
		return ae.Msg
	}
	return "Internal Server Error"
}
