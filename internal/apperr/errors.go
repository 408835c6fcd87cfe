// Package apperr defines the error kinds shared by the playlist service and
// their mapping onto HTTP status codes.
package apperr

import (
	"errors"
	"net/http"
)

type Kind int

const (
	Internal Kind = iota
	InvalidArgument
	Unauthenticated
	Forbidden
	NotFound
	Conflict
	UpstreamUnavailable
	TooLarge
)

func (k Kind) String() string {
	switch k {
	case InvalidArgument:
		return "invalid_argument"
	case Unauthenticated:
		return "unauthenticated"
	case Forbidden:
		return "forbidden"
	case NotFound:
		return "not_found"
	case Conflict:
		return "conflict"
	case UpstreamUnavailable:
		return "upstream_unavailable"
	case TooLarge:
		return "too_large"
	default:
		return "internal"
	}
}

// Error is a classified failure. Msg is safe to show to callers; Err keeps
// the underlying cause for logs. Status is the collaborator's HTTP status
// when the failure came from an upstream response, 0 otherwise.
type Error struct {
	Kind   Kind
	Msg    string
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// Upstream reports a non-success response from a collaborator service.
func Upstream(kind Kind, msg string, status int) *Error {
	return &Error{Kind: kind, Msg: msg, Status: status}
}

// KindOf returns the kind of the first *Error in err's chain, Internal if none.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return Internal
}

// Message returns the caller-facing message for err.
func Message(err error) string {
	var ae *Error
	if errors.As(err, &ae) && ae.Kind != Internal {
		return ae.Msg
	}
	return "internal server error"
}

// HTTPStatus maps err onto a response status code.
func HTTPStatus(err error) int {
	var ae *Error
	if !errors.As(err, &ae) {
		return http.StatusInternalServerError
	}
	switch ae.Kind {
	case InvalidArgument:
		return http.StatusBadRequest
	case Unauthenticated:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	case TooLarge:
		return http.StatusRequestEntityTooLarge
	case UpstreamUnavailable:
		// no response at all means the collaborator could not be reached
		if ae.Status == 0 {
			return http.StatusServiceUnavailable
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Is lets sentinel *Error values match by identity or by kind and message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Msg == t.Msg
}
