// Package apperr defines the error taxonomy shared by every service:
// validation, authorization, not-found, conflict. Each kind carries the HTTP
// status the API responds with, so handlers never pick status codes ad hoc.
package apperr

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnprocessable
	KindUnauthorized
	KindAuthorization
	KindNotFound
	KindConflict
)

// Missing records resolve to 400, not 404. The client treats both as "bad
// request against current state" and the tests pin that mapping.
var statusByKind = map[Kind]int{
	KindInternal:      http.StatusInternalServerError,
	KindValidation:    http.StatusBadRequest,
	KindUnprocessable: http.StatusUnprocessableEntity,
	KindUnauthorized:  http.StatusUnauthorized,
	KindAuthorization: http.StatusForbidden,
	KindNotFound:      http.StatusBadRequest,
	KindConflict:      http.StatusConflict,
}

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Validation(message string) *Error     { return New(KindValidation, message) }
func Unprocessable(message string) *Error  { return New(KindUnprocessable, message) }
func Unauthorized(message string) *Error   { return New(KindUnauthorized, message) }
func Authorization(message string) *Error  { return New(KindAuthorization, message) }
func NotFound(message string) *Error       { return New(KindNotFound, message) }
func Conflict(message string) *Error       { return New(KindConflict, message) }

// Wrap tags an unexpected failure as internal while keeping the cause.
func Wrap(err error, message string) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// StatusOf maps an error to its HTTP status. Anything outside the taxonomy is
// a 500.
func StatusOf(err error) int {
	var ae *Error
	if errors.As(err, &ae) {
		if status, ok := statusByKind[ae.Kind]; ok {
			return status
		}
	}
	return http.StatusInternalServerError
}

// MessageOf returns the human-readable message for a taxonomy error, or a
// generic message for anything else so internals never leak to clients.
func MessageOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) && ae.Kind != KindInternal {
		return ae.Message
	}
	return "Something went wrong."
}

// IsKind reports whether err is a taxonomy error of the given kind.
func IsKind(err error, kind Kind) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == kind
}
