// Package errs defines the error kinds surfaced by the interaction handlers.
package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for the client-facing result.
type Kind string

const (
	// IdentityUnavailable is returned when neither a session nor an
	// anonymous token identifies the caller.
	IdentityUnavailable Kind = "identity_unavailable"
	// ValidationFailed is returned for field-level input problems.
	ValidationFailed Kind = "validation_failed"
	// ConstraintViolation is returned when the store rejects a write
	// because of a uniqueness or check constraint.
	ConstraintViolation Kind = "constraint_violation"
	// PersistenceError covers every other storage failure. The detail is
	// logged, never sent to the client.
	PersistenceError Kind = "persistence_error"
	// Unauthorized is returned when an action requires a qualifying session.
	Unauthorized Kind = "unauthorized"
	NotFound     Kind = "not_found"
)

// Error is a classified error. Msg is safe to show to the client.
type Error struct {
	Kind  Kind
	Field string
	Msg   string
	Err   error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Public returns the message shown to the client.
func (e *Error) Public() string {
	if e.Kind == PersistenceError {
		return "Terjadi kesalahan, silakan coba lagi."
	}
	return e.Msg
}

// Is matches on Kind so errors.Is(err, errs.E(errs.NotFound)) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Field == "" || t.Field == e.Field)
}

// E builds a bare error of the given kind, mostly for errors.Is comparisons.
func E(kind Kind) *Error {
	return &Error{Kind: kind}
}

func Identity() *Error {
	return &Error{Kind: IdentityUnavailable, Msg: "Identitas tidak tersedia. Muat ulang halaman lalu coba lagi."}
}

func Validation(field, msg string) *Error {
	return &Error{Kind: ValidationFailed, Field: field, Msg: msg}
}

func Unauth(msg string) *Error {
	return &Error{Kind: Unauthorized, Msg: msg}
}

func Missing(msg string) *Error {
	return &Error{Kind: NotFound, Msg: msg}
}

// Persistence wraps a storage error. op names the failing operation.
func Persistence(op string, err error) *Error {
	return &Error{Kind: PersistenceError, Msg: op, Err: err}
}

// KindOf extracts the kind of err, PersistenceError for unclassified errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return PersistenceError
}

// As returns err as *Error, wrapping unclassified errors as PersistenceError.
func As(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Persistence("unexpected", err)
}

// Status maps a kind to an HTTP status code.
func Status(err error) int {
	switch KindOf(err) {
	case IdentityUnavailable:
		return http.StatusUnauthorized
	case ValidationFailed:
		return http.StatusUnprocessableEntity
	case ConstraintViolation:
		return http.StatusConflict
	case Unauthorized:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
