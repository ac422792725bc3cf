// Package apperr defines the error taxonomy the service reports across
// its boundary: validation, auth, conflict, not-found and persistence.
// Errors carry a kind that callers match with errors.Is; the boundary
// layer maps kinds to HTTP statuses.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindValidation Kind = iota
	KindAuth
	KindConflict
	KindNotFound
	KindPersistence
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindPersistence:
		return "persistence"
	}
	return "unknown"
}

// Error pairs a kind with a caller-safe message and an optional cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so sentinel values like
// ErrInvalidCredentials compare by kind and message.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind && (t.Msg == "" || t.Msg == e.Msg)
}

func New(kind Kind, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

func Newf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, msg string, err error) error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf returns the kind of err, or KindPersistence for errors outside
// the taxonomy: an unclassified failure is treated as a server fault.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindPersistence
}

// Message returns the caller-safe message of err. Persistence errors are
// reported generically so storage detail never leaks across the boundary.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindPersistence {
		return e.Msg
	}
	return "internal server error"
}
