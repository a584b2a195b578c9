// Package apperr defines the domain error taxonomy shared by all services.
// Each constructor attaches a human-readable message to one of the four
// sentinel kinds so handlers can map kinds to HTTP statuses with errors.Is
// while still returning the original message to the client.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput marks malformed identifiers and failed field validation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrForbidden marks role, ownership and immutability violations.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound marks lookups that matched no record.
	ErrNotFound = errors.New("not found")
	// ErrConflict marks duplicate records within a uniqueness scope.
	ErrConflict = errors.New("conflict")
)

// Error couples a taxonomy kind with a caller-facing message.
type Error struct {
	kind error
	msg  string
}

func (e *Error) Error() string { return e.msg }

func (e *Error) Unwrap() error { return e.kind }

func newError(kind error, format string, args ...interface{}) error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
}

// InvalidInput builds an ErrInvalidInput with the given message.
func InvalidInput(format string, args ...interface{}) error {
	return newError(ErrInvalidInput, format, args...)
}

// Forbidden builds an ErrForbidden with the given message.
func Forbidden(format string, args ...interface{}) error {
	return newError(ErrForbidden, format, args...)
}

// NotFound builds an ErrNotFound with the given message.
func NotFound(format string, args ...interface{}) error {
	return newError(ErrNotFound, format, args...)
}

// Conflict builds an ErrConflict with the given message.
func Conflict(format string, args ...interface{}) error {
	return newError(ErrConflict, format, args...)
}
