// Package apperr defines the error kinds shared by the domain services.
//
// Domain packages declare their own sentinel errors on top of these kinds so the
// HTTP layer can map any of them to a status code without knowing the package.
package apperr

import (
	"errors"
	"sort"
	"strings"
)

// Kinds.
var (
	ErrValidation   = errors.New("validation error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("unauthorized access")
	ErrNotFound     = errors.New("not found")
	ErrRule         = errors.New("business rule violation")
)

// Error is a domain error with a user-facing message and a kind.
type Error struct {
	kind    error
	message string
}

func (e *Error) Error() string { return e.message }
func (e *Error) Unwrap() error { return e.kind }

func newError(kind error, message string) *Error {
	return &Error{kind: kind, message: message}
}

func NotFound(message string) *Error     { return newError(ErrNotFound, message) }
func Forbidden(message string) *Error    { return newError(ErrForbidden, message) }
func Unauthorized(message string) *Error { return newError(ErrUnauthorized, message) }
func Rule(message string) *Error         { return newError(ErrRule, message) }

// ValidationError carries per-field messages.
type ValidationError struct {
	Fields map[string][]string
}

// Invalid builds a ValidationError for a single field.
func Invalid(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string][]string{field: {message}}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], ", "))
	}

	return "validation error: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Add appends a message for field.
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}

	e.Fields[field] = append(e.Fields[field], message)
}

// Empty reports whether no field errors were collected.
func (e *ValidationError) Empty() bool {
	return len(e.Fields) == 0
}

// Message returns the user-facing message of err when it is a domain error.
func Message(err error) (string, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return "Validation Error", true
	}

	var de *Error
	if errors.As(err, &de) {
		return de.message, true
	}

	return "", false
}
