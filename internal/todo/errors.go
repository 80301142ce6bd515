package todo

import (
	"errors"
	"fmt"
)

// Kind classifies an Error.
type Kind string

const (
	// KindInvalidInput marks a caller argument that is malformed or violates
	// an operation precondition.
	KindInvalidInput Kind = "invalid_input"
	// KindInvalidData marks a stored document or field that cannot be trusted.
	KindInvalidData Kind = "invalid_data"
	// KindIO marks a filesystem failure.
	KindIO Kind = "io_error"
)

// Error is the typed error returned by the store and the task engine.
type Error struct {
	Kind    Kind
	Message string
	Err     error // Underlying error, if any
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s - %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// InvalidInput returns an invalid_input error.
func InvalidInput(message string) *Error {
	return &Error{Kind: KindInvalidInput, Message: message}
}

// InvalidData returns an invalid_data error.
func InvalidData(message string) *Error {
	return &Error{Kind: KindInvalidData, Message: message}
}

// IOError returns an io_error wrapping err.
func IOError(message string, err error) *Error {
	if err != nil {
		message = fmt.Sprintf("%s: %v", message, err)
	}
	return &Error{Kind: KindIO, Message: message, Err: err}
}

// KindOf returns the Kind of err, or "" if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
