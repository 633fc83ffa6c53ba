// Package apperr classifies domain failures so the HTTP layer can map them to
// status codes without string matching.
package apperr

import (
	"errors"
	"strings"
)

// Kind is the category of an application error.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindUnavailable
)

// FieldError is a single field-level validation message.
type FieldError struct {
	Path string `json:"path"`
	Msg  string `json:"msg"`
}

// Error is a classified application error.
type Error struct {
	Kind    Kind
	Message string
	Fields  []FieldError
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return e.Message + ": " + e.Err.Error()
	case e.Message != "":
		return e.Message
	case len(e.Fields) > 0:
		msgs := make([]string, len(e.Fields))
		for i, f := range e.Fields {
			msgs[i] = f.Msg
		}
		return strings.Join(msgs, "; ")
	case e.Err != nil:
		return e.Err.Error()
	}
	return "internal error"
}

func (e *Error) Unwrap() error { return e.Err }

// Validation builds a validation error from field messages.
func Validation(fields ...FieldError) error {
	return &Error{Kind: KindValidation, Fields: fields}
}

// Field is shorthand for a validation error on one field.
func Field(path, msg string) error {
	return Validation(FieldError{Path: path, Msg: msg})
}

// Invalid builds a validation error with a summary message.
func Invalid(msg string, fields ...FieldError) error {
	return &Error{Kind: KindValidation, Message: msg, Fields: fields}
}

// NotFound reports a missing entity.
func NotFound(msg string) error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// Conflict reports an operation blocked by referential state.
func Conflict(msg string) error {
	return &Error{Kind: KindConflict, Message: msg}
}

// Unavailable wraps a storage connectivity failure.
func Unavailable(err error) error {
	return &Error{Kind: KindUnavailable, Message: "storage unavailable", Err: err}
}

// KindOf returns the kind of err, or KindInternal for unclassified errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// FieldsOf returns the field errors carried by a validation error.
func FieldsOf(err error) []FieldError {
	var e *Error
	if errors.As(err, &e) {
		return e.Fields
	}
	return nil
}

// MessageOf returns the human message of a classified error.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Message != "" {
			return e.Message
		}
		if len(e.Fields) > 0 {
			return e.Fields[0].Msg
		}
	}
	return ""
}
