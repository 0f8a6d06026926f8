// Package domainerr defines the error taxonomy shared by the risk domain.
package domainerr

import (
	"errors"
	"fmt"
)

// Kind classifies a domain failure.
type Kind string

const (
	KindOutOfRange        Kind = "out_of_range"
	KindInvalidTitle      Kind = "invalid_title"
	KindInvalidType       Kind = "invalid_type"
	KindInvalidTransition Kind = "invalid_transition"
	KindNotFound          Kind = "not_found"
)

// Sentinel errors, one per kind. errors.Is matches any *Error of the same kind.
var (
	ErrOutOfRange        = &Error{Kind: KindOutOfRange, Message: "value out of range"}
	ErrInvalidTitle      = &Error{Kind: KindInvalidTitle, Message: "invalid title"}
	ErrInvalidType       = &Error{Kind: KindInvalidType, Message: "invalid risk type"}
	ErrInvalidTransition = &Error{Kind: KindInvalidTransition, Message: "invalid status transition"}
	ErrNotFound          = &Error{Kind: KindNotFound, Message: "not found"}
)

// Error is a domain validation failure with a kind, a human-readable message
// and the offending values.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]any
}

// New creates an Error of the given kind.
func New(kind Kind, message string, fields map[string]any) *Error {
	return &Error{Kind: kind, Message: message, Fields: fields}
}

// Newf creates an Error of the given kind with a formatted message and no fields.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	return e.Message
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// Field returns a single field value.
func (e *Error) Field(key string) (any, bool) {
	v, ok := e.Fields[key]
	return v, ok
}

// KindOf extracts the Kind of the first *Error in err's chain.
// It returns an empty Kind when err carries no domain error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
