package decode

import (
	"errors"
	"fmt"

	"github.com/bastiangx/redrawd/pkg/value"
)

// Decode errors. Every *Error matches exactly one of these with errors.Is.
var (
	// ErrTypeMismatch indicates the wire tag differs from the expected one.
	ErrTypeMismatch = errors.New("decode: type mismatch")

	// ErrInvalidText indicates a string payload that is not valid UTF-8.
	ErrInvalidText = errors.New("decode: invalid text")

	// ErrMissingField indicates a required map key is absent.
	ErrMissingField = errors.New("decode: missing field")

	// ErrShapeMismatch indicates a sequence or record of the wrong arity.
	ErrShapeMismatch = errors.New("decode: shape mismatch")
)

// Error describes where and why a structural decode failed.
type Error struct {
	// Kind is one of the sentinel errors above.
	Kind error
	// Path locates the failing value, e.g. "[1][0].tab".
	Path string
	// Expected names the shape that was requested.
	Expected string
	// Actual is the wire tag that was found.
	Actual value.Kind
	// Detail carries extra context such as the missing key.
	Detail string
}

func (e *Error) Error() string {
	at := e.Path
	if at == "" {
		at = "value"
	}
	switch e.Kind {
	case ErrMissingField:
		return fmt.Sprintf("%v: %s requires key %q", e.Kind, at, e.Detail)
	case ErrShapeMismatch:
		return fmt.Sprintf("%v: %s: expected %s, %s", e.Kind, at, e.Expected, e.Detail)
	}
	return fmt.Sprintf("%v: %s: expected %s, got %s", e.Kind, at, e.Expected, e.Actual)
}

func (e *Error) Unwrap() error { return e.Kind }

func mismatch(path, expected string, v value.Value) error {
	return &Error{Kind: ErrTypeMismatch, Path: path, Expected: expected, Actual: v.Kind()}
}
