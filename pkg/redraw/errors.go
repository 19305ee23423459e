package redraw

import (
	"errors"
	"fmt"
)

// ErrMissingArgument indicates a call supplied fewer values than its method takes.
var ErrMissingArgument = errors.New("redraw: missing argument")

// MissingArgumentError names the first absent position of a call.
type MissingArgumentError struct {
	Method string
	Index  int
}

func (e *MissingArgumentError) Error() string {
	return fmt.Sprintf("%v %d for %s", ErrMissingArgument, e.Index, e.Method)
}

func (e *MissingArgumentError) Unwrap() error { return ErrMissingArgument }

// CallError ties a coercion or decode failure to the call that caused it.
type CallError struct {
	Method string
	Err    error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("redraw: %s: %v", e.Method, e.Err)
}

func (e *CallError) Unwrap() error { return e.Err }
