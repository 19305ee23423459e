package redraw

import (
	"errors"
	"fmt"

	"github.com/bastiangx/redrawd/pkg/decode"
	"github.com/bastiangx/redrawd/pkg/value"
)

// ParseRedraw flattens the params of a "redraw" notification into calls.
//
// Each param is an update [name, args1, args2, ...]; every argument tuple
// becomes its own call, in wire order. Malformed updates are skipped and
// reported in the joined error, the rest are still returned.
func ParseRedraw(params []value.Value) ([]Call, error) {
	var calls []Call
	var errs []error
	for i, update := range params {
		items, ok := update.AsArray()
		if !ok || len(items) == 0 {
			errs = append(errs, fmt.Errorf("redraw update %d: %w: expected [name, args...], got %s",
				i, decode.ErrShapeMismatch, update.Kind()))
			continue
		}
		name, err := decode.String.Decode(items[0])
		if err != nil {
			errs = append(errs, fmt.Errorf("redraw update %d name: %w", i, err))
			continue
		}
		for j, tuple := range items[1:] {
			args, ok := tuple.AsArray()
			if !ok {
				errs = append(errs, fmt.Errorf("redraw update %d (%s) args %d: %w: got %s",
					i, name, j, decode.ErrTypeMismatch, tuple.Kind()))
				continue
			}
			calls = append(calls, Call{Method: name, Args: args})
		}
	}
	return calls, errors.Join(errs...)
}
