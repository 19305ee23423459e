package gui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bastiangx/redrawd/pkg/decode"
	"github.com/bastiangx/redrawd/pkg/redraw"
	"github.com/bastiangx/redrawd/pkg/value"
	"github.com/charmbracelet/log"
)

// uiOptions maps Option command names to editor UI option names.
var uiOptions = map[string]string{
	"Popupmenu": "ext_popupmenu",
	"Tabline":   "ext_tabline",
	"Cmdline":   "ext_cmdline",
}

// RequestError is a failed request. Value is sent back to the editor as
// the RPC error.
type RequestError struct {
	Value value.Value
	Err   error
}

func (e *RequestError) Error() string { return e.Err.Error() }

func (e *RequestError) Unwrap() error { return e.Err }

// ErrorValue converts an error returned by Request into its wire form.
func ErrorValue(err error) value.Value {
	var rerr *RequestError
	if errors.As(err, &rerr) {
		return rerr.Value
	}
	return value.String(err.Error())
}

// Dispatcher runs GUI commands and requests against shared UI state. S is
// usually a wider interface so the same guard can also serve redraws.
type Dispatcher[S State] struct {
	state  *Shared[S]
	logger *log.Logger
}

func NewDispatcher[S State](state *Shared[S], logger *log.Logger) *Dispatcher[S] {
	if logger == nil {
		logger = log.Default()
	}
	return &Dispatcher[S]{state: state, logger: logger}
}

// Command handles a fire-and-forget GUI notification. Unknown sub-options
// are logged; an unknown method is ErrUnsupportedEvent.
func (d *Dispatcher[S]) Command(method string, args []value.Value) error {
	switch method {
	case "Font":
		desc, err := stringArg(method, args, 0)
		if err != nil {
			return err
		}
		d.state.With(func(st S) { st.SetFont(desc) })
		return nil

	case "Clipboard":
		op, err := stringArg(method, args, 0)
		if err != nil {
			return err
		}
		if op != "Set" {
			d.logger.Error("unknown clipboard option", "option", op)
			return nil
		}
		sel, err := stringArg(method, args, 1)
		if err != nil {
			return err
		}
		text, err := stringArg(method, args, 2)
		if err != nil {
			return err
		}
		if clip := d.clipboard(sel); clip != nil {
			clip.SetText(text)
		}
		return nil

	case "Option":
		name, err := stringArg(method, args, 0)
		if err != nil {
			return err
		}
		option, ok := uiOptions[name]
		if !ok {
			d.logger.Error("unknown option", "option", name)
			return nil
		}
		var session Session
		d.state.With(func(st S) { session = st.Session() })
		if session == nil {
			return fmt.Errorf("%s %s: %w", method, name, ErrNoSession)
		}
		enabled, err := flagArg(method, args, 1)
		if err != nil {
			return err
		}
		if err := session.SetUIOption(option, enabled); err != nil {
			return fmt.Errorf("set %s: %w", option, err)
		}
		d.logger.Debug("ui option set", "option", option, "enabled", enabled)
		return nil
	}
	return fmt.Errorf("%w %s(%s)", ErrUnsupportedEvent, method, value.Array(args...))
}

// Request answers a synchronous GUI request. Failed requests return a
// *RequestError whose Value is the wire error.
func (d *Dispatcher[S]) Request(ctx context.Context, method string, args []value.Value) (value.Value, error) {
	if method != "Clipboard" {
		err := fmt.Errorf("%w %s(%s)", ErrUnsupportedEvent, method, value.Array(args...))
		return value.Nil(), &RequestError{Value: value.String("Unsupported request " + method + "(" + value.Array(args...).String() + ")"), Err: err}
	}

	op, err := stringArg(method, args, 0)
	if err != nil {
		return value.Nil(), &RequestError{Value: value.String(err.Error()), Err: err}
	}
	if op != "Get" {
		d.logger.Error("unknown clipboard option", "option", op)
		return value.Nil(), &RequestError{Value: value.Nil(), Err: fmt.Errorf("gui: unknown clipboard option %q", op)}
	}
	sel, err := stringArg(method, args, 1)
	if err != nil {
		return value.Nil(), &RequestError{Value: value.String(err.Error()), Err: err}
	}

	// The guard is released by the time the wait starts: waiting may run
	// other callbacks that need it.
	var text string
	if clip := d.clipboard(sel); clip != nil {
		if t, ok := clip.WaitForText(ctx); ok {
			text = t
		}
	}
	return value.Strings(strings.Split(text, "\n")...), nil
}

func (d *Dispatcher[S]) clipboard(selection string) Clipboard {
	var clip Clipboard
	d.state.With(func(st S) { clip = st.Clipboard(selection == "*") })
	return clip
}

func stringArg(method string, args []value.Value, i int) (string, error) {
	if i >= len(args) {
		return "", &redraw.MissingArgumentError{Method: method, Index: i}
	}
	s, err := decode.String.Decode(args[i])
	if err != nil {
		return "", fmt.Errorf("%s argument %d: %w", method, i, err)
	}
	return s, nil
}

// flagArg reads an enable flag, sent as 1/0 by the runtime plugin.
func flagArg(method string, args []value.Value, i int) (bool, error) {
	if i >= len(args) {
		return false, &redraw.MissingArgumentError{Method: method, Index: i}
	}
	if b, ok := args[i].AsBool(); ok {
		return b, nil
	}
	u, err := decode.Uint.Decode(args[i])
	if err != nil {
		return false, fmt.Errorf("%s argument %d: %w", method, i, err)
	}
	return u == 1, nil
}
