/*
Package redraw turns the editor's redraw notifications into typed calls on a
Sink and folds their repaint outcomes into one instruction per batch.

Every call goes through three steps: its arguments are coerced by position
against the method's ArgKind list, the method's Binder decodes any
structured payloads, and only then is the sink invoked. A call that fails
in either of the first two steps never reaches the sink.

	d := redraw.NewDispatcher()
	calls, err := redraw.ParseRedraw(params)
	repaint, err := d.Batch(sink, calls)

Unknown method names are logged and ignored so newer editors can add events
without breaking the front-end.
*/
package redraw

import (
	"errors"

	"github.com/bastiangx/redrawd/pkg/value"
	"github.com/charmbracelet/log"
)

// Call is one method invocation inside a redraw batch.
type Call struct {
	Method string
	Args   []value.Value
}

// ErrorHandler receives every per-call failure of a batch.
type ErrorHandler func(call Call, err error)

// Dispatcher routes calls through a Table.
type Dispatcher struct {
	table   *Table
	logger  *log.Logger
	onError ErrorHandler
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithTable replaces the default method table.
func WithTable(t *Table) Option {
	return func(d *Dispatcher) { d.table = t }
}

// WithLogger sets the logger used for ignored events and call failures.
func WithLogger(l *log.Logger) Option {
	return func(d *Dispatcher) { d.logger = l }
}

// WithErrorHandler sets the diagnostic sink for per-call failures.
// The default logs them at error level.
func WithErrorHandler(h ErrorHandler) Option {
	return func(d *Dispatcher) { d.onError = h }
}

func NewDispatcher(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		table:  DefaultTable(),
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.onError == nil {
		d.onError = func(call Call, err error) {
			d.logger.Error("redraw call failed", "method", call.Method, "err", err)
		}
	}
	return d
}

// Table returns the method table in use.
func (d *Dispatcher) Table() *Table { return d.table }

// Dispatch runs a single call against sink. Unknown methods yield Nothing
// and no error.
func (d *Dispatcher) Dispatch(sink Sink, method string, args []value.Value) (Repaint, error) {
	entry, ok := d.table.Lookup(method)
	if !ok {
		d.logger.Warn("ignored redraw event", "method", method, "args", value.Array(args...))
		return Nothing(), nil
	}

	coerced, err := CoerceAll(method, entry.Kinds, args)
	if err != nil {
		return Nothing(), &CallError{Method: method, Err: err}
	}
	op, err := entry.Bind(coerced)
	if err != nil {
		return Nothing(), &CallError{Method: method, Err: err}
	}
	return op(sink), nil
}

// Batch dispatches calls in order, reports each failure to the error
// handler and keeps going, then hands the folded outcome to sink.OnRedraw
// exactly once. The returned error joins every call failure.
func (d *Dispatcher) Batch(sink Sink, calls []Call) (Repaint, error) {
	acc := Nothing()
	var errs []error
	for _, call := range calls {
		r, err := d.Dispatch(sink, call.Method, call.Args)
		if err != nil {
			d.onError(call, err)
			errs = append(errs, err)
			continue
		}
		acc = acc.Join(r)
	}
	sink.OnRedraw(acc)
	if d.logger.GetLevel() <= log.DebugLevel {
		d.logger.Debug("redraw batch", "calls", len(calls), "failed", len(errs), "repaint", acc)
	}
	return acc, errors.Join(errs...)
}
