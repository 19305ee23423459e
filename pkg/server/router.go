package server

import (
	"context"
	"fmt"

	"github.com/bastiangx/redrawd/pkg/decode"
	"github.com/bastiangx/redrawd/pkg/gui"
	"github.com/bastiangx/redrawd/pkg/redraw"
	"github.com/bastiangx/redrawd/pkg/value"
	"github.com/charmbracelet/log"
)

// UI is the state both dispatchers work on.
type UI interface {
	redraw.Sink
	gui.State
}

// Router routes editor messages to the redraw and GUI dispatchers. It
// implements Handler.
type Router struct {
	state  *gui.Shared[UI]
	redraw *redraw.Dispatcher
	gui    *gui.Dispatcher[UI]
	logger *log.Logger
}

func NewRouter(state *gui.Shared[UI], rd *redraw.Dispatcher, logger *log.Logger) *Router {
	if logger == nil {
		logger = log.Default()
	}
	if rd == nil {
		rd = redraw.NewDispatcher(redraw.WithLogger(logger))
	}
	return &Router{
		state:  state,
		redraw: rd,
		gui:    gui.NewDispatcher(state, logger),
		logger: logger,
	}
}

// HandleNotification runs a redraw batch or a GUI command. Failures are
// logged: notifications have no reply.
func (r *Router) HandleNotification(method string, params []value.Value) {
	switch method {
	case "redraw":
		calls, err := redraw.ParseRedraw(params)
		if err != nil {
			r.logger.Error("malformed redraw updates", "err", err)
		}
		r.state.With(func(ui UI) {
			// per-call errors already went to the dispatcher's handler
			r.redraw.Batch(ui, calls)
		})

	case "Gui":
		name, args, err := guiCall(params)
		if err != nil {
			r.logger.Error("gui command", "err", err)
			return
		}
		if err := r.gui.Command(name, args); err != nil {
			r.logger.Error("gui command failed", "command", name, "err", err)
		}

	default:
		r.logger.Warn("ignored notification", "method", method)
	}
}

// HandleRequest answers GUI requests.
func (r *Router) HandleRequest(ctx context.Context, method string, params []value.Value) (value.Value, error) {
	if method != "Gui" {
		return value.Nil(), fmt.Errorf("%w request %s", gui.ErrUnsupportedEvent, method)
	}
	name, args, err := guiCall(params)
	if err != nil {
		return value.Nil(), err
	}
	return r.gui.Request(ctx, name, args)
}

// guiCall splits "Gui" params into the sub-command and its arguments.
func guiCall(params []value.Value) (string, []value.Value, error) {
	if len(params) == 0 {
		return "", nil, &redraw.MissingArgumentError{Method: "Gui", Index: 0}
	}
	name, err := decode.String.Decode(params[0])
	if err != nil {
		return "", nil, fmt.Errorf("Gui command name: %w", err)
	}
	return name, params[1:], nil
}
