// Package cli is an interactive prompt for feeding hand-written redraw
// events and GUI commands into the dispatchers, for debugging sinks.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/bastiangx/redrawd/pkg/redraw"
	"github.com/bastiangx/redrawd/pkg/server"
	"github.com/bastiangx/redrawd/pkg/value"
	"github.com/charmbracelet/log"
)

// View is the sink state the prompt prints back.
type View interface {
	Render() string
	Redraws() (int, redraw.Repaint)
}

// InputHandler reads one command per line:
//
//	cursor_goto [2, 4]           a redraw call
//	Gui ["Font", "Mono 12"]      a GUI command
//	?Gui ["Clipboard", "Get", "+"]  a GUI request, result printed
//	:render                      print the screen
//	:methods [prefix]            list redraw methods
type InputHandler struct {
	handler server.Handler
	view    View
	table   *redraw.Table
	in      io.Reader
	out     io.Writer

	requestCount int
}

func NewInputHandler(handler server.Handler, view View, table *redraw.Table, in io.Reader, out io.Writer) *InputHandler {
	if table == nil {
		table = redraw.DefaultTable()
	}
	return &InputHandler{handler: handler, view: view, table: table, in: in, out: out}
}

// Start runs the prompt until input ends. End of input is not an error.
func (h *InputHandler) Start(ctx context.Context) error {
	log.Print("redrawd CLI")
	log.Print("type `method [json-args]` and press Enter, :methods to list events (Ctrl+C to exit):")

	scanner := bufio.NewScanner(h.in)
	for {
		fmt.Fprint(h.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(h.out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == ":quit" {
			return nil
		}
		h.handleInput(ctx, line)
	}
}

func (h *InputHandler) handleInput(ctx context.Context, line string) {
	h.requestCount++
	method, rest, _ := strings.Cut(line, " ")

	switch method {
	case ":render":
		fmt.Fprintln(h.out, h.view.Render())
		return
	case ":methods":
		for _, m := range h.table.Methods(strings.TrimSpace(rest)) {
			fmt.Fprintln(h.out, m)
		}
		return
	}

	args, err := ParseArgs(rest)
	if err != nil {
		log.Errorf("%s: %v", method, err)
		return
	}
	log.Debug("Processing input", "method", method, "args", value.Array(args...), "n", h.requestCount)

	switch {
	case method == "Gui":
		h.handler.HandleNotification("Gui", args)

	case strings.HasPrefix(method, "?"):
		res, err := h.handler.HandleRequest(ctx, strings.TrimPrefix(method, "?"), args)
		if err != nil {
			log.Errorf("request failed: %v", err)
			return
		}
		fmt.Fprintln(h.out, res)

	default:
		if _, ok := h.table.Lookup(method); !ok {
			log.Warnf("Unknown redraw method %q, it will be ignored", method)
		}
		before, _ := h.view.Redraws()
		update := value.Array(value.String(method), value.Array(args...))
		h.handler.HandleNotification("redraw", []value.Value{update})
		if n, last := h.view.Redraws(); n > before {
			fmt.Fprintf(h.out, "repaint: %s\n", last)
		}
	}
}
