// Package embed runs Neovim as a child process and feeds its UI traffic
// into a server.Handler.
package embed

import (
	"context"
	"errors"
	"fmt"

	"github.com/bastiangx/redrawd/pkg/server"
	"github.com/bastiangx/redrawd/pkg/value"
	"github.com/charmbracelet/log"
	"github.com/neovim/go-client/nvim"
	"github.com/vmihailenco/msgpack/v5"
)

// Neovim's extension type codes for remote object handles.
const (
	extBuffer  = 0
	extWindow  = 1
	extTabpage = 2
)

// Options describes the child process and the UI it attaches.
type Options struct {
	Path string
	Args []string

	Width, Height int
	// UIOptions are passed to nvim_ui_attach, e.g. {"ext_tabline": true}.
	UIOptions map[string]any
}

// Session is an attached Neovim child process.
type Session struct {
	nv      *nvim.Nvim
	handler server.Handler
	logger  *log.Logger
	ctx     context.Context
}

// Start spawns Neovim and registers the UI handlers. Messages are not
// processed until Run is called.
func Start(ctx context.Context, opts Options, handler server.Handler, logger *log.Logger) (*Session, error) {
	if logger == nil {
		logger = log.Default()
	}
	path := opts.Path
	if path == "" {
		path = "nvim"
	}
	args := append([]string{"--embed"}, opts.Args...)

	nv, err := nvim.NewChildProcess(
		nvim.ChildProcessCommand(path),
		nvim.ChildProcessArgs(args...),
		nvim.ChildProcessContext(ctx),
		nvim.ChildProcessServe(false),
	)
	if err != nil {
		return nil, fmt.Errorf("embed: start %s: %w", path, err)
	}

	s := &Session{nv: nv, handler: handler, logger: logger, ctx: ctx}
	if err := s.register(); err != nil {
		nv.Close()
		return nil, err
	}
	logger.Debug("nvim started", "path", path, "args", args)
	return s, nil
}

func (s *Session) register() error {
	if err := s.nv.RegisterHandler("redraw", s.redraw); err != nil {
		return fmt.Errorf("embed: register redraw: %w", err)
	}
	if err := s.nv.RegisterHandler("Gui", s.gui); err != nil {
		return fmt.Errorf("embed: register Gui: %w", err)
	}
	return nil
}

// Nvim returns the client, which also serves as the gui.Session.
func (s *Session) Nvim() *nvim.Nvim { return s.nv }

// Run serves the connection, attaches the UI and blocks until Neovim exits
// or ctx is done.
func (s *Session) Run(ctx context.Context, opts Options) error {
	errc := make(chan error, 1)
	go func() { errc <- s.nv.Serve() }()

	if err := s.nv.AttachUI(opts.Width, opts.Height, opts.UIOptions); err != nil {
		s.nv.Close()
		return fmt.Errorf("embed: attach ui: %w", err)
	}
	s.logger.Debug("ui attached", "width", opts.Width, "height", opts.Height, "options", opts.UIOptions)

	select {
	case err := <-errc:
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.nv.Close()
		<-errc
		return nil
	}
}

func (s *Session) Close() error { return s.nv.Close() }

func (s *Session) redraw(updates ...[]any) {
	params := make([]value.Value, 0, len(updates))
	for i, u := range updates {
		v, err := value.FromGo(u, handles)
		if err != nil {
			s.logger.Error("redraw update", "index", i, "err", err)
			continue
		}
		params = append(params, v)
	}
	s.handler.HandleNotification("redraw", params)
}

// gui serves "Gui" as both notification and request. go-client has one
// handler per method, so clipboard reads are told apart by their
// arguments.
func (s *Session) gui(args ...any) (any, error) {
	params := make([]value.Value, len(args))
	for i, a := range args {
		v, err := value.FromGo(a, handles)
		if err != nil {
			return nil, fmt.Errorf("Gui argument %d: %w", i, err)
		}
		params[i] = v
	}
	if !isRequest(params) {
		s.handler.HandleNotification("Gui", params)
		return nil, nil
	}
	res, err := s.handler.HandleRequest(s.ctx, "Gui", params)
	if err != nil {
		return nil, err
	}
	return value.ToGo(res), nil
}

func isRequest(params []value.Value) bool {
	if len(params) < 2 {
		return false
	}
	name, _ := params[0].AsString()
	op, _ := params[1].AsString()
	return name == "Clipboard" && op == "Get"
}

// handles converts go-client's buffer, window and tabpage types back to
// their wire extension values.
func handles(x any) (value.Value, bool) {
	var typ int8
	var h int64
	switch t := x.(type) {
	case nvim.Buffer:
		typ, h = extBuffer, int64(t)
	case nvim.Window:
		typ, h = extWindow, int64(t)
	case nvim.Tabpage:
		typ, h = extTabpage, int64(t)
	default:
		return value.Value{}, false
	}
	data, err := msgpack.Marshal(h)
	if err != nil {
		return value.Value{}, false
	}
	return value.Ext(typ, data), true
}
