/*
Package gui handles the side channel the editor uses to talk to the
front-end outside of redraw batches: fire-and-forget commands (font,
clipboard writes, UI option toggles) and synchronous requests (clipboard
reads).

The UI state both channels touch lives in a Shared guard. Anything that may
block, such as waiting for clipboard text or an RPC round trip to the
editor, happens after the guard has been released.
*/
package gui

import (
	"context"
	"errors"
	"sync"
)

var (
	// ErrUnsupportedEvent indicates a command or request method this
	// front-end does not implement.
	ErrUnsupportedEvent = errors.New("gui: unsupported event")

	// ErrNoSession indicates an editor-side change was requested before a
	// session was attached.
	ErrNoSession = errors.New("gui: no editor session")
)

// Clipboard is one selection the editor can read and write.
type Clipboard interface {
	SetText(text string)
	// WaitForText blocks until the selection's text is available.
	// ok is false when the selection is empty.
	WaitForText(ctx context.Context) (text string, ok bool)
}

// Session changes options on the editor side of the connection.
// *nvim.Nvim from github.com/neovim/go-client satisfies it.
type Session interface {
	SetUIOption(name string, value any) error
}

// State is the part of the UI state the side channel needs.
type State interface {
	SetFont(desc string)
	// Clipboard returns the primary selection when primary is true and
	// the regular clipboard otherwise.
	Clipboard(primary bool) Clipboard
	// Session returns nil when no editor is attached.
	Session() Session
}

// Shared guards a value that several event sources mutate. Access is only
// possible inside With, so the lock cannot outlive the callback.
type Shared[T any] struct {
	mu sync.Mutex
	v  T
}

func NewShared[T any](v T) *Shared[T] {
	return &Shared[T]{v: v}
}

// With runs fn with exclusive access to the value. fn must not block on
// anything that needs the same event loop.
func (s *Shared[T]) With(fn func(T)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.v)
}
