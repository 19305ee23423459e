// Package clipboard keeps the text of the two selections the editor can
// read and write, optionally mirroring writes to the host terminal with
// OSC 52 escape sequences.
package clipboard

import (
	"context"
	"io"
	"sync"

	"github.com/aymanbagabas/go-osc52/v2"
	"github.com/charmbracelet/log"
)

// Store holds the primary selection and the regular clipboard.
type Store struct {
	mu   sync.Mutex
	text [2]string

	// osc52 receives an escape sequence on every write when non-nil.
	osc52 io.Writer
}

// Option configures a Store.
type Option func(*Store)

// WithOSC52 mirrors every write to w as an OSC 52 sequence.
func WithOSC52(w io.Writer) Option {
	return func(s *Store) { s.osc52 = w }
}

func NewStore(opts ...Option) *Store {
	s := &Store{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

const (
	primaryIdx = iota
	clipboardIdx
)

// Primary returns the primary selection.
func (s *Store) Primary() *Selection { return &Selection{store: s, idx: primaryIdx} }

// Clipboard returns the regular clipboard selection.
func (s *Store) Clipboard() *Selection { return &Selection{store: s, idx: clipboardIdx} }

func (s *Store) set(idx int, text string) {
	s.mu.Lock()
	s.text[idx] = text
	s.mu.Unlock()

	if s.osc52 == nil {
		return
	}
	seq := osc52.New(text)
	if idx == primaryIdx {
		seq = seq.Primary()
	} else {
		seq = seq.Clipboard(osc52.SystemClipboard)
	}
	if _, err := seq.WriteTo(s.osc52); err != nil {
		log.Warnf("clipboard: osc52 write failed: %v", err)
	}
}

func (s *Store) get(idx int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text[idx]
}

// Selection is one named selection in a Store.
type Selection struct {
	store *Store
	idx   int
}

func (c *Selection) SetText(text string) { c.store.set(c.idx, text) }

// Text returns the current text without waiting.
func (c *Selection) Text() string {
	return c.store.get(c.idx)
}

// WaitForText returns the selection's text. ok is false when it is empty
// or ctx is already done.
func (c *Selection) WaitForText(ctx context.Context) (string, bool) {
	if err := ctx.Err(); err != nil {
		return "", false
	}
	text := c.store.get(c.idx)
	return text, text != ""
}
