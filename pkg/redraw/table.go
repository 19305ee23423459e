package redraw

import (
	"sort"
	"sync"

	"github.com/bastiangx/redrawd/pkg/decode"
	"github.com/tchap/go-patricia/v2/patricia"
)

// Op applies a fully decoded call to a sink.
type Op func(Sink) Repaint

// Binder turns coerced arguments into an Op. All structural decoding
// happens here, before the sink is touched.
type Binder func(args []Arg) (Op, error)

// Entry is one registered redraw method.
type Entry struct {
	Method string
	Kinds  []ArgKind
	Bind   Binder
}

// Table maps method names to entries. Names are kept in a patricia trie so
// method families ("cmdline_", "popupmenu_") can be listed by prefix.
type Table struct {
	mu   sync.RWMutex
	trie *patricia.Trie
	size int
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{trie: patricia.NewTrie()}
}

// DefaultTable returns a table with every redraw method this package knows.
func DefaultTable() *Table {
	t := NewTable()
	registerDefaults(t)
	return t
}

// Register adds or replaces the entry for method.
func (t *Table) Register(method string, kinds []ArgKind, bind Binder) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e := &Entry{Method: method, Kinds: kinds, Bind: bind}
	if t.trie.Insert(patricia.Prefix(method), e) {
		t.size++
		return
	}
	t.trie.Set(patricia.Prefix(method), e)
}

// Lookup returns the entry for method.
func (t *Table) Lookup(method string) (*Entry, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	item := t.trie.Get(patricia.Prefix(method))
	if item == nil {
		return nil, false
	}
	return item.(*Entry), true
}

// Methods lists registered names starting with prefix, sorted.
// An empty prefix lists everything.
func (t *Table) Methods(prefix string) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var names []string
	visit := func(p patricia.Prefix, _ patricia.Item) error {
		names = append(names, string(p))
		return nil
	}
	if prefix == "" {
		_ = t.trie.Visit(visit)
	} else {
		_ = t.trie.VisitSubtree(patricia.Prefix(prefix), visit)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered methods.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.size
}

var (
	chunkShape = decode.Then(decode.PairOf(decode.AttrMap, decode.String), "(attrs, text)",
		func(p decode.Pair[decode.Attrs, string]) (Chunk, error) {
			return Chunk{Attrs: p.First, Text: p.Second}, nil
		})
	contentShape = decode.SeqOf(chunkShape)
	blockShape   = decode.SeqOf(contentShape)

	menuShape = decode.SeqOf(decode.Then(decode.Strings, "menu row", NewCompleteItem))

	tabsShape = decode.SeqOf(decode.Then(decode.Record("tab"), "tab",
		func(a decode.Attrs) (Tab, error) {
			tab := Tab{Page: Tabpage{a["tab"]}}
			if name, ok := a.String("name"); ok {
				tab.Name = &name
			}
			return tab, nil
		}))

	modesShape = decode.SeqOf(decode.Then(decode.AttrMap, "mode info", NewModeInfo))
)

func kinds(ks ...ArgKind) []ArgKind { return ks }

func fixed(op Op) Binder {
	return func([]Arg) (Op, error) { return op, nil }
}

func registerDefaults(t *Table) {
	t.Register("cursor_goto", kinds(ArgUint, ArgUint), func(a []Arg) (Op, error) {
		row, col := a[0].Uint, a[1].Uint
		return func(s Sink) Repaint { return s.CursorGoto(row, col) }, nil
	})
	t.Register("put", kinds(ArgString), func(a []Arg) (Op, error) {
		text := a[0].Str
		return func(s Sink) Repaint { return s.Put(text) }, nil
	})
	t.Register("clear", nil, fixed(Sink.Clear))
	t.Register("resize", kinds(ArgUint, ArgUint), func(a []Arg) (Op, error) {
		cols, rows := a[0].Uint, a[1].Uint
		return func(s Sink) Repaint { return s.Resize(cols, rows) }, nil
	})
	t.Register("highlight_set", kinds(ArgStructural), func(a []Arg) (Op, error) {
		attrs, err := decode.AttrMap.Decode(a[0].Raw)
		if err != nil {
			return nil, err
		}
		return func(s Sink) Repaint { return s.HighlightSet(attrs) }, nil
	})
	t.Register("eol_clear", nil, fixed(Sink.EOLClear))
	t.Register("set_scroll_region", kinds(ArgUint, ArgUint, ArgUint, ArgUint), func(a []Arg) (Op, error) {
		top, bot, left, right := a[0].Uint, a[1].Uint, a[2].Uint, a[3].Uint
		return func(s Sink) Repaint { return s.SetScrollRegion(top, bot, left, right) }, nil
	})
	t.Register("scroll", kinds(ArgInt), func(a []Arg) (Op, error) {
		count := a[0].Int
		return func(s Sink) Repaint { return s.Scroll(count) }, nil
	})
	colors := map[string]func(Sink, int64) Repaint{
		"update_bg": Sink.UpdateBg,
		"update_fg": Sink.UpdateFg,
		"update_sp": Sink.UpdateSp,
	}
	for method, update := range colors {
		t.Register(method, kinds(ArgInt), func(a []Arg) (Op, error) {
			color := a[0].Int
			return func(s Sink) Repaint { return update(s, color) }, nil
		})
	}
	t.Register("mode_change", kinds(ArgString, ArgUint), func(a []Arg) (Op, error) {
		mode, idx := a[0].Str, a[1].Uint
		return func(s Sink) Repaint { return s.ModeChange(mode, idx) }, nil
	})
	t.Register("mouse_on", nil, fixed(func(s Sink) Repaint { return s.Mouse(true) }))
	t.Register("mouse_off", nil, fixed(func(s Sink) Repaint { return s.Mouse(false) }))
	t.Register("busy_start", nil, fixed(func(s Sink) Repaint { return s.Busy(true) }))
	t.Register("busy_stop", nil, fixed(func(s Sink) Repaint { return s.Busy(false) }))

	t.Register("popupmenu_show", kinds(ArgStructural, ArgInt, ArgUint, ArgUint), func(a []Arg) (Op, error) {
		items, err := menuShape.Decode(a[0].Raw)
		if err != nil {
			return nil, err
		}
		selected, row, col := a[1].Int, a[2].Uint, a[3].Uint
		return func(s Sink) Repaint { return s.PopupmenuShow(items, selected, row, col) }, nil
	})
	t.Register("popupmenu_hide", nil, fixed(Sink.PopupmenuHide))
	t.Register("popupmenu_select", kinds(ArgInt), func(a []Arg) (Op, error) {
		selected := a[0].Int
		return func(s Sink) Repaint { return s.PopupmenuSelect(selected) }, nil
	})

	t.Register("tabline_update", kinds(ArgStructural, ArgStructural), func(a []Arg) (Op, error) {
		tabs, err := tabsShape.Decode(a[1].Raw)
		if err != nil {
			return nil, err
		}
		selected := Tabpage{a[0].Raw}
		return func(s Sink) Repaint { return s.TablineUpdate(selected, tabs) }, nil
	})
	t.Register("mode_info_set", kinds(ArgBool, ArgStructural), func(a []Arg) (Op, error) {
		modes, err := modesShape.Decode(a[1].Raw)
		if err != nil {
			return nil, err
		}
		enabled := a[0].Bool
		return func(s Sink) Repaint { return s.ModeInfoSet(enabled, modes) }, nil
	})

	t.Register("cmdline_show", kinds(ArgStructural, ArgUint, ArgString, ArgString, ArgUint, ArgUint), func(a []Arg) (Op, error) {
		content, err := contentShape.Decode(a[0].Raw)
		if err != nil {
			return nil, err
		}
		pos, firstc, prompt, indent, level := a[1].Uint, a[2].Str, a[3].Str, a[4].Uint, a[5].Uint
		return func(s Sink) Repaint { return s.CmdlineShow(content, pos, firstc, prompt, indent, level) }, nil
	})
	t.Register("cmdline_hide", kinds(ArgUint), func(a []Arg) (Op, error) {
		level := a[0].Uint
		return func(s Sink) Repaint { return s.CmdlineHide(level) }, nil
	})
	t.Register("cmdline_block_show", kinds(ArgStructural), func(a []Arg) (Op, error) {
		lines, err := blockShape.Decode(a[0].Raw)
		if err != nil {
			return nil, err
		}
		return func(s Sink) Repaint { return s.CmdlineBlockShow(lines) }, nil
	})
	t.Register("cmdline_block_append", kinds(ArgStructural), func(a []Arg) (Op, error) {
		line, err := contentShape.Decode(a[0].Raw)
		if err != nil {
			return nil, err
		}
		return func(s Sink) Repaint { return s.CmdlineBlockAppend(line) }, nil
	})
	t.Register("cmdline_block_hide", nil, fixed(Sink.CmdlineBlockHide))
	t.Register("cmdline_pos", kinds(ArgUint, ArgUint), func(a []Arg) (Op, error) {
		pos, level := a[0].Uint, a[1].Uint
		return func(s Sink) Repaint { return s.CmdlinePos(pos, level) }, nil
	})
	t.Register("cmdline_special_char", kinds(ArgString, ArgBool, ArgUint), func(a []Arg) (Op, error) {
		c, shift, level := a[0].Str, a[1].Bool, a[2].Uint
		return func(s Sink) Repaint { return s.CmdlineSpecialChar(c, shift, level) }, nil
	})

	// Optional capabilities. Sinks without them ignore the event.
	t.Register("set_title", kinds(ArgString), func(a []Arg) (Op, error) {
		title := a[0].Str
		return func(s Sink) Repaint {
			if ts, ok := s.(TitleSink); ok {
				return ts.SetTitle(title)
			}
			return Nothing()
		}, nil
	})
	t.Register("set_icon", kinds(ArgString), func(a []Arg) (Op, error) {
		icon := a[0].Str
		return func(s Sink) Repaint {
			if ts, ok := s.(TitleSink); ok {
				return ts.SetIcon(icon)
			}
			return Nothing()
		}, nil
	})
	for method, visual := range map[string]bool{"bell": false, "visual_bell": true} {
		t.Register(method, nil, fixed(func(s Sink) Repaint {
			if bs, ok := s.(BellSink); ok {
				return bs.Bell(visual)
			}
			return Nothing()
		}))
	}
}
