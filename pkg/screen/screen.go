/*
Package screen is an in-memory redraw sink: a cell grid plus the rest of
the UI state redraw events and GUI commands mutate.

It does no drawing of its own. Front-ends read it back after OnRedraw, and
the CLI prints it with Render.
*/
package screen

import (
	"github.com/bastiangx/redrawd/pkg/clipboard"
	"github.com/bastiangx/redrawd/pkg/decode"
	"github.com/bastiangx/redrawd/pkg/gui"
	"github.com/bastiangx/redrawd/pkg/redraw"
	"github.com/charmbracelet/log"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-runewidth"
)

// Cell is one grid position. Width is 0 for the right half of a wide
// character, whose text lives in the cell to its left.
type Cell struct {
	Text  string
	Width int
	Hl    Highlight
}

var blank = Cell{Text: " ", Width: 1}

// MaxDimension is the largest row or column count a Screen accepts.
const MaxDimension = 1 << 12

// Popup is the completion menu shown by popupmenu_show.
type Popup struct {
	Items    []redraw.CompleteItem
	Selected int64
	Row, Col uint64
}

// Cmdline is one level of the external command line.
type Cmdline struct {
	Content []redraw.Chunk
	Pos     uint64
	Firstc  string
	Prompt  string
	Indent  uint64

	// Special is the character shown at Pos while a key is pending.
	Special string
	Shift   bool
}

// Screen implements redraw.Sink and gui.State.
type Screen struct {
	rows, cols uint64
	grid       [][]Cell
	row, col   uint64
	region     redraw.Rect
	hl         Highlight

	fg, bg, sp *colorful.Color

	mode        string
	modeIdx     uint64
	modes       []redraw.ModeInfo
	cursorStyle bool
	mouse       bool
	busy        bool

	popup      *Popup
	tabCurrent redraw.Tabpage
	tabs       []redraw.Tab
	cmdlines   map[uint64]*Cmdline
	block      [][]redraw.Chunk

	title, icon string
	bells       int
	flashes     int
	font        string

	clip    *clipboard.Store
	session gui.Session

	redraws  int
	last     redraw.Repaint
	onRedraw func(redraw.Repaint)
}

// Option configures a Screen.
type Option func(*Screen)

// WithClipboard uses store for the editor's clipboard requests.
func WithClipboard(store *clipboard.Store) Option {
	return func(s *Screen) { s.clip = store }
}

// WithRedrawHook calls fn with the folded repaint of every batch.
func WithRedrawHook(fn func(redraw.Repaint)) Option {
	return func(s *Screen) { s.onRedraw = fn }
}

// New creates a cols x rows screen. Sizes beyond MaxDimension are clamped.
func New(cols, rows uint64, opts ...Option) *Screen {
	s := &Screen{cmdlines: make(map[uint64]*Cmdline)}
	for _, opt := range opts {
		opt(s)
	}
	if s.clip == nil {
		s.clip = clipboard.NewStore()
	}
	s.resize(min(cols, MaxDimension), min(rows, MaxDimension))
	return s
}

func (s *Screen) resize(cols, rows uint64) {
	grid := make([][]Cell, rows)
	for r := range grid {
		grid[r] = make([]Cell, cols)
		for c := range grid[r] {
			if uint64(r) < s.rows && uint64(c) < s.cols {
				grid[r][c] = s.grid[r][c]
			} else {
				grid[r][c] = blank
			}
		}
	}
	s.grid, s.rows, s.cols = grid, rows, cols
	s.region = redraw.Rect{Bot: sat(rows), Right: sat(cols)}
	if rows > 0 {
		s.row = min(s.row, rows-1)
	}
	if cols > 0 {
		s.col = min(s.col, cols-1)
	}
}

// sat returns the last index of an n-sized dimension.
func sat(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	return n - 1
}

func (s *Screen) inside(row, col uint64) bool {
	return row < s.rows && col < s.cols
}

func (s *Screen) cursorCell() redraw.Repaint {
	return redraw.Area(s.row, s.row, s.col, s.col)
}

func (s *Screen) CursorGoto(row, col uint64) redraw.Repaint {
	s.row, s.col = row, col
	return redraw.Cursor(row, col)
}

// Put writes text at the cursor and advances it one cell per printable
// rune. Zero-width runes join the previous cell; an empty string marks the
// continuation of a wide character.
func (s *Screen) Put(text string) redraw.Repaint {
	if !s.inside(s.row, s.col) {
		return redraw.Nothing()
	}
	start := s.col
	line := s.grid[s.row]
	if text == "" {
		line[s.col] = Cell{Hl: s.hl}
		s.col++
		return redraw.Area(s.row, s.row, start, start)
	}
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 && s.col > start {
			line[s.col-1].Text += string(r)
			continue
		}
		if s.col >= s.cols {
			break
		}
		line[s.col] = Cell{Text: string(r), Width: max(w, 1), Hl: s.hl}
		s.col++
	}
	if s.col == start {
		return redraw.Nothing()
	}
	return redraw.Area(s.row, s.row, start, s.col-1)
}

func (s *Screen) Clear() redraw.Repaint {
	for _, line := range s.grid {
		for c := range line {
			line[c] = blank
		}
	}
	return redraw.Full()
}

// Resize changes the grid size, keeping the overlapping cells. A size
// beyond MaxDimension is ignored.
func (s *Screen) Resize(cols, rows uint64) redraw.Repaint {
	if cols > MaxDimension || rows > MaxDimension {
		log.Warn("ignoring oversized resize", "cols", cols, "rows", rows)
		return redraw.Nothing()
	}
	s.resize(cols, rows)
	return redraw.Full()
}

func (s *Screen) HighlightSet(attrs decode.Attrs) redraw.Repaint {
	s.hl = NewHighlight(attrs)
	return redraw.Nothing()
}

func (s *Screen) EOLClear() redraw.Repaint {
	if !s.inside(s.row, s.col) {
		return redraw.Nothing()
	}
	line := s.grid[s.row]
	for c := s.col; c < s.cols; c++ {
		line[c] = blank
	}
	return redraw.Area(s.row, s.row, s.col, s.cols-1)
}

func (s *Screen) SetScrollRegion(top, bot, left, right uint64) redraw.Repaint {
	s.region = redraw.Rect{
		Top:   min(top, sat(s.rows)),
		Bot:   min(bot, sat(s.rows)),
		Left:  min(left, sat(s.cols)),
		Right: min(right, sat(s.cols)),
	}
	return redraw.Nothing()
}

// Scroll moves the scroll region up by count rows, or down when count is
// negative, blanking the rows uncovered.
func (s *Screen) Scroll(count int64) redraw.Repaint {
	reg := s.region
	if s.rows == 0 || s.cols == 0 || reg.Top > reg.Bot || reg.Left > reg.Right {
		return redraw.Nothing()
	}
	copyRow := func(dst int64) {
		from := dst + count
		for c := reg.Left; c <= reg.Right; c++ {
			if from >= int64(reg.Top) && from <= int64(reg.Bot) {
				s.grid[dst][c] = s.grid[from][c]
			} else {
				s.grid[dst][c] = blank
			}
		}
	}
	if count > 0 {
		for dst := int64(reg.Top); dst <= int64(reg.Bot); dst++ {
			copyRow(dst)
		}
	} else if count < 0 {
		for dst := int64(reg.Bot); dst >= int64(reg.Top); dst-- {
			copyRow(dst)
		}
	}
	return redraw.Area(reg.Top, reg.Bot, reg.Left, reg.Right)
}

func (s *Screen) UpdateBg(color int64) redraw.Repaint {
	s.bg = rgb(color)
	return redraw.Full()
}

func (s *Screen) UpdateFg(color int64) redraw.Repaint {
	s.fg = rgb(color)
	return redraw.Full()
}

func (s *Screen) UpdateSp(color int64) redraw.Repaint {
	s.sp = rgb(color)
	return redraw.Full()
}

func (s *Screen) ModeChange(mode string, idx uint64) redraw.Repaint {
	s.mode, s.modeIdx = mode, idx
	return s.cursorCell()
}

func (s *Screen) Mouse(on bool) redraw.Repaint {
	s.mouse = on
	return redraw.Nothing()
}

func (s *Screen) Busy(busy bool) redraw.Repaint {
	s.busy = busy
	return s.cursorCell()
}

func (s *Screen) PopupmenuShow(items []redraw.CompleteItem, selected int64, row, col uint64) redraw.Repaint {
	s.popup = &Popup{Items: items, Selected: selected, Row: row, Col: col}
	return redraw.Nothing()
}

func (s *Screen) PopupmenuHide() redraw.Repaint {
	s.popup = nil
	return redraw.Nothing()
}

func (s *Screen) PopupmenuSelect(selected int64) redraw.Repaint {
	if s.popup != nil {
		s.popup.Selected = selected
	}
	return redraw.Nothing()
}

func (s *Screen) TablineUpdate(selected redraw.Tabpage, tabs []redraw.Tab) redraw.Repaint {
	s.tabCurrent, s.tabs = selected, tabs
	return redraw.Nothing()
}

func (s *Screen) ModeInfoSet(cursorStyleEnabled bool, modes []redraw.ModeInfo) redraw.Repaint {
	s.cursorStyle, s.modes = cursorStyleEnabled, modes
	return s.cursorCell()
}

func (s *Screen) CmdlineShow(content []redraw.Chunk, pos uint64, firstc, prompt string, indent, level uint64) redraw.Repaint {
	s.cmdlines[level] = &Cmdline{Content: content, Pos: pos, Firstc: firstc, Prompt: prompt, Indent: indent}
	return redraw.Nothing()
}

func (s *Screen) CmdlineHide(level uint64) redraw.Repaint {
	delete(s.cmdlines, level)
	return redraw.Nothing()
}

func (s *Screen) CmdlineBlockShow(lines [][]redraw.Chunk) redraw.Repaint {
	s.block = lines
	return redraw.Nothing()
}

func (s *Screen) CmdlineBlockAppend(line []redraw.Chunk) redraw.Repaint {
	s.block = append(s.block, line)
	return redraw.Nothing()
}

func (s *Screen) CmdlineBlockHide() redraw.Repaint {
	s.block = nil
	return redraw.Nothing()
}

func (s *Screen) CmdlinePos(pos, level uint64) redraw.Repaint {
	if cl, ok := s.cmdlines[level]; ok {
		cl.Pos = pos
		cl.Special, cl.Shift = "", false
	}
	return redraw.Nothing()
}

func (s *Screen) CmdlineSpecialChar(c string, shift bool, level uint64) redraw.Repaint {
	if cl, ok := s.cmdlines[level]; ok {
		cl.Special, cl.Shift = c, shift
	}
	return redraw.Nothing()
}

func (s *Screen) SetTitle(title string) redraw.Repaint {
	s.title = title
	return redraw.Nothing()
}

func (s *Screen) SetIcon(icon string) redraw.Repaint {
	s.icon = icon
	return redraw.Nothing()
}

func (s *Screen) Bell(visual bool) redraw.Repaint {
	if visual {
		s.flashes++
	} else {
		s.bells++
	}
	return redraw.Nothing()
}

func (s *Screen) OnRedraw(r redraw.Repaint) {
	s.redraws++
	s.last = r
	if s.onRedraw != nil {
		s.onRedraw(r)
	}
}

func (s *Screen) SetFont(desc string) { s.font = desc }

func (s *Screen) Clipboard(primary bool) gui.Clipboard {
	if primary {
		return s.clip.Primary()
	}
	return s.clip.Clipboard()
}

func (s *Screen) Session() gui.Session { return s.session }

// Attach sets the editor session used for UI option changes. nil detaches.
func (s *Screen) Attach(session gui.Session) { s.session = session }
