package screen

import (
	"fmt"
	"strings"

	"github.com/bastiangx/redrawd/pkg/redraw"
	"github.com/charmbracelet/lipgloss"
)

func (s *Screen) Size() (cols, rows uint64) { return s.cols, s.rows }

func (s *Screen) Cursor() (row, col uint64) { return s.row, s.col }

// Cell returns the cell at row, col. ok is false outside the grid.
func (s *Screen) Cell(row, col uint64) (Cell, bool) {
	if !s.inside(row, col) {
		return Cell{}, false
	}
	return s.grid[row][col], true
}

// Line returns the text of a grid row, skipping wide-character
// continuations.
func (s *Screen) Line(row uint64) string {
	if row >= s.rows {
		return ""
	}
	var b strings.Builder
	for _, c := range s.grid[row] {
		b.WriteString(c.Text)
	}
	return b.String()
}

func (s *Screen) Mode() (string, uint64) { return s.mode, s.modeIdx }

func (s *Screen) ModeInfos() ([]redraw.ModeInfo, bool) { return s.modes, s.cursorStyle }

func (s *Screen) MouseEnabled() bool { return s.mouse }

func (s *Screen) IsBusy() bool { return s.busy }

func (s *Screen) Highlight() Highlight { return s.hl }

func (s *Screen) ScrollRegion() redraw.Rect { return s.region }

// Popup returns the visible completion menu, or nil.
func (s *Screen) Popup() *Popup { return s.popup }

func (s *Screen) Tabline() (redraw.Tabpage, []redraw.Tab) { return s.tabCurrent, s.tabs }

// Cmdline returns the command line at level, or nil when hidden.
func (s *Screen) Cmdline(level uint64) *Cmdline { return s.cmdlines[level] }

func (s *Screen) CmdlineBlock() [][]redraw.Chunk { return s.block }

func (s *Screen) Title() string { return s.title }

func (s *Screen) Icon() string { return s.icon }

func (s *Screen) Font() string { return s.font }

// Bells returns how many audible and visual bells have rung.
func (s *Screen) Bells() (audible, visual int) { return s.bells, s.flashes }

// Redraws returns the number of completed batches and the last outcome.
func (s *Screen) Redraws() (int, redraw.Repaint) { return s.redraws, s.last }

var (
	frameStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	cursorMark  = lipgloss.NewStyle().Reverse(true)
)

// Render draws the grid in a frame with a status line underneath.
func (s *Screen) Render() string {
	lines := make([]string, s.rows)
	for r := range lines {
		line := s.Line(uint64(r))
		if uint64(r) == s.row && s.col < s.cols {
			cells := s.grid[r]
			var b strings.Builder
			for c, cell := range cells {
				if uint64(c) == s.col {
					b.WriteString(cursorMark.Render(cell.Text))
					continue
				}
				b.WriteString(cell.Text)
			}
			line = b.String()
		}
		lines[r] = line
	}

	status := fmt.Sprintf("%dx%d cursor %d,%d mode %q fg %s bg %s",
		s.cols, s.rows, s.row, s.col, s.mode, hex(s.fg), hex(s.bg))
	if s.title != "" {
		status = s.title + "  " + status
	}
	if cl := s.cmdlines[1]; cl != nil {
		status += "\n" + cl.Firstc + cl.Prompt + strings.Repeat(" ", int(cl.Indent)) + redraw.Line(cl.Content)
	}
	if s.popup != nil {
		status += fmt.Sprintf("\npopup: %d items, selected %d", len(s.popup.Items), s.popup.Selected)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		frameStyle.Render(strings.Join(lines, "\n")),
		statusStyle.Render(status),
	)
}
