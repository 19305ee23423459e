package redraw

import "github.com/bastiangx/redrawd/pkg/decode"

// Sink owns the UI state that redraw events mutate. Each operation returns
// the repaint it makes necessary; OnRedraw receives the folded outcome once
// per batch.
type Sink interface {
	CursorGoto(row, col uint64) Repaint
	Put(text string) Repaint
	Clear() Repaint
	Resize(cols, rows uint64) Repaint
	HighlightSet(attrs decode.Attrs) Repaint
	EOLClear() Repaint
	SetScrollRegion(top, bot, left, right uint64) Repaint
	Scroll(count int64) Repaint
	UpdateBg(color int64) Repaint
	UpdateFg(color int64) Repaint
	UpdateSp(color int64) Repaint
	ModeChange(mode string, idx uint64) Repaint
	Mouse(on bool) Repaint
	Busy(busy bool) Repaint

	PopupmenuShow(items []CompleteItem, selected int64, row, col uint64) Repaint
	PopupmenuHide() Repaint
	PopupmenuSelect(selected int64) Repaint

	TablineUpdate(selected Tabpage, tabs []Tab) Repaint
	ModeInfoSet(cursorStyleEnabled bool, modes []ModeInfo) Repaint

	CmdlineShow(content []Chunk, pos uint64, firstc, prompt string, indent, level uint64) Repaint
	CmdlineHide(level uint64) Repaint
	CmdlineBlockShow(lines [][]Chunk) Repaint
	CmdlineBlockAppend(line []Chunk) Repaint
	CmdlineBlockHide() Repaint
	CmdlinePos(pos, level uint64) Repaint
	CmdlineSpecialChar(c string, shift bool, level uint64) Repaint

	OnRedraw(r Repaint)
}

// TitleSink is implemented by sinks that show the editor title and icon.
type TitleSink interface {
	SetTitle(title string) Repaint
	SetIcon(icon string) Repaint
}

// BellSink is implemented by sinks that can ring or flash.
type BellSink interface {
	Bell(visual bool) Repaint
}
