package redraw

import (
	"fmt"

	"github.com/bastiangx/redrawd/pkg/decode"
)

// recorder is a Sink that logs every operation it receives.
type recorder struct {
	calls   []string
	redraws []Repaint
	// outcome is returned by every operation.
	outcome Repaint

	items []CompleteItem
	tabs  []Tab
	modes []ModeInfo
	attrs decode.Attrs
	lines [][]Chunk
	title string
}

func (r *recorder) rec(format string, args ...any) Repaint {
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
	return r.outcome
}

func (r *recorder) CursorGoto(row, col uint64) Repaint { return r.rec("CursorGoto(%d,%d)", row, col) }
func (r *recorder) Put(text string) Repaint           { return r.rec("Put(%q)", text) }
func (r *recorder) Clear() Repaint                    { return r.rec("Clear()") }
func (r *recorder) Resize(cols, rows uint64) Repaint  { return r.rec("Resize(%d,%d)", cols, rows) }
func (r *recorder) HighlightSet(attrs decode.Attrs) Repaint {
	r.attrs = attrs
	return r.rec("HighlightSet(%v)", attrs.Keys())
}
func (r *recorder) EOLClear() Repaint { return r.rec("EOLClear()") }
func (r *recorder) SetScrollRegion(top, bot, left, right uint64) Repaint {
	return r.rec("SetScrollRegion(%d,%d,%d,%d)", top, bot, left, right)
}
func (r *recorder) Scroll(count int64) Repaint   { return r.rec("Scroll(%d)", count) }
func (r *recorder) UpdateBg(color int64) Repaint { return r.rec("UpdateBg(%d)", color) }
func (r *recorder) UpdateFg(color int64) Repaint { return r.rec("UpdateFg(%d)", color) }
func (r *recorder) UpdateSp(color int64) Repaint { return r.rec("UpdateSp(%d)", color) }
func (r *recorder) ModeChange(mode string, idx uint64) Repaint {
	return r.rec("ModeChange(%q,%d)", mode, idx)
}
func (r *recorder) Mouse(on bool) Repaint   { return r.rec("Mouse(%v)", on) }
func (r *recorder) Busy(busy bool) Repaint  { return r.rec("Busy(%v)", busy) }
func (r *recorder) PopupmenuHide() Repaint  { return r.rec("PopupmenuHide()") }
func (r *recorder) CmdlineBlockHide() Repaint { return r.rec("CmdlineBlockHide()") }
func (r *recorder) PopupmenuShow(items []CompleteItem, selected int64, row, col uint64) Repaint {
	r.items = items
	return r.rec("PopupmenuShow(%d,%d,%d,%d)", len(items), selected, row, col)
}
func (r *recorder) PopupmenuSelect(selected int64) Repaint {
	return r.rec("PopupmenuSelect(%d)", selected)
}
func (r *recorder) TablineUpdate(selected Tabpage, tabs []Tab) Repaint {
	r.tabs = tabs
	h, _ := selected.Handle()
	return r.rec("TablineUpdate(%d,%d)", h, len(tabs))
}
func (r *recorder) ModeInfoSet(enabled bool, modes []ModeInfo) Repaint {
	r.modes = modes
	return r.rec("ModeInfoSet(%v,%d)", enabled, len(modes))
}
func (r *recorder) CmdlineShow(content []Chunk, pos uint64, firstc, prompt string, indent, level uint64) Repaint {
	return r.rec("CmdlineShow(%q,%d,%q,%q,%d,%d)", Line(content), pos, firstc, prompt, indent, level)
}
func (r *recorder) CmdlineHide(level uint64) Repaint { return r.rec("CmdlineHide(%d)", level) }
func (r *recorder) CmdlineBlockShow(lines [][]Chunk) Repaint {
	r.lines = lines
	return r.rec("CmdlineBlockShow(%d)", len(lines))
}
func (r *recorder) CmdlineBlockAppend(line []Chunk) Repaint {
	return r.rec("CmdlineBlockAppend(%q)", Line(line))
}
func (r *recorder) CmdlinePos(pos, level uint64) Repaint {
	return r.rec("CmdlinePos(%d,%d)", pos, level)
}
func (r *recorder) CmdlineSpecialChar(c string, shift bool, level uint64) Repaint {
	return r.rec("CmdlineSpecialChar(%q,%v,%d)", c, shift, level)
}
func (r *recorder) OnRedraw(rp Repaint) { r.redraws = append(r.redraws, rp) }

// titled adds the optional title capability.
type titled struct {
	recorder
}

func (t *titled) SetTitle(title string) Repaint {
	t.title = title
	return t.rec("SetTitle(%q)", title)
}
func (t *titled) SetIcon(icon string) Repaint { return t.rec("SetIcon(%q)", icon) }
