package redraw

import (
	"fmt"

	"github.com/bastiangx/redrawd/pkg/decode"
	"github.com/bastiangx/redrawd/pkg/value"
	"github.com/vmihailenco/msgpack/v5"
)

// CompleteItem is one row of the completion popup menu.
type CompleteItem struct {
	Word string
	Kind string
	Menu string
	Info string
}

// NewCompleteItem builds an item from the first four cells of a menu row.
func NewCompleteItem(cells []string) (CompleteItem, error) {
	if len(cells) < 4 {
		return CompleteItem{}, fmt.Errorf("%w: popup menu row has %d cells, need 4", decode.ErrShapeMismatch, len(cells))
	}
	return CompleteItem{Word: cells[0], Kind: cells[1], Menu: cells[2], Info: cells[3]}, nil
}

// Tabpage is an editor tab identity. The editor sends it as an extension
// value; it is kept verbatim so it can be sent back unchanged.
type Tabpage struct {
	value.Value
}

// tabpageExt is Neovim's extension type code for tabpage handles.
const tabpageExt = 2

// Handle decodes the numeric tabpage handle from the extension payload.
func (t Tabpage) Handle() (int64, bool) {
	typ, data, ok := t.AsExt()
	if !ok || typ != tabpageExt {
		return t.AsInt64()
	}
	var h int64
	if err := msgpack.Unmarshal(data, &h); err != nil {
		return 0, false
	}
	return h, true
}

// NewTabpage builds the wire form of a tabpage handle.
func NewTabpage(handle int64) Tabpage {
	data, err := msgpack.Marshal(handle)
	if err != nil {
		return Tabpage{value.Int(handle)}
	}
	return Tabpage{value.Ext(tabpageExt, data)}
}

// Tab is one tabline entry. Name is nil when the editor sends none.
type Tab struct {
	Page Tabpage
	Name *string
}

// Chunk is one highlighted piece of command-line content.
type Chunk struct {
	Attrs decode.Attrs
	Text  string
}

// Line joins the text of a chunk sequence.
func Line(chunks []Chunk) string {
	n := 0
	for _, c := range chunks {
		n += len(c.Text)
	}
	buf := make([]byte, 0, n)
	for _, c := range chunks {
		buf = append(buf, c.Text...)
	}
	return string(buf)
}

// CursorShape is the cursor form requested for an editor mode.
type CursorShape uint8

const (
	CursorBlock CursorShape = iota
	CursorHorizontal
	CursorVertical
)

func (c CursorShape) String() string {
	switch c {
	case CursorHorizontal:
		return "horizontal"
	case CursorVertical:
		return "vertical"
	}
	return "block"
}

// ModeInfo is one entry of the mode_info_set list.
type ModeInfo struct {
	Name           string
	ShortName      string
	CursorShape    *CursorShape
	CellPercentage uint64
	BlinkWait      uint64
	BlinkOn        uint64
	BlinkOff       uint64
	AttrID         uint64
	MouseShape     uint64
}

// NewModeInfo reads a mode entry. Missing keys keep their zero value;
// an unknown cursor shape or a key of the wrong type is an error.
func NewModeInfo(attrs decode.Attrs) (ModeInfo, error) {
	var mi ModeInfo
	if v, ok := attrs["cursor_shape"]; ok {
		name, ok := v.AsString()
		if !ok {
			return mi, fmt.Errorf("mode info: cursor_shape: %w", decode.ErrTypeMismatch)
		}
		var shape CursorShape
		switch name {
		case "block":
			shape = CursorBlock
		case "horizontal":
			shape = CursorHorizontal
		case "vertical":
			shape = CursorVertical
		default:
			return mi, fmt.Errorf("mode info: unknown cursor shape %q", name)
		}
		mi.CursorShape = &shape
	}

	for key, dst := range map[string]*string{"name": &mi.Name, "short_name": &mi.ShortName} {
		if v, ok := attrs[key]; ok {
			s, ok := v.AsString()
			if !ok {
				return mi, fmt.Errorf("mode info: %s: %w", key, decode.ErrTypeMismatch)
			}
			*dst = s
		}
	}

	uints := map[string]*uint64{
		"cell_percentage": &mi.CellPercentage,
		"blinkwait":       &mi.BlinkWait,
		"blinkon":         &mi.BlinkOn,
		"blinkoff":        &mi.BlinkOff,
		"attr_id":         &mi.AttrID,
		"mouse_shape":     &mi.MouseShape,
	}
	for key, dst := range uints {
		if v, ok := attrs[key]; ok {
			u, ok := v.AsUint64()
			if !ok {
				return mi, fmt.Errorf("mode info: %s: %w", key, decode.ErrTypeMismatch)
			}
			*dst = u
		}
	}
	return mi, nil
}
