package screen

import (
	"github.com/bastiangx/redrawd/pkg/decode"
	"github.com/lucasb-eyer/go-colorful"
)

// Highlight is the drawing style of a cell. Nil colours mean the screen
// default.
type Highlight struct {
	Fg, Bg, Sp *colorful.Color

	Bold      bool
	Italic    bool
	Underline bool
	Undercurl bool
	Reverse   bool
}

// rgb converts a 0xRRGGBB colour from the editor. Negative values select
// the default colour.
func rgb(c int64) *colorful.Color {
	if c < 0 {
		return nil
	}
	return &colorful.Color{
		R: float64((c>>16)&0xff) / 255,
		G: float64((c>>8)&0xff) / 255,
		B: float64(c&0xff) / 255,
	}
}

func colorAttr(attrs decode.Attrs, key string) *colorful.Color {
	c, ok := attrs.Int(key)
	if !ok {
		return nil
	}
	return rgb(c)
}

// NewHighlight decodes a highlight_set attribute map. Unknown or mistyped
// keys are ignored: an empty map resets to the default style.
func NewHighlight(attrs decode.Attrs) Highlight {
	flag := func(key string) bool {
		b, _ := attrs.Bool(key)
		return b
	}
	return Highlight{
		Fg:        colorAttr(attrs, "foreground"),
		Bg:        colorAttr(attrs, "background"),
		Sp:        colorAttr(attrs, "special"),
		Bold:      flag("bold"),
		Italic:    flag("italic"),
		Underline: flag("underline"),
		Undercurl: flag("undercurl"),
		Reverse:   flag("reverse"),
	}
}

// hex renders c for the screen dump, or "default" when unset.
func hex(c *colorful.Color) string {
	if c == nil {
		return "default"
	}
	return c.Hex()
}
