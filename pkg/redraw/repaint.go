package redraw

import "fmt"

// RepaintKind orders repaint outcomes by how much of the surface they dirty.
type RepaintKind uint8

const (
	RepaintNothing RepaintKind = iota
	RepaintCursor
	RepaintArea
	RepaintFull
)

func (k RepaintKind) String() string {
	switch k {
	case RepaintNothing:
		return "nothing"
	case RepaintCursor:
		return "cursor"
	case RepaintArea:
		return "area"
	case RepaintFull:
		return "full"
	}
	return fmt.Sprintf("repaint(%d)", uint8(k))
}

// Rect is a block of grid cells. All bounds are inclusive.
type Rect struct {
	Top, Bot, Left, Right uint64
}

// Union returns the bounding rectangle of r and o.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		Top:   min(r.Top, o.Top),
		Bot:   max(r.Bot, o.Bot),
		Left:  min(r.Left, o.Left),
		Right: max(r.Right, o.Right),
	}
}

// Repaint is the screen invalidation caused by one call, or by a whole
// batch once folded. Row and Col are set for RepaintCursor, Rect for
// RepaintArea.
type Repaint struct {
	Kind RepaintKind
	Row  uint64
	Col  uint64
	Rect Rect
}

func Nothing() Repaint { return Repaint{} }

func Cursor(row, col uint64) Repaint {
	return Repaint{Kind: RepaintCursor, Row: row, Col: col}
}

func Area(top, bot, left, right uint64) Repaint {
	return Repaint{Kind: RepaintArea, Rect: Rect{Top: top, Bot: bot, Left: left, Right: right}}
}

func Full() Repaint { return Repaint{Kind: RepaintFull} }

// Join combines r with the outcome of a later call.
//
// The more severe outcome wins. Two areas merge into their bounding box and
// a later cursor position replaces an earlier one.
func (r Repaint) Join(next Repaint) Repaint {
	switch {
	case r.Kind == RepaintFull || next.Kind == RepaintFull:
		return Full()
	case r.Kind == RepaintArea && next.Kind == RepaintArea:
		return Repaint{Kind: RepaintArea, Rect: r.Rect.Union(next.Rect)}
	case next.Kind > r.Kind:
		return next
	case r.Kind > next.Kind:
		return r
	case r.Kind == RepaintCursor:
		return next
	}
	return r
}

// Fold joins outcomes in call order. Order matters: of two cursor
// outcomes the later one wins, so outcomes must be passed in wire order.
func Fold(outcomes ...Repaint) Repaint {
	acc := Nothing()
	for _, o := range outcomes {
		acc = acc.Join(o)
	}
	return acc
}

func (r Repaint) String() string {
	switch r.Kind {
	case RepaintCursor:
		return fmt.Sprintf("cursor(%d,%d)", r.Row, r.Col)
	case RepaintArea:
		return fmt.Sprintf("area(%d-%d,%d-%d)", r.Rect.Top, r.Rect.Bot, r.Rect.Left, r.Rect.Right)
	}
	return r.Kind.String()
}
