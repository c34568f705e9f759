// Package render projects a selection session onto terminal draw commands.
//
// Project is pure: the same session state always yields the same Frame, so
// frames can be snapshotted in tests and replayed onto any Screen.
package render

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Attr is a cell attribute applied to a run of cells.
type Attr uint8

const (
	AttrReverse Attr = 1 << iota
	AttrBold
)

func (a Attr) String() string {
	var parts []string
	if a&AttrReverse != 0 {
		parts = append(parts, "reverse")
	}
	if a&AttrBold != 0 {
		parts = append(parts, "bold")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// OpKind identifies a draw command.
type OpKind int

const (
	OpClear OpKind = iota
	OpText
	OpAttr
)

// Op is a single draw command. Text ops use X, Y and Text; attribute ops use
// X, Y, Length and Attr. A negative Length extends to the end of the row.
type Op struct {
	Kind   OpKind
	X, Y   int
	Text   string
	Length int
	Attr   Attr
}

func (op Op) String() string {
	switch op.Kind {
	case OpClear:
		return "clear"
	case OpText:
		return fmt.Sprintf("text %d,%d %q", op.X, op.Y, op.Text)
	case OpAttr:
		return fmt.Sprintf("attr %d,%d len=%d %s", op.X, op.Y, op.Length, op.Attr)
	default:
		return fmt.Sprintf("op(%d)", int(op.Kind))
	}
}

// Frame is the ordered draw output for one viewport size.
type Frame struct {
	Width  int
	Height int
	Ops    []Op
}

// String lists the ops one per line, suitable for golden snapshots.
func (f Frame) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "frame %dx%d\n", f.Width, f.Height)
	for _, op := range f.Ops {
		b.WriteString(op.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// Rows rasterises the frame into Height strings of plain text. Wide runes take
// two columns; text running past Width is clipped.
func (f Frame) Rows() []string {
	if f.Width <= 0 || f.Height <= 0 {
		return nil
	}
	grid := make([][]rune, f.Height)
	clearGrid := func() {
		for y := range grid {
			grid[y] = []rune(strings.Repeat(" ", f.Width))
		}
	}
	clearGrid()
	for _, op := range f.Ops {
		switch op.Kind {
		case OpClear:
			clearGrid()
		case OpText:
			if op.Y < 0 || op.Y >= f.Height {
				continue
			}
			x := op.X
			for _, r := range op.Text {
				w := runewidth.RuneWidth(r)
				if w == 0 {
					continue
				}
				if x < 0 || x+w > f.Width {
					break
				}
				grid[op.Y][x] = r
				for i := 1; i < w; i++ {
					grid[op.Y][x+i] = 0
				}
				x += w
			}
		}
	}
	rows := make([]string, f.Height)
	for y, cells := range grid {
		var b strings.Builder
		for _, r := range cells {
			if r != 0 {
				b.WriteRune(r)
			}
		}
		rows[y] = strings.TrimRight(b.String(), " ")
	}
	return rows
}

// RowAttr reports the attribute most recently applied at column 0 of row y.
func (f Frame) RowAttr(y int) Attr {
	var attr Attr
	for _, op := range f.Ops {
		switch op.Kind {
		case OpClear:
			attr = 0
		case OpAttr:
			if op.Y == y && op.X == 0 {
				attr = op.Attr
			}
		}
	}
	return attr
}

// Screen is the drawing surface a Frame is replayed onto.
type Screen interface {
	Clear()
	DrawText(x, y int, text string)
	SetAttributes(x, y, length int, attr Attr)
	Present() error
}

// Draw replays f onto scr and presents it.
func Draw(scr Screen, f Frame) error {
	for _, op := range f.Ops {
		switch op.Kind {
		case OpClear:
			scr.Clear()
		case OpText:
			scr.DrawText(op.X, op.Y, op.Text)
		case OpAttr:
			scr.SetAttributes(op.X, op.Y, op.Length, op.Attr)
		}
	}
	return scr.Present()
}
