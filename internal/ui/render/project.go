package render

import (
	"fmt"

	"github.com/mattn/go-runewidth"

	"github.com/atomicstack/coco/internal/ui/state"
)

const (
	// Marker flags a selected row.
	Marker = ">"
	// TextColumn is where candidate text starts on each row.
	TextColumn = 2
	// CursorAttr distinguishes the highlighted row.
	CursorAttr = AttrReverse | AttrBold
)

// Project maps the session onto draw commands for a width x height viewport.
// Row 0 carries the prompt, query and status; the visible window of filtered
// lines fills the rows below it.
func Project(s *state.Session, width, height int, prompt string) Frame {
	f := Frame{Width: width, Height: height}
	f.Ops = append(f.Ops, Op{Kind: OpClear})
	if height <= 0 {
		return f
	}

	choices := s.Choices()
	offset := s.Offset()
	visible := min(VisibleRows(s, height), max(0, choices.FilteredLen()-offset))
	for y := 0; y < visible; y++ {
		pos := offset + y
		row := y + 1
		if choices.IsSelected(pos) {
			f.Ops = append(f.Ops, Op{Kind: OpText, X: 0, Y: row, Text: Marker})
		}
		f.Ops = append(f.Ops, Op{Kind: OpText, X: TextColumn, Y: row, Text: choices.Line(pos)})
		if y == s.Cursor() {
			f.Ops = append(f.Ops, Op{Kind: OpAttr, X: 0, Y: row, Length: width, Attr: CursorAttr})
		}
	}

	status := StatusText(s)
	f.Ops = append(f.Ops, Op{Kind: OpText, X: max(0, width-1-runewidth.StringWidth(status)), Y: 0, Text: status})
	f.Ops = append(f.Ops, Op{Kind: OpText, X: 0, Y: 0, Text: prompt + s.Query()})
	return f
}

// VisibleRows is the number of candidate rows available below the prompt.
func VisibleRows(s *state.Session, height int) int {
	return max(0, min(s.Rows(), height-1))
}

// StatusText renders the mode name and the 1-based position among the
// filtered lines, or 0 when nothing matches.
func StatusText(s *state.Session) string {
	filtered := s.Choices().FilteredLen()
	pos := 0
	if filtered > 0 {
		pos = s.Position() + 1
	}
	return fmt.Sprintf("%s [%d/%d]", s.Mode(), pos, filtered)
}
