package state

import "github.com/atomicstack/coco/internal/logging/events"

// ToggleCurrent flips the selection of the highlighted entry. Single-select
// sessions ignore it because the selection follows the cursor.
func (s *Session) ToggleCurrent() {
	if !s.multi {
		return
	}
	pos := s.Position()
	if s.choices.Toggle(pos) {
		events.Selection.Toggle(pos, s.choices.At(pos).Selected)
	}
}

// track keeps exactly the highlighted entry selected in single-select mode.
func (s *Session) track() {
	if s.multi {
		return
	}
	s.choices.ClearSelection()
	if pos := s.Position(); pos < s.choices.FilteredLen() {
		s.choices.items[pos].Selected = true
	}
}

// Toggle flips the selection flag at pos. Positions outside the filtered
// prefix are ignored.
func (c *Choices) Toggle(pos int) bool {
	if pos < 0 || pos >= c.filtered {
		return false
	}
	c.items[pos].Selected = !c.items[pos].Selected
	return true
}

// IsSelected reports whether the choice at pos is selected.
func (c *Choices) IsSelected(pos int) bool {
	if pos < 0 || pos >= len(c.items) {
		return false
	}
	return c.items[pos].Selected
}

// ClearSelection unselects every choice.
func (c *Choices) ClearSelection() {
	for i := range c.items {
		c.items[i].Selected = false
	}
}

// SelectedCount reports how many choices are selected.
func (c *Choices) SelectedCount() int {
	count := 0
	for _, item := range c.items[:c.filtered] {
		if item.Selected {
			count++
		}
	}
	return count
}

// Selection returns the selected lines in ranked order, or the line at
// fallback when nothing is selected. An empty filtered set yields nil.
func (c *Choices) Selection(fallback int) []string {
	var lines []string
	for _, item := range c.items[:c.filtered] {
		if item.Selected {
			lines = append(lines, c.lines[item.Index])
		}
	}
	if len(lines) > 0 {
		return lines
	}
	if fallback < 0 || fallback >= c.filtered {
		return nil
	}
	return []string{c.Line(fallback)}
}
