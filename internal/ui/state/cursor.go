package state

import "github.com/atomicstack/coco/internal/logging/events"

// SetViewport records the terminal height, one row of which belongs to the
// prompt, and clamps the cursor into the visible rows.
func (s *Session) SetViewport(height int) {
	rows := height - 1
	if rows < 1 {
		rows = 1
	}
	if rows == s.rows {
		return
	}
	s.rows = rows
	s.clamp()
	s.track()
}

// MoveUp moves the cursor one row up, scrolling when it sits on the top row.
func (s *Session) MoveUp() {
	if s.cursor == 0 {
		if s.offset > 0 {
			s.offset--
		}
	} else {
		s.cursor--
	}
	events.UI.Cursor(s.cursor, s.offset)
	s.track()
}

// MoveDown moves the cursor one row down, scrolling when it sits on the last
// visible row. The window never scrolls past the final filtered entry.
func (s *Session) MoveDown() {
	n := s.choices.FilteredLen()
	if n == 0 {
		return
	}
	if s.cursor == s.rows-1 {
		s.offset = min(s.offset+1, max(0, n-s.rows))
	} else {
		s.cursor = min(s.cursor+1, min(n-s.offset, s.rows)-1)
	}
	events.UI.Cursor(s.cursor, s.offset)
	s.track()
}

// clamp restores 0 <= cursor < rows and cursor+offset < filtered while keeping
// the highlighted entry where possible.
func (s *Session) clamp() {
	n := s.choices.FilteredLen()
	if n == 0 {
		s.cursor = 0
		s.offset = 0
		return
	}
	pos := s.cursor + s.offset
	if pos >= n {
		pos = n - 1
	}
	if pos < 0 {
		pos = 0
	}
	cursor := min(s.cursor, s.rows-1, pos)
	if cursor < 0 {
		cursor = 0
	}
	offset := pos - cursor
	if maxOffset := max(0, n-s.rows); offset > maxOffset {
		cursor += offset - maxOffset
		offset = maxOffset
	}
	s.cursor = cursor
	s.offset = offset
}
