package state

import (
	"unicode"
	"unicode/utf8"

	"github.com/atomicstack/coco/internal/filter"
	"github.com/atomicstack/coco/internal/logging/events"
)

// AppendRune appends one codepoint to the query and re-filters. Invalid and
// control runes are ignored.
func (s *Session) AppendRune(r rune) bool {
	if r == utf8.RuneError || !utf8.ValidRune(r) || unicode.IsControl(r) {
		return false
	}
	s.query += string(r)
	events.Filter.Append(s.query)
	s.refilter()
	return true
}

// DeleteRune removes the final codepoint of the query and re-filters. It is a
// no-op on an empty query.
func (s *Session) DeleteRune() bool {
	if s.query == "" {
		return false
	}
	_, size := utf8.DecodeLastRuneInString(s.query)
	s.query = s.query[:len(s.query)-size]
	events.Filter.Backspace(s.query)
	s.refilter()
	return true
}

// RotateMode advances to the next configured filter mode and re-filters.
func (s *Session) RotateMode() filter.Mode {
	next := s.modes[0]
	for i, mode := range s.modes {
		if mode == s.mode {
			next = s.modes[(i+1)%len(s.modes)]
			break
		}
	}
	s.mode = next
	events.Filter.Rotate(s.mode.String())
	s.refilter()
	return s.mode
}

// ApplyRanking installs a ranking computed off the session goroutine for the
// current query and clears the pending flag.
func (s *Session) ApplyRanking(r Ranking) {
	s.choices.Replace(r)
	s.pending = false
	events.Filter.Applied(s.mode.String(), s.query, s.choices.FilteredLen(), s.choices.Len())
	s.resetNavigation()
}

// RejectPending clears the pending flag after a failed deferred pass; the
// previous ranking stays in place.
func (s *Session) RejectPending(err error) {
	s.pending = false
	events.Filter.Rejected(s.mode.String(), s.query, err)
}

func (s *Session) refilter() {
	if s.deferred {
		s.pending = true
		s.resetNavigation()
		return
	}
	s.rankNow()
}

// rankNow scores the current query on the calling goroutine and clears any
// pending deferred pass.
func (s *Session) rankNow() {
	s.pending = false
	if err := s.choices.Apply(s.mode, s.query); err != nil {
		events.Filter.Rejected(s.mode.String(), s.query, err)
	} else {
		events.Filter.Applied(s.mode.String(), s.query, s.choices.FilteredLen(), s.choices.Len())
	}
	s.resetNavigation()
}

func (s *Session) resetNavigation() {
	s.cursor = 0
	s.offset = 0
	s.track()
}
