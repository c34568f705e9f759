package state

import (
	"github.com/atomicstack/coco/internal/filter"
	"github.com/atomicstack/coco/internal/logging/events"
)

// Status is the outcome of handling one event.
type Status int

const (
	StatusContinue Status = iota
	StatusSelected
	StatusEscaped
)

func (s Status) String() string {
	switch s {
	case StatusSelected:
		return "selected"
	case StatusEscaped:
		return "escaped"
	default:
		return "continue"
	}
}

// Key identifies a backend-agnostic input event.
type Key int

const (
	KeyNone Key = iota
	KeyEnter
	KeyEscape
	KeyUp
	KeyDown
	KeyTab
	KeyBackspace
	KeyRotate
	KeyRune
	KeyResize
)

// Event is one decoded input event. Rune is only meaningful for KeyRune.
type Event struct {
	Key  Key
	Rune rune
}

// RuneEvent wraps a decoded codepoint.
func RuneEvent(r rune) Event {
	return Event{Key: KeyRune, Rune: r}
}

// Options configures a Session.
type Options struct {
	Query       string
	Mode        filter.Mode
	Modes       []filter.Mode
	MultiSelect bool
	Threshold   float64
	// Deferred leaves re-filtering to the caller: query changes mark the
	// session pending and a ranking must be supplied through ApplyRanking.
	Deferred bool
}

// Session is the interactive selection state: query, ranking, cursor, scroll
// offset and filter mode. It is owned by a single goroutine.
type Session struct {
	choices *Choices
	query   string
	cursor  int
	offset  int
	mode    filter.Mode
	modes   []filter.Mode
	multi   bool
	rows    int

	deferred bool
	pending  bool

	status Status
	result []string
}

// NewSession ranks lines for the initial query and mode.
func NewSession(lines []string, opts Options) *Session {
	modes := opts.Modes
	if len(modes) == 0 {
		modes = filter.DefaultModes()
	}
	s := &Session{
		choices:  NewChoices(lines, opts.Threshold),
		query:    opts.Query,
		mode:     opts.Mode,
		modes:    append([]filter.Mode(nil), modes...),
		multi:    opts.MultiSelect,
		rows:     1,
		deferred: opts.Deferred,
	}
	s.refilter()
	return s
}

func (s *Session) Choices() *Choices    { return s.choices }
func (s *Session) Query() string        { return s.query }
func (s *Session) Cursor() int          { return s.cursor }
func (s *Session) Offset() int          { return s.offset }
func (s *Session) Position() int        { return s.cursor + s.offset }
func (s *Session) Mode() filter.Mode    { return s.mode }
func (s *Session) Modes() []filter.Mode { return append([]filter.Mode(nil), s.modes...) }
func (s *Session) MultiSelect() bool    { return s.multi }
func (s *Session) Rows() int            { return s.rows }
func (s *Session) Status() Status       { return s.status }

// Pending reports whether a deferred query change awaits a ranking.
func (s *Session) Pending() bool { return s.pending }

// Result returns the lines chosen on confirm; nil unless StatusSelected.
func (s *Session) Result() []string {
	return append([]string(nil), s.result...)
}

// Handle applies ev and reports the resulting status. Once the session has
// left StatusContinue further events are ignored.
func (s *Session) Handle(ev Event) Status {
	if s.status != StatusContinue {
		return s.status
	}
	switch ev.Key {
	case KeyEnter:
		s.confirm()
	case KeyEscape:
		s.cancel()
	case KeyUp:
		s.MoveUp()
	case KeyDown:
		s.MoveDown()
	case KeyTab:
		s.ToggleCurrent()
	case KeyBackspace:
		s.DeleteRune()
	case KeyRotate:
		s.RotateMode()
	case KeyRune:
		s.AppendRune(ev.Rune)
	}
	return s.status
}

// confirm settles a pending deferred pass first so the result always reflects
// the query on screen.
func (s *Session) confirm() {
	if s.pending {
		s.rankNow()
	}
	if s.choices.FilteredLen() == 0 {
		s.cancel()
		return
	}
	s.result = s.choices.Selection(s.Position())
	s.status = StatusSelected
	events.Selection.Confirm(len(s.result))
}

func (s *Session) cancel() {
	s.choices.ClearSelection()
	s.result = nil
	s.status = StatusEscaped
	events.Selection.Cancel()
}
