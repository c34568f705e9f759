package ui

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/atomicstack/coco/internal/backend"
	"github.com/atomicstack/coco/internal/filter"
	"github.com/atomicstack/coco/internal/ui/command"
	"github.com/atomicstack/coco/internal/ui/state"
	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
)

func newTestHarness(t *testing.T, multi bool, lines ...string) *Harness {
	t.Helper()
	s := state.NewSession(lines, state.Options{
		Mode:        filter.SmartCase,
		MultiSelect: multi,
		Threshold:   state.DefaultThreshold,
	})
	h := NewHarness(NewModel(s, Options{Prompt: "QUERY> "}))
	h.Send(tea.WindowSizeMsg{Width: 40, Height: 6})
	return h
}

// runCmd executes cmd and any batched commands it expands to.
func runCmd(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	if batch, ok := cmd().(tea.BatchMsg); ok {
		for _, c := range batch {
			runCmd(c)
		}
	}
}

func viewRows(h *Harness) []string {
	rows := strings.Split(ansi.Strip(h.View()), "\n")
	for i, row := range rows {
		rows[i] = strings.TrimRight(row, " ")
	}
	return rows
}

func TestKeyEventsTranslation(t *testing.T) {
	cases := []struct {
		msg  tea.KeyMsg
		want []state.Event
	}{
		{tea.KeyMsg{Type: tea.KeyEnter}, []state.Event{{Key: state.KeyEnter}}},
		{tea.KeyMsg{Type: tea.KeyEsc}, []state.Event{{Key: state.KeyEscape}}},
		{tea.KeyMsg{Type: tea.KeyCtrlC}, []state.Event{{Key: state.KeyEscape}}},
		{tea.KeyMsg{Type: tea.KeyUp}, []state.Event{{Key: state.KeyUp}}},
		{tea.KeyMsg{Type: tea.KeyCtrlN}, []state.Event{{Key: state.KeyDown}}},
		{tea.KeyMsg{Type: tea.KeyTab}, []state.Event{{Key: state.KeyTab}}},
		{tea.KeyMsg{Type: tea.KeyBackspace}, []state.Event{{Key: state.KeyBackspace}}},
		{tea.KeyMsg{Type: tea.KeyCtrlR}, []state.Event{{Key: state.KeyRotate}}},
		{tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, []state.Event{state.RuneEvent(' ')}},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a🍣")}, []state.Event{state.RuneEvent('a'), state.RuneEvent('🍣')}},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("b"), Alt: true}, nil},
		{tea.KeyMsg{Type: tea.KeyF1}, nil},
	}
	for _, tc := range cases {
		if got := keyEvents(tc.msg); !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("%v: expected %#v, got %#v", tc.msg, tc.want, got)
		}
	}
}

func TestTypingFiltersAndConfirmQuits(t *testing.T) {
	h := newTestHarness(t, true, "apple", "banana", "grape")
	h.Type("an")
	if got := h.Model().Session().Choices().FilteredLen(); got != 1 {
		t.Fatalf("expected one match, got %d", got)
	}
	if h.Quit() {
		t.Fatal("expected the program to keep running")
	}
	h.Press(tea.KeyEnter)
	if !h.Quit() {
		t.Fatal("expected confirm to quit")
	}
	s := h.Model().Session()
	if s.Status() != state.StatusSelected || !reflect.DeepEqual(s.Result(), []string{"banana"}) {
		t.Fatalf("expected [banana] selected, got %v %v", s.Status(), s.Result())
	}
}

func TestEscapeQuitsWithoutResult(t *testing.T) {
	h := newTestHarness(t, true, "apple")
	h.Press(tea.KeyTab)
	h.Press(tea.KeyEsc)
	if !h.Quit() {
		t.Fatal("expected escape to quit")
	}
	if s := h.Model().Session(); s.Status() != state.StatusEscaped || len(s.Result()) != 0 {
		t.Fatalf("expected escaped with no result, got %v %v", s.Status(), s.Result())
	}
}

func TestPastedRunesApplyInOrder(t *testing.T) {
	h := newTestHarness(t, true, "foo bar", "bar")
	h.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("foo b"), Paste: true})
	if got := h.Model().Session().Query(); got != "foo b" {
		t.Fatalf("expected pasted query, got %q", got)
	}
	if got := h.Model().Session().Choices().FilteredLen(); got != 1 {
		t.Fatalf("expected one match, got %d", got)
	}
}

func TestWindowSizeClampsViewport(t *testing.T) {
	h := newTestHarness(t, true, "a", "b", "c", "d", "e", "f", "g")
	for i := 0; i < 4; i++ {
		h.Press(tea.KeyDown)
	}
	s := h.Model().Session()
	if s.Position() != 4 {
		t.Fatalf("expected position 4, got %d", s.Position())
	}
	h.Send(tea.WindowSizeMsg{Width: 40, Height: 3})
	if s.Rows() != 2 || s.Position() != 4 || s.Cursor() != 1 {
		t.Fatalf("expected clamp to keep position 4 on row 1, got rows=%d cursor=%d offset=%d", s.Rows(), s.Cursor(), s.Offset())
	}
}

func TestFixedHeightCapsViewport(t *testing.T) {
	s := state.NewSession([]string{"a", "b", "c"}, state.Options{Threshold: state.DefaultThreshold})
	h := NewHarness(NewModel(s, Options{Height: 3}))
	h.Send(tea.WindowSizeMsg{Width: 20, Height: 50})
	if s.Rows() != 2 {
		t.Fatalf("expected 2 rows under a height cap of 3, got %d", s.Rows())
	}
	if rows := viewRows(h); len(rows) != 3 {
		t.Fatalf("expected 3 rendered rows, got %d", len(rows))
	}
}

func TestAsyncFilterAppliesLatestResult(t *testing.T) {
	w := backend.NewWorker(0)
	t.Cleanup(func() {
		w.Stop()
		w.Wait()
	})
	bus := command.New(w)
	s := state.NewSession([]string{"apple", "banana", "grape"}, state.Options{
		Mode:        filter.CaseSensitive,
		MultiSelect: true,
		Threshold:   state.DefaultThreshold,
		Deferred:    true,
	})
	m := NewModel(s, Options{Bus: bus})
	m.filterCursor.SetMode(cursor.CursorStatic)
	m.listening = true

	runCmd(m.requestFilter())
	deliver := func() {
		t.Helper()
		done := make(chan tea.Msg, 1)
		go func() { done <- bus.Listen()() }()
		select {
		case msg := <-done:
			m.Update(msg)
		case <-time.After(2 * time.Second):
			t.Fatal("timeout waiting for filter result")
		}
	}
	deliver()
	if s.Pending() || s.Choices().FilteredLen() != 3 {
		t.Fatalf("expected initial ranking applied, pending=%v filtered=%d", s.Pending(), s.Choices().FilteredLen())
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("an")})
	if !s.Pending() {
		t.Fatal("expected query change to be pending")
	}
	if bus.Latest() != 2 {
		t.Fatalf("expected one queued request, latest=%d", bus.Latest())
	}
	deliver()
	if s.Pending() || s.Choices().FilteredLen() != 1 || s.Choices().Line(0) != "banana" {
		t.Fatalf("expected banana only, pending=%v filtered=%d", s.Pending(), s.Choices().FilteredLen())
	}
}

func TestAsyncTypingSettlesOnNewestQuery(t *testing.T) {
	w := backend.NewWorker(50 * time.Millisecond)
	t.Cleanup(func() {
		w.Stop()
		w.Wait()
	})
	bus := command.New(w)
	s := state.NewSession([]string{"apple", "banana", "grape"}, state.Options{
		Mode:        filter.CaseSensitive,
		MultiSelect: true,
		Threshold:   state.DefaultThreshold,
		Deferred:    true,
	})
	m := NewModel(s, Options{Bus: bus})
	m.filterCursor.SetMode(cursor.CursorStatic)
	m.listening = true

	m.requestFilter()
	for _, r := range "ana" {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	if bus.Latest() != 4 {
		t.Fatalf("expected four requests, latest=%d", bus.Latest())
	}

	timeout := time.After(2 * time.Second)
	for s.Pending() {
		select {
		case res, ok := <-w.Results():
			if !ok {
				t.Fatal("results closed while a ranking was pending")
			}
			m.Update(command.ResultMsg{Result: res})
		case <-timeout:
			t.Fatalf("timeout with query %q still pending", s.Query())
		}
	}
	if s.Choices().FilteredLen() != 1 || s.Choices().Line(0) != "banana" {
		t.Fatalf("expected banana for %q, got filtered=%d", s.Query(), s.Choices().FilteredLen())
	}
}

func TestStaleResultIsIgnored(t *testing.T) {
	w := backend.NewWorker(0)
	t.Cleanup(func() {
		w.Stop()
		w.Wait()
	})
	bus := command.New(w)
	s := state.NewSession([]string{"a", "b"}, state.Options{Threshold: state.DefaultThreshold, Deferred: true})
	m := NewModel(s, Options{Bus: bus})
	m.listening = true
	m.requestFilter()
	m.requestFilter()
	m.Update(command.ResultMsg{Result: backend.Result{Seq: 1, Ranking: state.Ranking{}}})
	if !s.Pending() {
		t.Fatal("expected stale result to leave the session pending")
	}
}

func TestWorkerShutdownFallsBackToSyncFiltering(t *testing.T) {
	w := backend.NewWorker(0)
	bus := command.New(w)
	s := state.NewSession([]string{"apple", "banana"}, state.Options{Mode: filter.CaseSensitive, Threshold: state.DefaultThreshold, Deferred: true})
	m := NewModel(s, Options{Bus: bus})
	m.listening = true
	w.Stop()
	w.Wait()
	m.Update(command.DoneMsg{})
	if s.Pending() || s.Choices().FilteredLen() != 2 {
		t.Fatalf("expected synchronous ranking after shutdown, pending=%v filtered=%d", s.Pending(), s.Choices().FilteredLen())
	}
}
