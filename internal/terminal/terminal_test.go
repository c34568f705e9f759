package terminal

import (
	"errors"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/atomicstack/coco/internal/filter"
	"github.com/atomicstack/coco/internal/ui/render"
	"github.com/atomicstack/coco/internal/ui/state"
)

func newSimTerminal(t *testing.T, width, height int) (*Terminal, tcell.SimulationScreen) {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	if err := sim.Init(); err != nil {
		t.Fatalf("failed to init simulation screen: %v", err)
	}
	sim.SetSize(width, height)
	term := New(sim)
	t.Cleanup(term.Close)
	return term, sim
}

func nextKey(t *testing.T, term *Terminal) state.Event {
	t.Helper()
	for {
		ev, ok := term.PollEvent()
		if !ok {
			t.Fatal("screen closed while polling")
		}
		if ev.Key != state.KeyResize {
			return ev
		}
	}
}

func rowText(sim tcell.SimulationScreen, y, width int) string {
	var out []rune
	for x := 0; x < width; {
		mainc, _, _, w := sim.GetContent(x, y)
		out = append(out, mainc)
		x += max(1, w)
	}
	return string(out)
}

func TestPollEventTranslatesKeys(t *testing.T) {
	term, sim := newSimTerminal(t, 20, 5)
	cases := []struct {
		ev   *tcell.EventKey
		want state.Event
	}{
		{tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), state.Event{Key: state.KeyEnter}},
		{tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), state.Event{Key: state.KeyEscape}},
		{tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl), state.Event{Key: state.KeyEscape}},
		{tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone), state.Event{Key: state.KeyUp}},
		{tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone), state.Event{Key: state.KeyDown}},
		{tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone), state.Event{Key: state.KeyTab}},
		{tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone), state.Event{Key: state.KeyBackspace}},
		{tcell.NewEventKey(tcell.KeyCtrlR, 0, tcell.ModCtrl), state.Event{Key: state.KeyRotate}},
		{tcell.NewEventKey(tcell.KeyRune, '🍣', tcell.ModNone), state.RuneEvent('🍣')},
	}
	for _, tc := range cases {
		if err := sim.PostEvent(tc.ev); err != nil {
			t.Fatalf("failed to post event: %v", err)
		}
		if got := nextKey(t, term); got != tc.want {
			t.Fatalf("expected %#v, got %#v", tc.want, got)
		}
	}
}

func TestPollEventSkipsUnboundKeys(t *testing.T) {
	term, sim := newSimTerminal(t, 20, 5)
	sim.PostEvent(tcell.NewEventKey(tcell.KeyF5, 0, tcell.ModNone))
	sim.PostEvent(tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModNone))
	if got := nextKey(t, term); got != state.RuneEvent('a') {
		t.Fatalf("expected rune a, got %#v", got)
	}
}

func TestDrawTextClipsAtRightEdge(t *testing.T) {
	term, sim := newSimTerminal(t, 6, 2)
	term.Clear()
	term.DrawText(1, 1, "ab🍣🍣")
	if err := term.Present(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := rowText(sim, 1, 6); got != " ab🍣 " {
		t.Fatalf("expected clipped row, got %q", got)
	}
}

func TestSetAttributesHighlightsRun(t *testing.T) {
	term, sim := newSimTerminal(t, 10, 3)
	term.Clear()
	term.DrawText(0, 2, "row")
	term.SetAttributes(0, 2, -1, render.AttrReverse|render.AttrBold)
	term.Present()
	for x := 0; x < 10; x++ {
		_, _, style, _ := sim.GetContent(x, 2)
		_, _, attrs := style.Decompose()
		if attrs&tcell.AttrReverse == 0 || attrs&tcell.AttrBold == 0 {
			t.Fatalf("expected reverse bold at column %d, got %v", x, attrs)
		}
	}
	_, _, style, _ := sim.GetContent(0, 1)
	if _, _, attrs := style.Decompose(); attrs != tcell.AttrNone {
		t.Fatalf("expected untouched row, got %v", attrs)
	}
}

func TestDrawProjectedFrame(t *testing.T) {
	term, sim := newSimTerminal(t, 30, 4)
	s := state.NewSession([]string{"apple", "banana", "grape"}, state.Options{
		Mode:        filter.CaseSensitive,
		MultiSelect: true,
		Threshold:   state.DefaultThreshold,
	})
	s.SetViewport(4)
	s.Handle(state.RuneEvent('a'))
	s.Handle(state.Event{Key: state.KeyTab})
	if err := render.Draw(term, render.Project(s, 30, 4, "QUERY> ")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := rowText(sim, 1, 30); got[:7] != "> apple" {
		t.Fatalf("expected marked apple row, got %q", got)
	}
	if got := rowText(sim, 0, 30); got[:8] != "QUERY> a" {
		t.Fatalf("expected prompt row, got %q", got)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	term, _ := newSimTerminal(t, 5, 5)
	term.Close()
	term.Close()
}

func TestOpenWrapsScreenErrors(t *testing.T) {
	orig := newScreen
	t.Cleanup(func() { newScreen = orig })
	newScreen = func() (tcell.Screen, error) {
		return nil, errors.New("no tty")
	}
	if _, err := Open(); !errors.Is(err, ErrNotTerminal) {
		t.Fatalf("expected ErrNotTerminal, got %v", err)
	}
}
