// Package terminal is the cell-based backend built on tcell. It owns the
// terminal in raw mode from Open until Close and translates key presses into
// session events.
package terminal

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/atomicstack/coco/internal/logging/events"
	"github.com/atomicstack/coco/internal/ui/render"
	"github.com/atomicstack/coco/internal/ui/state"
)

// ErrNotTerminal reports that no usable terminal could be initialised.
var ErrNotTerminal = errors.New("terminal unavailable")

var newScreen = tcell.NewScreen

// Terminal adapts a tcell.Screen to render.Screen and the session event set.
type Terminal struct {
	screen    tcell.Screen
	closeOnce sync.Once
}

var _ render.Screen = (*Terminal)(nil)

// Open initialises the controlling terminal. Nothing needs restoring when it
// fails.
func Open() (*Terminal, error) {
	scr, err := newScreen()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotTerminal, err)
	}
	if err := scr.Init(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotTerminal, err)
	}
	return New(scr), nil
}

// New wraps an initialised screen.
func New(scr tcell.Screen) *Terminal {
	return &Terminal{screen: scr}
}

// Close restores the terminal. It is safe to call more than once.
func (t *Terminal) Close() {
	t.closeOnce.Do(func() {
		t.screen.Fini()
	})
}

// Size reports the viewport in cells.
func (t *Terminal) Size() (width, height int) {
	return t.screen.Size()
}

// PollEvent blocks until a key the session understands arrives or the
// terminal is resized. It returns false once the screen has been closed.
func (t *Terminal) PollEvent() (state.Event, bool) {
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return state.Event{}, false
		}
		switch tev := ev.(type) {
		case *tcell.EventResize:
			w, h := tev.Size()
			events.UI.Resize(w, h)
			t.screen.Sync()
			return state.Event{Key: state.KeyResize}, true
		case *tcell.EventKey:
			if out, ok := translateKey(tev); ok {
				return out, true
			}
		}
	}
}

func translateKey(ev *tcell.EventKey) (state.Event, bool) {
	switch ev.Key() {
	case tcell.KeyEnter:
		return state.Event{Key: state.KeyEnter}, true
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return state.Event{Key: state.KeyEscape}, true
	case tcell.KeyUp, tcell.KeyCtrlP:
		return state.Event{Key: state.KeyUp}, true
	case tcell.KeyDown, tcell.KeyCtrlN:
		return state.Event{Key: state.KeyDown}, true
	case tcell.KeyTab:
		return state.Event{Key: state.KeyTab}, true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return state.Event{Key: state.KeyBackspace}, true
	case tcell.KeyCtrlR:
		return state.Event{Key: state.KeyRotate}, true
	case tcell.KeyRune:
		return state.RuneEvent(ev.Rune()), true
	}
	return state.Event{}, false
}

// Clear blanks every cell.
func (t *Terminal) Clear() {
	t.screen.Clear()
}

// DrawText writes text from (x, y), stepping by display width and clipping at
// the right edge.
func (t *Terminal) DrawText(x, y int, text string) {
	width, height := t.screen.Size()
	if y < 0 || y >= height {
		return
	}
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if x+w > width {
			return
		}
		t.screen.SetContent(x, y, r, nil, tcell.StyleDefault)
		x += w
	}
}

// SetAttributes applies attr to length cells from (x, y). A negative length
// runs to the end of the row.
func (t *Terminal) SetAttributes(x, y, length int, attr render.Attr) {
	width, height := t.screen.Size()
	if y < 0 || y >= height {
		return
	}
	end := width
	if length >= 0 {
		end = min(width, x+length)
	}
	for cx := max(0, x); cx < end; {
		mainc, combc, style, w := t.screen.GetContent(cx, y)
		t.screen.SetContent(cx, y, mainc, combc, applyAttr(style, attr))
		cx += max(1, w)
	}
}

func applyAttr(style tcell.Style, attr render.Attr) tcell.Style {
	if attr&render.AttrReverse != 0 {
		style = style.Reverse(true)
	}
	if attr&render.AttrBold != 0 {
		style = style.Bold(true)
	}
	return style
}

// Present flushes pending changes to the terminal.
func (t *Terminal) Present() error {
	t.screen.Show()
	return nil
}
