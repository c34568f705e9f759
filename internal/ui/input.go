package ui

import (
	"github.com/atomicstack/coco/internal/ui/state"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func (m *Model) updateFilterCursorModel(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.filterCursor, cmd = m.filterCursor.Update(msg)
	return cmd
}

// keyEvents translates a key press into session events. Pasted text arrives
// as a single message carrying several runes.
func keyEvents(msg tea.KeyMsg) []state.Event {
	switch msg.Type {
	case tea.KeyEnter:
		return []state.Event{{Key: state.KeyEnter}}
	case tea.KeyEsc, tea.KeyCtrlC:
		return []state.Event{{Key: state.KeyEscape}}
	case tea.KeyUp, tea.KeyCtrlP:
		return []state.Event{{Key: state.KeyUp}}
	case tea.KeyDown, tea.KeyCtrlN:
		return []state.Event{{Key: state.KeyDown}}
	case tea.KeyTab:
		return []state.Event{{Key: state.KeyTab}}
	case tea.KeyBackspace, tea.KeyCtrlH:
		return []state.Event{{Key: state.KeyBackspace}}
	case tea.KeyCtrlR:
		return []state.Event{{Key: state.KeyRotate}}
	case tea.KeySpace:
		return []state.Event{state.RuneEvent(' ')}
	case tea.KeyRunes:
		if msg.Alt {
			return nil
		}
		evs := make([]state.Event, 0, len(msg.Runes))
		for _, r := range msg.Runes {
			evs = append(evs, state.RuneEvent(r))
		}
		return evs
	}
	return nil
}

// filterPrompt renders the prompt, the query and the caret after it.
func (m *Model) filterPrompt() string {
	render := func(style *lipgloss.Style, value string) string {
		if style == nil || value == "" {
			return value
		}
		return style.Render(value)
	}
	if styles.Cursor != nil {
		m.filterCursor.Style = styles.Cursor.Copy()
	}
	if styles.Query != nil {
		m.filterCursor.TextStyle = styles.Query.Copy()
	} else {
		m.filterCursor.TextStyle = lipgloss.Style{}
	}
	return render(styles.Prompt, m.prompt) + render(styles.Query, m.session.Query()) + m.renderFilterCursor(" ")
}

func (m *Model) renderFilterCursor(char string) string {
	if char == "" {
		char = " "
	}
	m.filterCursor.SetChar(char)

	base := m.filterCursor.TextStyle.Copy()
	base = base.Inline(true)

	if m.filterCursor.Blink {
		return base.Render(char)
	}

	if styles.Cursor != nil {
		cursorStyle := styles.Cursor.Copy().Inline(true)
		base = base.Inherit(cursorStyle).Blink(false)
		return base.Render(char)
	}

	return base.Reverse(true).Render(char)
}
