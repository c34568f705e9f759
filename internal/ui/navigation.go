package ui

import (
	"context"

	"github.com/atomicstack/coco/internal/backend"
	"github.com/atomicstack/coco/internal/logging/events"
	"github.com/atomicstack/coco/internal/ui/state"
	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	evs := keyEvents(keyMsg)
	if len(evs) == 0 {
		return nil
	}
	before := m.session.Query()
	for _, ev := range evs {
		if m.session.Handle(ev) != state.StatusContinue {
			return tea.Quit
		}
	}
	if m.session.Query() != before {
		m.filterCursorDirty = true
	}
	if m.session.Pending() {
		return m.requestFilter()
	}
	return nil
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	sizeMsg, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	if sizeMsg.Width > 0 {
		m.width = sizeMsg.Width
	}
	if sizeMsg.Height > 0 {
		m.height = sizeMsg.Height
		if m.fixedHeight > 0 {
			m.height = min(m.height, m.fixedHeight)
		}
	}
	events.UI.Resize(m.width, m.height)
	m.session.SetViewport(m.height)
	return nil
}

// requestFilter hands the current query to the worker, or ranks in place when
// no worker is attached.
func (m *Model) requestFilter() tea.Cmd {
	choices := m.session.Choices()
	snapshot := choices.Snapshot()
	req := backend.Request{
		Lines:     choices.Lines(),
		Prev:      snapshot.Choices,
		Mode:      m.session.Mode(),
		Query:     m.session.Query(),
		Threshold: choices.Threshold(),
	}
	if m.bus == nil || !m.listening {
		ranking, err := state.Rank(context.Background(), req.Lines, req.Prev, req.Mode, req.Query, req.Threshold)
		if err != nil {
			m.session.RejectPending(err)
		} else {
			m.session.ApplyRanking(ranking)
		}
		return nil
	}
	m.bus.Filter(req)
	return nil
}
