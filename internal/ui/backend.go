package ui

import (
	"github.com/atomicstack/coco/internal/ui/command"
	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) handleFilterResultMsg(msg tea.Msg) tea.Cmd {
	resultMsg, ok := msg.(command.ResultMsg)
	if !ok || m.bus == nil {
		return nil
	}
	res := resultMsg.Result
	if m.bus.Accept(res) {
		if res.Err != nil {
			m.session.RejectPending(res.Err)
		} else {
			m.session.ApplyRanking(res.Ranking)
		}
	}
	return m.bus.Listen()
}

func (m *Model) handleFilterDoneMsg(msg tea.Msg) tea.Cmd {
	m.listening = false
	if m.session.Pending() {
		return m.requestFilter()
	}
	return nil
}
