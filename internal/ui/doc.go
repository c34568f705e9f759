// Package ui contains the Bubble Tea program that drives the line selector.
// The Model type focuses on message orchestration while dedicated helpers own
// key translation, filtering requests and rendering.
//
// Message flow:
//   - Bubble Tea invokes Model.Update with incoming messages, which are routed
//     through a typed handler registry so each tea.Msg is handled by a focused
//     function.
//   - Key presses (navigation.go) are translated into state.Event values
//     (input.go) and applied to the state.Session. Once the session reaches a
//     terminal status the model returns tea.Quit and the caller reads the
//     result from the session.
//
// State ownership:
//   - All selection state lives in internal/ui/state.Session; the model keeps
//     only the viewport size and the prompt caret.
//   - The visible rows come from internal/ui/render.Project, the same
//     projection the tcell backend draws, and are styled here with lipgloss.
//
// Asynchronous filtering:
//   - When a command.Bus is attached the session is created deferred. Query
//     changes leave it pending and the model submits a snapshot through the
//     bus; results arrive as command.ResultMsg and only the newest one is
//     applied. The listener command is re-armed after every result.
package ui
