package ui

import (
	"reflect"

	"github.com/atomicstack/coco/internal/theme"
	"github.com/atomicstack/coco/internal/ui/command"
	"github.com/atomicstack/coco/internal/ui/state"
	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	defaultPrompt = "QUERY> "
)

var styles = theme.Default()

type msgHandler func(tea.Msg) tea.Cmd

// Options configures a Model.
type Options struct {
	Prompt string
	// Height caps the rows used; zero uses the full terminal height.
	Height int
	// Bus runs filter passes in the background. It is required when the
	// session was created with Deferred set; nil filters synchronously.
	Bus *command.Bus
}

// Model implements the Bubble Tea model for the line selector.
type Model struct {
	session *state.Session
	prompt  string

	width       int
	height      int
	fixedHeight int

	bus       *command.Bus
	listening bool

	filterCursor      cursor.Model
	filterCursorDirty bool

	handlers map[reflect.Type]msgHandler
}

// NewModel wraps session for interactive use.
func NewModel(session *state.Session, opts Options) *Model {
	prompt := opts.Prompt
	if prompt == "" {
		prompt = defaultPrompt
	}
	m := &Model{
		session:     session,
		prompt:      prompt,
		width:       defaultWidth,
		height:      defaultHeight,
		fixedHeight: opts.Height,
		bus:         opts.Bus,
	}
	if m.fixedHeight > 0 {
		m.height = min(m.height, m.fixedHeight)
	}
	m.session.SetViewport(m.height)
	c := cursor.New()
	if styles.Cursor != nil {
		c.Style = styles.Cursor.Copy()
	}
	if styles.Query != nil {
		c.TextStyle = styles.Query.Copy()
	}
	c.SetChar(" ")
	m.filterCursor = c
	m.registerHandlers()
	return m
}

// Session exposes the selection state.
func (m *Model) Session() *state.Session {
	return m.session
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{}
	if m.bus != nil {
		m.listening = true
		cmds = append(cmds, m.bus.Listen())
	}
	if m.session.Pending() {
		if cmd := m.requestFilter(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	if cmd := m.filterCursor.Focus(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, 0, 4)
	if cmd := m.updateFilterCursorModel(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if handler := m.handlerFor(msg); handler != nil {
		if cmd := handler(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return m, m.finishUpdate(cmds)
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):        m.handleKeyMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}): m.handleWindowSizeMsg,
		reflect.TypeOf(command.ResultMsg{}): m.handleFilterResultMsg,
		reflect.TypeOf(command.DoneMsg{}):   m.handleFilterDoneMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

func (m *Model) finishUpdate(cmds []tea.Cmd) tea.Cmd {
	if m.filterCursorDirty {
		m.filterCursorDirty = false
		m.filterCursor.Blink = false
		if cmd := m.filterCursor.BlinkCmd(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}
