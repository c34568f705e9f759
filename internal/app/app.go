package app

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/atomicstack/coco/internal/backend"
	"github.com/atomicstack/coco/internal/filter"
	"github.com/atomicstack/coco/internal/logging/events"
	"github.com/atomicstack/coco/internal/source"
	"github.com/atomicstack/coco/internal/terminal"
	"github.com/atomicstack/coco/internal/theme"
	"github.com/atomicstack/coco/internal/ui"
	"github.com/atomicstack/coco/internal/ui/command"
	"github.com/atomicstack/coco/internal/ui/render"
	"github.com/atomicstack/coco/internal/ui/state"
	tea "github.com/charmbracelet/bubbletea"
)

// Backend names accepted by Config.Backend.
const (
	BackendTea   = "tea"
	BackendTcell = "tcell"
)

// asyncInterval spaces background filter passes while typing.
const asyncInterval = 30 * time.Millisecond

var errTerminalClosed = errors.New("terminal closed before a selection was made")

var openTerminal = terminal.Open

// Config describes user-provided application options.
type Config struct {
	Paths     []string
	Query     string
	Prompt    string
	MaxBuffer int
	ScoreMin  float64
	Filter    filter.Mode
	Filters   []filter.Mode
	Multi     bool
	Backend   string
	Async     bool
	Height    int
	NoColor   bool
}

// Run reads the candidate lines, lets the user pick from them and returns the
// chosen lines. A cancelled selection returns no lines and no error.
func Run(cfg Config) ([]string, error) {
	return run(cfg, os.Stdin)
}

func run(cfg Config, stdin io.Reader) ([]string, error) {
	input, err := source.ReadLines(cfg.Paths, stdin, cfg.MaxBuffer)
	if err != nil {
		return nil, err
	}
	events.App.Loaded(len(input.Lines), input.Truncated)
	if cfg.NoColor {
		theme.DisableColor()
	}

	async := cfg.Async && cfg.Backend != BackendTcell
	session := state.NewSession(input.Lines, state.Options{
		Query:       cfg.Query,
		Mode:        cfg.Filter,
		Modes:       cfg.Filters,
		MultiSelect: cfg.Multi,
		Threshold:   cfg.ScoreMin,
		Deferred:    async,
	})

	switch cfg.Backend {
	case BackendTcell:
		err = runTerminal(session, cfg)
	default:
		err = runProgram(session, cfg, async)
	}
	if err != nil {
		return nil, err
	}
	result := session.Result()
	events.App.Finish(session.Status().String(), len(result))
	return result, nil
}

// runProgram drives the session with Bubble Tea. The UI is drawn on stderr
// and keys are read from the controlling terminal so stdin and stdout stay
// free for the pipeline.
func runProgram(session *state.Session, cfg Config, async bool) error {
	opts := ui.Options{Prompt: cfg.Prompt, Height: cfg.Height}
	if async {
		worker := backend.NewWorker(asyncInterval)
		defer func() {
			worker.Stop()
			worker.Wait()
		}()
		opts.Bus = command.New(worker)
	}
	model := ui.NewModel(session, opts)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithInputTTY(), tea.WithOutput(os.Stderr))
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("run interface: %w", err)
	}
	return nil
}

// runTerminal drives the session with the tcell backend.
func runTerminal(session *state.Session, cfg Config) error {
	term, err := openTerminal()
	if err != nil {
		return err
	}
	defer term.Close()
	return drive(term, session, cfg)
}

func drive(term *terminal.Terminal, session *state.Session, cfg Config) error {
	for session.Status() == state.StatusContinue {
		width, height := term.Size()
		if cfg.Height > 0 {
			height = min(height, cfg.Height)
		}
		session.SetViewport(height)
		if err := render.Draw(term, render.Project(session, width, height, cfg.Prompt)); err != nil {
			return err
		}
		ev, ok := term.PollEvent()
		if !ok {
			return errTerminalClosed
		}
		session.Handle(ev)
	}
	return nil
}
