package command

import (
	"github.com/atomicstack/coco/internal/backend"
	"github.com/atomicstack/coco/internal/logging/events"
	tea "github.com/charmbracelet/bubbletea"
)

// ResultMsg delivers a finished filter pass to the model.
type ResultMsg struct {
	Result backend.Result
}

// DoneMsg reports that the worker has shut down.
type DoneMsg struct{}

// Bus coordinates asynchronous filter passes. It numbers each request so the
// model can tell the newest result from stale ones. Bus is used only from the
// Bubble Tea update goroutine.
type Bus struct {
	worker *backend.Worker
	latest uint64
}

// New initialises a command bus over worker.
func New(worker *backend.Worker) *Bus {
	return &Bus{worker: worker}
}

// Filter numbers req and hands it to the worker. Submission happens on the
// calling goroutine so the worker sees requests in sequence order.
func (b *Bus) Filter(req backend.Request) {
	b.latest++
	req.Seq = b.latest
	events.Command.Queue(req.Seq, req.Query)
	b.worker.Submit(req)
}

// Listen waits for the next finished pass.
func (b *Bus) Listen() tea.Cmd {
	results := b.worker.Results()
	return func() tea.Msg {
		res, ok := <-results
		if !ok {
			return DoneMsg{}
		}
		return ResultMsg{Result: res}
	}
}

// Accept reports whether res answers the most recent request.
func (b *Bus) Accept(res backend.Result) bool {
	if res.Seq != b.latest {
		events.Command.Stale(res.Seq, b.latest)
		return false
	}
	events.Command.Result(res.Seq, res.Ranking.Filtered)
	return true
}

// Latest is the sequence number of the newest request.
func (b *Bus) Latest() uint64 {
	return b.latest
}
