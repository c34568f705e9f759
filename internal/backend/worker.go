// Package backend runs filter passes off the UI goroutine.
package backend

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/atomicstack/coco/internal/filter"
	"github.com/atomicstack/coco/internal/ui/state"
)

// Request describes one filter pass. Prev is an immutable snapshot of the
// ranking the pass starts from; the worker never writes to it.
type Request struct {
	Seq       uint64
	Lines     []string
	Prev      []state.Choice
	Mode      filter.Mode
	Query     string
	Threshold float64
}

// Result carries the ranking computed for Request.Seq, or the error that
// rejected it.
type Result struct {
	Seq     uint64
	Ranking state.Ranking
	Err     error
}

// Worker ranks candidates in a single background goroutine. A new request
// replaces any queued one and cancels the pass in flight.
type Worker struct {
	ctx    context.Context
	cancel context.CancelFunc

	requests chan Request
	results  chan Result
	throttle *throttle
	wg       sync.WaitGroup

	mu         sync.Mutex
	cancelPass context.CancelFunc
	newest     uint64
}

// NewWorker starts a worker. interval spaces out consecutive passes; zero
// runs each pass as soon as it is requested.
func NewWorker(interval time.Duration) *Worker {
	ctx, cancel := context.WithCancel(context.Background())
	w := &Worker{
		ctx:      ctx,
		cancel:   cancel,
		requests: make(chan Request, 1),
		results:  make(chan Result, 16),
		throttle: newThrottle(interval),
	}
	w.wg.Add(1)
	go w.run()

	go func() {
		w.wg.Wait()
		close(w.results)
	}()

	return w
}

// Results returns the channel of completed passes. It is closed after Stop
// once the worker goroutine exits.
func (w *Worker) Results() <-chan Result {
	return w.results
}

// Submit queues req, dropping any request that has not started yet and
// cancelling the pass in flight. A request older than one already submitted
// is ignored.
func (w *Worker) Submit(req Request) {
	w.mu.Lock()
	if req.Seq < w.newest {
		w.mu.Unlock()
		return
	}
	w.newest = req.Seq
	if w.cancelPass != nil {
		w.cancelPass()
		w.cancelPass = nil
	}
	w.mu.Unlock()
	for {
		select {
		case w.requests <- req:
			return
		default:
		}
		select {
		case <-w.requests:
		default:
		}
	}
}

// Stop cancels the worker and any pass in flight.
func (w *Worker) Stop() {
	w.cancel()
}

// Wait blocks until the worker goroutine has exited and Results is closed.
func (w *Worker) Wait() {
	w.wg.Wait()
}

func (w *Worker) run() {
	defer w.wg.Done()
	for {
		select {
		case <-w.ctx.Done():
			return
		case req := <-w.requests:
			if !w.throttle.wait(w.ctx) {
				return
			}
			req = w.latest(req)
			ranking, err := state.Rank(w.beginPass(), req.Lines, req.Prev, req.Mode, req.Query, req.Threshold)
			w.endPass()
			if errors.Is(err, context.Canceled) {
				if w.ctx.Err() != nil {
					return
				}
				continue
			}
			select {
			case <-w.ctx.Done():
				return
			case w.results <- Result{Seq: req.Seq, Ranking: ranking, Err: err}:
			}
		}
	}
}

func (w *Worker) latest(req Request) Request {
	for {
		select {
		case newer := <-w.requests:
			req = newer
		default:
			return req
		}
	}
}

func (w *Worker) beginPass() context.Context {
	ctx, cancel := context.WithCancel(w.ctx)
	w.mu.Lock()
	w.cancelPass = cancel
	w.mu.Unlock()
	return ctx
}

func (w *Worker) endPass() {
	w.mu.Lock()
	if w.cancelPass != nil {
		w.cancelPass()
		w.cancelPass = nil
	}
	w.mu.Unlock()
}
