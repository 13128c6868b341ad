package clicker

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Handle controls one running clicker or typer.
type Handle struct {
	id       string
	tool     Tool
	cancel   context.CancelFunc
	done     chan struct{}
	observer Observer

	mu      sync.Mutex
	summary Summary
}

func newHandle(tool Tool, cancel context.CancelFunc, observer Observer) *Handle {
	return &Handle{
		id:       uuid.NewString(),
		tool:     tool,
		cancel:   cancel,
		done:     make(chan struct{}),
		observer: observer,
	}
}

// ID identifies the run.
func (h *Handle) ID() string {
	return h.id
}

// Tool reports whether this is the clicker or the typer.
func (h *Handle) Tool() Tool {
	return h.tool
}

// Stop cancels the loop. A pending interval aborts immediately.
func (h *Handle) Stop() {
	h.cancel()
}

// Done is closed after the Stopped event has been delivered.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Wait blocks until the loop ends and returns its summary.
func (h *Handle) Wait() Summary {
	<-h.done
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.summary
}

func (h *Handle) finish(summary Summary) {
	h.mu.Lock()
	h.summary = summary
	h.mu.Unlock()
	h.emit(Event{Kind: EventStopped, Passes: summary.Passes, Count: summary.Count, Summary: summary})
	close(h.done)
}

func (h *Handle) emit(ev Event) {
	if h.observer == nil {
		return
	}
	ev.RunID = h.id
	ev.Tool = h.tool
	h.observer(ev)
}
