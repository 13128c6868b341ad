package workspace

import (
	"context"
	"sync"

	"github.com/frudas24/autoclick/internal/gate"
	"github.com/frudas24/autoclick/internal/sequence"
	"github.com/google/uuid"
)

// Handle controls one workspace run.
type Handle struct {
	id       string
	cancel   context.CancelFunc
	pause    *gate.Gate
	done     chan struct{}
	observer Observer

	mu       sync.Mutex
	state    sequence.State
	inner    *sequence.Handle
	progress Progress
	summary  Summary
}

func newHandle(cancel context.CancelFunc, observer Observer) *Handle {
	return &Handle{
		id:       uuid.NewString(),
		cancel:   cancel,
		pause:    gate.New(),
		done:     make(chan struct{}),
		observer: observer,
		state:    sequence.StateRunning,
	}
}

// ID identifies the run.
func (h *Handle) ID() string {
	return h.id
}

// State returns the workspace lifecycle state.
func (h *Handle) State() sequence.State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Progress returns the most recent progress notification.
func (h *Handle) Progress() Progress {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.progress
}

// Pause parks the workspace loop and the active profile run.
func (h *Handle) Pause() bool {
	h.mu.Lock()
	if h.state != sequence.StateRunning {
		h.mu.Unlock()
		return false
	}
	h.state = sequence.StatePaused
	h.pause.Close()
	inner := h.inner
	h.mu.Unlock()

	if inner != nil {
		inner.Pause()
	}
	h.emit(Event{Kind: EventPaused})
	return true
}

// Resume releases both the workspace loop and the active profile run.
func (h *Handle) Resume() bool {
	h.mu.Lock()
	if h.state != sequence.StatePaused {
		h.mu.Unlock()
		return false
	}
	h.state = sequence.StateRunning
	h.pause.Open()
	inner := h.inner
	h.mu.Unlock()

	if inner != nil {
		inner.Resume()
	}
	h.emit(Event{Kind: EventResumed})
	return true
}

// Stop reopens the gate, stops the active profile run and cancels the workspace.
func (h *Handle) Stop() {
	h.mu.Lock()
	if h.state == sequence.StateIdle {
		h.mu.Unlock()
		return
	}
	h.state = sequence.StateStopping
	h.pause.Open()
	inner := h.inner
	h.mu.Unlock()

	if inner != nil {
		inner.Stop()
	}
	h.cancel()
}

// Done is closed after the Stopped event has been delivered.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Wait blocks until the workspace run ends.
func (h *Handle) Wait() Summary {
	<-h.done
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.summary
}

func (h *Handle) setInner(inner *sequence.Handle) {
	h.mu.Lock()
	h.inner = inner
	h.mu.Unlock()
}

func (h *Handle) report(p Progress) {
	h.mu.Lock()
	h.progress = p
	h.mu.Unlock()
	h.emit(Event{Kind: EventProgress, Progress: p})
}

func (h *Handle) finish(summary Summary) {
	h.mu.Lock()
	h.state = sequence.StateIdle
	h.inner = nil
	h.summary = summary
	h.mu.Unlock()
	h.pause.Open()
	h.emit(Event{Kind: EventStopped, Summary: summary})
	close(h.done)
}

func (h *Handle) emit(ev Event) {
	if h.observer == nil {
		return
	}
	ev.RunID = h.id
	h.observer(ev)
}
