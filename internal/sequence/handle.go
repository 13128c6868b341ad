package sequence

import (
	"context"
	"sync"

	"github.com/frudas24/autoclick/internal/gate"
	"github.com/google/uuid"
)

// Handle controls one active run.
type Handle struct {
	id       string
	cancel   context.CancelFunc
	pause    *gate.Gate
	done     chan struct{}
	observer Observer

	mu      sync.Mutex
	state   State
	loop    int
	summary Summary
}

func newHandle(cancel context.CancelFunc, observer Observer) *Handle {
	return &Handle{
		id:       uuid.NewString(),
		cancel:   cancel,
		pause:    gate.New(),
		done:     make(chan struct{}),
		observer: observer,
		state:    StateRunning,
	}
}

// ID identifies the run.
func (h *Handle) ID() string {
	return h.id
}

// State returns the current lifecycle state.
func (h *Handle) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Loop returns the current 1-based pass number, or 0 before the first pass.
func (h *Handle) Loop() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.loop
}

// Pause parks the run at its next suspension point. It reports whether the
// state changed.
func (h *Handle) Pause() bool {
	h.mu.Lock()
	if h.state != StateRunning {
		h.mu.Unlock()
		return false
	}
	h.state = StatePaused
	h.pause.Close()
	h.mu.Unlock()
	h.emit(Event{Kind: EventPaused})
	return true
}

// Resume releases a paused run. It reports whether the state changed.
func (h *Handle) Resume() bool {
	h.mu.Lock()
	if h.state != StatePaused {
		h.mu.Unlock()
		return false
	}
	h.state = StateRunning
	h.pause.Open()
	h.mu.Unlock()
	h.emit(Event{Kind: EventResumed})
	return true
}

// Stop cancels the run. Pending waits abort immediately.
func (h *Handle) Stop() {
	h.mu.Lock()
	if h.state == StateIdle {
		h.mu.Unlock()
		return
	}
	h.state = StateStopping
	h.mu.Unlock()
	h.cancel()
}

// Done is closed after the Stopped event has been delivered.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Wait blocks until the run ends and returns its summary.
func (h *Handle) Wait() Summary {
	<-h.done
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.summary
}

// checkpoint is the suspension point: it parks while either gate is closed
// and reports cancellation.
func (h *Handle) checkpoint(ctx context.Context, hold *gate.Gate) error {
	if err := h.pause.Wait(ctx); err != nil {
		return err
	}
	if hold != nil {
		if err := hold.Wait(ctx); err != nil {
			return err
		}
	}
	return ctx.Err()
}

func (h *Handle) setLoop(loop int) {
	h.mu.Lock()
	h.loop = loop
	h.mu.Unlock()
}

// finish records the summary, returns to Idle and fires Stopped once.
func (h *Handle) finish(summary Summary) {
	h.mu.Lock()
	h.state = StateIdle
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
