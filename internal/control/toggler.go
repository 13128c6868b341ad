package control

import (
	"sync"
	"time"
)

// Gesture is the outcome of a toggle press.
type Gesture int

const (
	// GestureToggle flips between pause and resume.
	GestureToggle Gesture = iota
	// GestureForceStop stops the run outright.
	GestureForceStop
)

// Toggler turns two presses inside Window into a force stop.
type Toggler struct {
	window time.Duration
	now    func() time.Time

	mu   sync.Mutex
	last time.Time
}

// NewToggler returns a toggler. A zero window disables force stop.
func NewToggler(window time.Duration) *Toggler {
	return &Toggler{window: window, now: time.Now}
}

// Press classifies a press. The press completing a force stop does not arm
// the next one.
func (t *Toggler) Press() Gesture {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	if t.window > 0 && !t.last.IsZero() && now.Sub(t.last) <= t.window {
		t.last = time.Time{}
		return GestureForceStop
	}
	t.last = now
	return GestureToggle
}
