// Package gate provides the pause barrier and cancellable waits used by runs.
package gate

import (
	"context"
	"sync"
)

// Gate blocks waiters while closed. The zero value is not usable; use New.
type Gate struct {
	mu     sync.Mutex
	open   chan struct{}
	closed bool
}

// New returns an open gate.
func New() *Gate {
	ch := make(chan struct{})
	close(ch)
	return &Gate{open: ch}
}

// Close makes subsequent Wait calls block until Open. It reports whether the
// gate changed state.
func (g *Gate) Close() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return false
	}
	g.closed = true
	g.open = make(chan struct{})
	return true
}

// Open releases every waiter. It reports whether the gate changed state.
func (g *Gate) Open() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.closed {
		return false
	}
	g.closed = false
	close(g.open)
	return true
}

// IsClosed reports whether waiters currently block.
func (g *Gate) IsClosed() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.closed
}

// Wait returns nil once the gate is open, or ctx.Err() if ctx ends first.
func (g *Gate) Wait(ctx context.Context) error {
	for {
		g.mu.Lock()
		ch := g.open
		g.mu.Unlock()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ch:
		}
		// A Close racing with the wake-up reinstalls a fresh channel.
		g.mu.Lock()
		reclosed := g.closed
		g.mu.Unlock()
		if !reclosed {
			return ctx.Err()
		}
	}
}
