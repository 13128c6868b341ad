// Package sequence runs ordered action lists with loop, pause, and stop control.
package sequence

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/frudas24/autoclick/internal/gate"
	"github.com/frudas24/autoclick/internal/logger"
	"github.com/frudas24/autoclick/internal/model"
	"github.com/frudas24/autoclick/internal/wininput"
)

// Runner executes at most one action list at a time.
type Runner struct {
	driver wininput.Driver
	log    *slog.Logger

	mu     sync.Mutex
	active *Handle
}

// New returns a runner that injects input through driver.
func New(driver wininput.Driver) (*Runner, error) {
	if driver == nil {
		return nil, errors.New("driver is required")
	}
	return &Runner{driver: driver, log: logger.Area("sequence")}, nil
}

// Start launches a run on its own goroutine. It returns false without any
// notification when a run is already active or there are no actions.
func (r *Runner) Start(ctx context.Context, req Request) (*Handle, bool) {
	if len(req.Actions) == 0 {
		return nil, false
	}
	r.mu.Lock()
	if r.active != nil {
		r.mu.Unlock()
		return nil, false
	}
	runCtx, cancel := context.WithCancel(ctx)
	h := newHandle(cancel, req.Observer)
	r.active = h
	r.mu.Unlock()

	go r.run(runCtx, h, req)
	return h, true
}

// Run starts a run and blocks until it ends.
func (r *Runner) Run(ctx context.Context, req Request) (Summary, bool) {
	h, ok := r.Start(ctx, req)
	if !ok {
		return Summary{}, false
	}
	return h.Wait(), true
}

// Active returns the handle of the current run, or nil.
func (r *Runner) Active() *Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

func (r *Runner) run(ctx context.Context, h *Handle, req Request) {
	summary := Summary{Started: time.Now()}
	log := r.log.With("run", h.id)

	restoreX, restoreY, restore := 0, 0, false
	if req.RestoreCursor {
		x, y, err := r.driver.CursorPos()
		if err != nil {
			log.Warn("cursor capture failed, position will not be restored", "err", err)
		} else {
			restoreX, restoreY, restore = x, y, true
		}
	}

	defer func() {
		if restore {
			if err := r.driver.SetCursorPos(restoreX, restoreY); err != nil {
				log.Warn("cursor restore failed", "err", err)
			}
		}
		summary.Cancelled = ctx.Err() != nil
		summary.Ended = time.Now()
		h.cancel()

		r.mu.Lock()
		if r.active == h {
			r.active = nil
		}
		r.mu.Unlock()

		log.Debug("run finished", "executed", summary.Executed, "loops", summary.Loops, "cancelled", summary.Cancelled)
		h.finish(summary)
	}()

	last := len(req.Actions) - 1
	for loop := 1; ctx.Err() == nil; loop++ {
		h.setLoop(loop)
		summary.Loops = loop
		executedThisPass := 0

		for i, action := range req.Actions {
			if ctx.Err() != nil {
				return
			}
			if !action.Enabled {
				continue
			}
			repeats := max(1, action.RepeatCount)
			for rep := 0; rep < repeats; rep++ {
				if err := h.checkpoint(ctx, req.Hold); err != nil {
					return
				}
				if err := r.execute(ctx, log, action); err != nil {
					return
				}
				summary.Executed++
				executedThisPass++
				h.emit(Event{Kind: EventActionExecuted, Index: i, Loop: loop})

				if rep < repeats-1 {
					if err := gate.Sleep(ctx, model.Ms(action.DelayMs)); err != nil {
						return
					}
				}
			}
			if i < last && req.DelayBetweenActions > 0 {
				if err := gate.Sleep(ctx, req.DelayBetweenActions); err != nil {
					return
				}
			}
		}

		if !req.Loop || (req.LoopCount > 0 && loop >= req.LoopCount) {
			return
		}
		if executedThisPass == 0 && req.LoopCount == 0 {
			log.Warn("no enabled actions, ending endless run", "loop", loop)
			return
		}
		if req.DelayBetweenLoops > 0 {
			if err := gate.Sleep(ctx, req.DelayBetweenLoops); err != nil {
				return
			}
		}
	}
}
