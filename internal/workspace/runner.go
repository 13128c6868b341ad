// Package workspace runs jobs of profiles in order on top of a sequence runner.
package workspace

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/frudas24/autoclick/internal/gate"
	"github.com/frudas24/autoclick/internal/logger"
	"github.com/frudas24/autoclick/internal/model"
	"github.com/frudas24/autoclick/internal/sequence"
)

// ProfileLoader resolves a profile by name.
type ProfileLoader interface {
	Load(name string) (model.Profile, error)
}

// Runner executes at most one workspace at a time.
type Runner struct {
	seq    *sequence.Runner
	loader ProfileLoader
	log    *slog.Logger

	mu     sync.Mutex
	active *Handle
}

// New returns a workspace runner that delegates profile runs to seq.
func New(seq *sequence.Runner, loader ProfileLoader) (*Runner, error) {
	if seq == nil {
		return nil, errors.New("sequence runner is required")
	}
	if loader == nil {
		return nil, errors.New("profile loader is required")
	}
	return &Runner{seq: seq, loader: loader, log: logger.Area("workspace")}, nil
}

// Start launches the workspace on its own goroutine. It returns false without
// any notification when a workspace is already running or it has no jobs.
func (r *Runner) Start(ctx context.Context, ws model.Workspace, observer Observer) (*Handle, bool) {
	if len(ws.Jobs) == 0 {
		return nil, false
	}
	r.mu.Lock()
	if r.active != nil {
		r.mu.Unlock()
		return nil, false
	}
	runCtx, cancel := context.WithCancel(ctx)
	h := newHandle(cancel, observer)
	r.active = h
	r.mu.Unlock()

	go r.run(runCtx, h, ws)
	return h, true
}

// Active returns the handle of the running workspace, or nil.
func (r *Runner) Active() *Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

func (r *Runner) run(ctx context.Context, h *Handle, ws model.Workspace) {
	summary := Summary{Started: time.Now()}
	log := r.log.With("run", h.id, "workspace", ws.Name)
	log.Info("workspace started", "jobs", len(ws.Jobs))

	defer func() {
		summary.Cancelled = ctx.Err() != nil
		summary.Ended = time.Now()
		h.cancel()

		r.mu.Lock()
		if r.active == h {
			r.active = nil
		}
		r.mu.Unlock()

		log.Info("workspace stopped", "loops", summary.Loops, "profiles", summary.Profiles,
			"skipped", summary.Skipped, "cancelled", summary.Cancelled)
		h.finish(summary)
	}()

	for loop := 1; ctx.Err() == nil; loop++ {
		summary.Loops = loop
		ranBefore := summary.Profiles
		jobs := ws.EnabledJobs()

		for ji, job := range jobs {
			if err := h.pause.Wait(ctx); err != nil {
				return
			}
			at := Progress{JobName: job.Name, JobIndex: ji, TotalJobs: len(jobs), Loop: loop}
			h.report(at)

			for pi, name := range job.ProfileNames {
				if err := h.pause.Wait(ctx); err != nil {
					return
				}
				profile, err := r.loader.Load(name)
				if err != nil {
					log.Warn("profile skipped", "job", job.Name, "profile", name, "err", err)
					summary.Skipped++
					continue
				}
				at.ProfileName = name
				h.report(at)

				r.runProfile(ctx, h, log, at, profile, &summary)
				if ctx.Err() != nil {
					return
				}
				if pi < len(job.ProfileNames)-1 {
					if err := gate.Sleep(ctx, model.Ms(job.DelayBetweenProfilesMs)); err != nil {
						return
					}
				}
			}

			if ji < len(jobs)-1 {
				if err := gate.Sleep(ctx, model.Ms(ws.DelayBetweenJobsMs)); err != nil {
					return
				}
			}
		}

		if !ws.LoopWorkspace || (ws.WorkspaceLoopCount > 0 && loop >= ws.WorkspaceLoopCount) {
			return
		}
		if summary.Profiles == ranBefore && ws.WorkspaceLoopCount == 0 {
			log.Warn("no profile ran in this pass, ending endless workspace", "loop", loop)
			return
		}
	}
}

// runProfile runs one profile on the inner runner and blocks until it ends.
func (r *Runner) runProfile(ctx context.Context, h *Handle, log *slog.Logger, at Progress, p model.Profile, summary *Summary) {
	if p.EnabledCount() == 0 {
		log.Debug("profile has no enabled actions", "profile", p.Name)
		return
	}
	req := sequence.FromProfile(p)
	req.Hold = h.pause
	req.Observer = func(ev sequence.Event) {
		if ev.Kind == sequence.EventActionExecuted {
			h.emit(Event{Kind: EventActionExecuted, Progress: at, Index: ev.Index, Loop: ev.Loop})
		}
	}

	inner, ok := r.seq.Start(ctx, req)
	if !ok {
		log.Warn("profile runner busy, skipping", "profile", p.Name)
		summary.Skipped++
		return
	}
	// A pause that lands before setInner is still honoured through req.Hold.
	h.setInner(inner)
	res := inner.Wait()
	h.setInner(nil)

	summary.Profiles++
	summary.Executed += res.Executed
}
