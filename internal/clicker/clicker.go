// Package clicker runs the standalone auto clicker and auto typer: one input
// repeated at a fixed interval until stopped or a pass limit is reached.
package clicker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/frudas24/autoclick/internal/logger"
	"github.com/frudas24/autoclick/internal/model"
	"github.com/frudas24/autoclick/internal/wininput"
)

// ErrBusy is returned when a clicker or typer is already running.
var ErrBusy = errors.New("clicker already running")

// Tool identifies which loop a handle runs.
type Tool string

const (
	// ToolClicker repeats mouse clicks.
	ToolClicker Tool = "clicker"
	// ToolKeyboard repeats typed text or a key chord.
	ToolKeyboard Tool = "keyboard"
)

// EventKind identifies a clicker notification.
type EventKind int

const (
	// EventPerformed fires after every completed pass.
	EventPerformed EventKind = iota
	// EventStopped fires once when the loop ends for any reason.
	EventStopped
)

// String returns a stable name used in logs and on the wire.
func (k EventKind) String() string {
	switch k {
	case EventPerformed:
		return "performed"
	case EventStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Summary describes a finished loop.
type Summary struct {
	Tool      Tool
	Cancelled bool
	// Passes counts completed clicks or keyboard passes.
	Passes int
	// Count counts clicks or keys sent.
	Count   int
	Started time.Time
	Ended   time.Time
}

// Event is delivered to observers on the loop goroutine.
type Event struct {
	Kind    EventKind
	RunID   string
	Tool    Tool
	Passes  int
	Count   int
	Summary Summary
}

// Observer receives clicker events.
type Observer func(Event)

// Runner runs at most one clicker or typer at a time.
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
	return &Runner{driver: driver, log: logger.Area("clicker")}, nil
}

// Active returns the handle of the running loop, or nil.
func (r *Runner) Active() *Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// Click starts the auto clicker on its own goroutine.
func (r *Runner) Click(ctx context.Context, s model.ClickerSettings, obs Observer) (*Handle, error) {
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("clicker settings: %w", err)
	}
	pass := func(context.Context) (int, error) {
		var err error
		if s.UseCurrentPosition {
			err = r.driver.Click(s.Button, s.ClickStyle == model.ClickDouble)
		} else {
			err = r.driver.ClickAt(s.X, s.Y, s.Button, s.ClickStyle == model.ClickDouble)
		}
		if err != nil {
			r.log.Warn("click failed", "button", s.Button, "err", err)
		}
		return 1, nil
	}
	return r.start(ctx, ToolClicker, s.Limit(), model.Ms(s.IntervalMs), pass, obs)
}

// Type starts the auto typer on its own goroutine. In text mode the interval
// separates characters; in key mode it separates taps.
func (r *Runner) Type(ctx context.Context, s model.KeyboardSettings, obs Observer) (*Handle, error) {
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("keyboard settings: %w", err)
	}
	interval := model.Ms(s.IntervalMs)

	if s.Mode == model.KeyboardPressKey {
		code := wininput.ParseKeyCode(s.Key)
		if code == 0 {
			return nil, fmt.Errorf("keyboard settings: unknown key %q", s.Key)
		}
		mods := wininput.Modifiers(s.Ctrl, s.Alt, s.Shift)
		pass := func(context.Context) (int, error) {
			if err := wininput.PressChord(r.driver, code, mods...); err != nil {
				r.log.Warn("key press failed", "key", s.Key, "err", err)
			}
			return 1, nil
		}
		return r.start(ctx, ToolKeyboard, s.Limit(), interval, pass, obs)
	}

	text := []rune(s.Text)
	if !typeable(text) {
		return nil, fmt.Errorf("keyboard settings: no typeable characters in %q", s.Text)
	}
	pass := func(ctx context.Context) (int, error) {
		return r.typeText(ctx, text, interval)
	}
	return r.start(ctx, ToolKeyboard, s.Limit(), 0, pass, obs)
}

// passFunc performs one pass and returns how many inputs it sent.
type passFunc func(ctx context.Context) (int, error)

func (r *Runner) start(ctx context.Context, tool Tool, limit int, interval time.Duration, pass passFunc, obs Observer) (*Handle, error) {
	r.mu.Lock()
	if r.active != nil {
		r.mu.Unlock()
		return nil, ErrBusy
	}
	runCtx, cancel := context.WithCancel(ctx)
	h := newHandle(tool, cancel, obs)
	r.active = h
	r.mu.Unlock()

	go r.run(runCtx, h, limit, interval, pass)
	return h, nil
}
