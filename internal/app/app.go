// Package app wires the runners, stores, history and HTTP control surface together.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/frudas24/autoclick/internal/clicker"
	"github.com/frudas24/autoclick/internal/config"
	"github.com/frudas24/autoclick/internal/control"
	"github.com/frudas24/autoclick/internal/history"
	"github.com/frudas24/autoclick/internal/logger"
	"github.com/frudas24/autoclick/internal/model"
	"github.com/frudas24/autoclick/internal/monitor"
	"github.com/frudas24/autoclick/internal/recorder"
	"github.com/frudas24/autoclick/internal/sequence"
	"github.com/frudas24/autoclick/internal/session"
	"github.com/frudas24/autoclick/internal/store"
	"github.com/frudas24/autoclick/internal/wininput"
	"github.com/frudas24/autoclick/internal/workspace"
	"github.com/google/uuid"
)

var (
	// ErrBusy is returned when another run, recording, playback or clicker is active.
	ErrBusy = errors.New("another activity is running")
	// ErrNothingToRun is returned by RunLast before anything was started.
	ErrNothingToRun = errors.New("nothing was started yet")
)

// App owns the runners and routes control requests to them.
type App struct {
	cfg     config.Config
	base    context.Context
	log     *slog.Logger
	session *session.Session
	history *history.Store

	seq *sequence.Runner
	ws  *workspace.Runner
	rec *recorder.Recorder
	clk *clicker.Runner

	profiles   *store.Profiles
	workspaces *store.Workspaces
	recordings *store.Recordings
	settings   *store.Settings

	control      *control.Server
	listMonitors func() ([]monitor.Monitor, error)

	// starting is held while an activity is started and its session entry
	// written, so observers never see events ahead of Begin.
	starting sync.Mutex

	mu       sync.Mutex
	monitors []monitor.Monitor
	wait     func()
}

// New creates an application. Runs started through the control surface are
// children of base. hist may be nil to disable run history.
func New(base context.Context, cfg config.Config, sess *session.Session, driver wininput.Driver, hist *history.Store) (*App, error) {
	if sess == nil {
		return nil, errors.New("session is required")
	}
	if driver == nil {
		return nil, errors.New("driver is required")
	}
	if base == nil {
		base = context.Background()
	}

	seq, err := sequence.New(driver)
	if err != nil {
		return nil, err
	}
	rec, err := recorder.New(driver, recorder.WithPollInterval(cfg.RecordPoll()))
	if err != nil {
		return nil, err
	}
	clk, err := clicker.New(driver)
	if err != nil {
		return nil, err
	}
	settingsPath := cfg.SettingsPath
	if settingsPath == "" {
		settingsPath = filepath.Join(cfg.DataDir, "settings.json")
	}

	a := &App{
		cfg:          cfg,
		base:         base,
		log:          logger.Area("app"),
		session:      sess,
		history:      hist,
		seq:          seq,
		rec:          rec,
		clk:          clk,
		profiles:     store.NewProfiles(cfg.ProfilesDir),
		workspaces:   store.NewWorkspaces(cfg.WorkspacesDir),
		recordings:   store.NewRecordings(cfg.RecordingsDir),
		settings:     store.NewSettings(settingsPath),
		listMonitors: monitor.List,
	}
	a.ws, err = workspace.New(seq, checkedLoader{app: a})
	if err != nil {
		return nil, err
	}
	a.control = control.NewServer(base, sess, a, control.NewToggler(cfg.ForceStopWindow()))
	return a, nil
}

// Start caches the monitor layout. Platforms without enumeration run without
// off-screen checks.
func (a *App) Start() error {
	list, err := a.listMonitors()
	if errors.Is(err, monitor.ErrUnsupported) {
		a.log.Debug("monitor enumeration unavailable")
		return nil
	}
	if err != nil {
		return fmt.Errorf("list monitors: %w", err)
	}
	a.mu.Lock()
	a.monitors = list
	a.mu.Unlock()
	a.log.Info("monitors detected", "count", len(list))
	return nil
}

// ListMonitors returns the cached monitor list.
func (a *App) ListMonitors() []monitor.Monitor {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]monitor.Monitor, len(a.monitors))
	copy(out, a.monitors)
	return out
}

// Control returns the control websocket handler.
func (a *App) Control() *control.Server {
	return a.control
}

// Profiles returns the profile store.
func (a *App) Profiles() *store.Profiles {
	return a.profiles
}

// Workspaces returns the workspace store.
func (a *App) Workspaces() *store.Workspaces {
	return a.workspaces
}

// Snapshot returns the current session state.
func (a *App) Snapshot() session.Snapshot {
	return a.session.Snapshot()
}

// History returns the most recent finished runs.
func (a *App) History(ctx context.Context, limit int) ([]history.Entry, error) {
	if a.history == nil {
		return nil, nil
	}
	return a.history.List(ctx, limit)
}

// RunProfile loads a profile by name and starts it.
func (a *App) RunProfile(ctx context.Context, name string) error {
	p, err := a.profiles.Load(name)
	if err != nil {
		return err
	}
	if p.EnabledCount() == 0 {
		return fmt.Errorf("profile %q has no enabled actions", name)
	}
	a.warnOffScreen(p)

	a.starting.Lock()
	defer a.starting.Unlock()
	if a.busy() {
		return ErrBusy
	}
	req := sequence.FromProfile(p)
	req.Observer = a.profileObserver(p.Name)
	h, ok := a.seq.Start(ctx, req)
	if !ok {
		return ErrBusy
	}
	a.session.Begin(session.ModeProfile, p.Name, h.ID())
	a.setWait(func() { <-h.Done() })
	a.remember(func(s *model.AppSettings) {
		s.LastKind, s.LastProfile = model.LastProfile, p.Name
	})
	a.log.Info("profile started", "profile", p.Name, "run", h.ID())
	return nil
}

// RunWorkspace loads a workspace by name and starts it.
func (a *App) RunWorkspace(ctx context.Context, name string) error {
	w, err := a.workspaces.Load(name)
	if err != nil {
		return err
	}
	if len(w.EnabledJobs()) == 0 {
		return fmt.Errorf("workspace %q has no enabled jobs", name)
	}

	a.starting.Lock()
	defer a.starting.Unlock()
	if a.busy() {
		return ErrBusy
	}
	h, ok := a.ws.Start(ctx, w, a.workspaceObserver(w.Name))
	if !ok {
		return ErrBusy
	}
	a.session.Begin(session.ModeWorkspace, w.Name, h.ID())
	a.setWait(func() { <-h.Done() })
	a.remember(func(s *model.AppSettings) {
		s.LastKind, s.LastWorkspace = model.LastWorkspace, w.Name
	})
	a.log.Info("workspace started", "workspace", w.Name, "run", h.ID())
	return nil
}

// StartClicker starts the auto clicker. Nil settings reuse the last saved
// ones; given settings are saved for next time.
func (a *App) StartClicker(ctx context.Context, s *model.ClickerSettings) error {
	cs := a.Settings().Clicker
	if s != nil {
		cs = *s
	}
	a.starting.Lock()
	defer a.starting.Unlock()
	if a.busy() {
		return ErrBusy
	}
	h, err := a.clk.Click(ctx, cs, a.clickerObserver())
	if err != nil {
		return clickerErr(err)
	}
	a.session.Begin(session.ModeClicker, string(h.Tool()), h.ID())
	a.setWait(func() { <-h.Done() })
	a.remember(func(s *model.AppSettings) {
		s.LastKind, s.Clicker = model.LastClicker, cs
	})
	return nil
}

// StartTyping starts the auto typer. Nil settings reuse the last saved ones;
// given settings are saved for next time.
func (a *App) StartTyping(ctx context.Context, s *model.KeyboardSettings) error {
	ks := a.Settings().Keyboard
	if s != nil {
		ks = *s
	}
	a.starting.Lock()
	defer a.starting.Unlock()
	if a.busy() {
		return ErrBusy
	}
	h, err := a.clk.Type(ctx, ks, a.clickerObserver())
	if err != nil {
		return clickerErr(err)
	}
	a.session.Begin(session.ModeKeyboard, string(h.Tool()), h.ID())
	a.setWait(func() { <-h.Done() })
	a.remember(func(s *model.AppSettings) {
		s.LastKind, s.Keyboard = model.LastKeyboard, ks
	})
	return nil
}

// RunLast starts again whatever was started most recently.
func (a *App) RunLast(ctx context.Context) error {
	s := a.Settings()
	switch s.LastKind {
	case model.LastProfile:
		return a.RunProfile(ctx, s.LastProfile)
	case model.LastWorkspace:
		return a.RunWorkspace(ctx, s.LastWorkspace)
	case model.LastClicker:
		return a.StartClicker(ctx, nil)
	case model.LastKeyboard:
		return a.StartTyping(ctx, nil)
	default:
		return ErrNothingToRun
	}
}

// Settings returns the remembered targets and tool settings. Unreadable
// settings fall back to defaults.
func (a *App) Settings() model.AppSettings {
	s, err := a.settings.Load()
	if err != nil {
		a.log.Warn("settings unreadable, using defaults", "err", err)
	}
	return s
}

// Toggle pauses a running run or resumes a paused one, and stops a running
// clicker. It reports whether anything was active.
func (a *App) Toggle() bool {
	if h := a.clk.Active(); h != nil {
		h.Stop()
		return true
	}
	if h := a.ws.Active(); h != nil {
		if h.State() == sequence.StatePaused {
			h.Resume()
		} else {
			h.Pause()
		}
		return true
	}
	if h := a.seq.Active(); h != nil {
		if h.State() == sequence.StatePaused {
			h.Resume()
		} else {
			h.Pause()
		}
		return true
	}
	return false
}

// Pause pauses the active run.
func (a *App) Pause() bool {
	if h := a.ws.Active(); h != nil {
		return h.Pause()
	}
	if h := a.seq.Active(); h != nil {
		return h.Pause()
	}
	return false
}

// Resume resumes the active run.
func (a *App) Resume() bool {
	if h := a.ws.Active(); h != nil {
		return h.Resume()
	}
	if h := a.seq.Active(); h != nil {
		return h.Resume()
	}
	return false
}

// Stop stops the active run, clicker and any playback.
func (a *App) Stop() {
	if h := a.clk.Active(); h != nil {
		h.Stop()
	}
	if h := a.ws.Active(); h != nil {
		h.Stop()
	}
	if h := a.seq.Active(); h != nil {
		h.Stop()
	}
	a.rec.StopPlayback()
}

// Wait blocks until the most recently started run or playback has ended and
// its history entry is written.
func (a *App) Wait() {
	a.mu.Lock()
	wait := a.wait
	a.mu.Unlock()
	if wait != nil {
		wait()
	}
}

// StartRecording starts capturing input. It is refused while a run is active.
func (a *App) StartRecording() bool {
	a.starting.Lock()
	defer a.starting.Unlock()
	if a.busy() {
		return false
	}
	if !a.rec.StartRecording(a.recorderObserver("", "")) {
		return false
	}
	a.session.Begin(session.ModeRecording, "", "")
	return true
}

// StopRecording ends the current recording. The session is idle once it
// returns.
func (a *App) StopRecording() {
	a.starting.Lock()
	defer a.starting.Unlock()
	a.rec.StopRecording()
	if a.session.Mode() == session.ModeRecording {
		a.session.End("", false)
	}
}

// Play replays the recording buffer. Non-positive speeds use the configured
// playback speed.
func (a *App) Play(ctx context.Context, speed float64) bool {
	if speed <= 0 {
		speed = a.cfg.PlaybackSpeed
	}
	a.starting.Lock()
	defer a.starting.Unlock()
	if a.busy() {
		return false
	}
	runID := uuid.NewString()
	if !a.rec.Play(ctx, speed, a.recorderObserver(runID, "buffer")) {
		return false
	}
	a.session.Begin(session.ModePlayback, "buffer", runID)
	a.setWait(a.rec.WaitPlayback)
	return true
}

// StopPlayback cancels the current playback.
func (a *App) StopPlayback() {
	a.rec.StopPlayback()
}

// Recorded returns a copy of the recording buffer.
func (a *App) Recorded() []model.RecordedAction {
	return a.rec.Recorded()
}

// SetRecorded replaces the recording buffer.
func (a *App) SetRecorded(actions []model.RecordedAction) error {
	if !a.rec.Load(actions) {
		return ErrBusy
	}
	return nil
}

// SaveRecording stores the recording buffer under name.
func (a *App) SaveRecording(name string) error {
	actions := a.rec.Recorded()
	if len(actions) == 0 {
		return errors.New("nothing recorded")
	}
	return a.recordings.Save(name, actions)
}

// LoadRecording replaces the recording buffer with a stored recording.
func (a *App) LoadRecording(name string) error {
	actions, err := a.recordings.Load(name)
	if err != nil {
		return err
	}
	return a.SetRecorded(actions)
}

// busy reports whether any activity is running. Callers hold a.starting.
func (a *App) busy() bool {
	return a.ws.Active() != nil || a.seq.Active() != nil || a.clk.Active() != nil ||
		a.rec.State() != recorder.StateIdle
}

// remember updates the saved settings. Failures only cost the convenience.
func (a *App) remember(fn func(*model.AppSettings)) {
	if err := a.settings.Update(fn); err != nil {
		a.log.Warn("settings not saved", "err", err)
	}
}

func clickerErr(err error) error {
	if errors.Is(err, clicker.ErrBusy) {
		return ErrBusy
	}
	return err
}

func (a *App) setWait(fn func()) {
	a.mu.Lock()
	a.wait = fn
	a.mu.Unlock()
}

// warnOffScreen logs fixed-position clicks that no monitor contains.
func (a *App) warnOffScreen(p model.Profile) {
	list := a.ListMonitors()
	if len(list) == 0 {
		return
	}
	for _, i := range monitor.OffScreen(list, p.Actions) {
		act := p.Actions[i]
		a.log.Warn("click target is off screen", "profile", p.Name, "index", i, "x", act.X, "y", act.Y)
	}
}

// checkedLoader loads workspace profiles from the store and checks their
// click targets.
type checkedLoader struct {
	app *App
}

func (l checkedLoader) Load(name string) (model.Profile, error) {
	p, err := l.app.profiles.Load(name)
	if err != nil {
		return model.Profile{}, err
	}
	l.app.warnOffScreen(p)
	return p, nil
}
