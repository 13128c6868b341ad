// Package session holds controller authentication and the live run state.
package session

import (
	"sync"
	"time"
)

// Mode is what the controller is currently doing.
type Mode string

const (
	// ModeIdle means nothing is running.
	ModeIdle Mode = "idle"
	// ModeProfile means a single profile is running.
	ModeProfile Mode = "profile"
	// ModeWorkspace means a workspace is running.
	ModeWorkspace Mode = "workspace"
	// ModeRecording means input is being recorded.
	ModeRecording Mode = "recording"
	// ModePlayback means a recording is being replayed.
	ModePlayback Mode = "playback"
	// ModeClicker means the auto clicker is running.
	ModeClicker Mode = "clicker"
	// ModeKeyboard means the auto typer is running.
	ModeKeyboard Mode = "keyboard"
)

// Snapshot represents a read-only view of the current session state.
type Snapshot struct {
	Authenticated bool      `json:"authenticated"`
	Mode          Mode      `json:"mode"`
	Target        string    `json:"target,omitempty"`
	RunID         string    `json:"runId,omitempty"`
	Paused        bool      `json:"paused"`
	JobName       string    `json:"jobName,omitempty"`
	ProfileName   string    `json:"profileName,omitempty"`
	Loop          int       `json:"loop"`
	ActionIndex   int       `json:"actionIndex"`
	Executed      int       `json:"executed"`
	Records       int       `json:"records"`
	StartedAt     time.Time `json:"startedAt,omitzero"`
	LastTarget    string    `json:"lastTarget,omitempty"`
	LastCancelled bool      `json:"lastCancelled"`
}

// Session holds controller state.
type Session struct {
	mu            sync.RWMutex
	password      string
	authenticated bool
	run           Snapshot
}

// New returns an idle session guarded by password.
func New(password string) *Session {
	return &Session{password: password, run: Snapshot{Mode: ModeIdle}}
}

// Authenticate validates the password and marks the session as authenticated.
func (s *Session) Authenticate(pass string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if pass != "" && pass == s.password {
		s.authenticated = true
		return true
	}
	s.authenticated = false
	return false
}

// Logout clears authentication state.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authenticated = false
}

// IsAuthenticated reports whether the session is authenticated.
func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

// Begin records the start of an activity and clears per-run counters.
func (s *Session) Begin(mode Mode, target, runID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.run = Snapshot{
		Mode:          mode,
		Target:        target,
		RunID:         runID,
		StartedAt:     time.Now(),
		LastTarget:    s.run.LastTarget,
		LastCancelled: s.run.LastCancelled,
	}
}

// SetPaused updates the paused flag of the current activity.
func (s *Session) SetPaused(paused bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.run.Paused = paused
}

// SetProgress records the job and profile a workspace is on.
func (s *Session) SetProgress(job, profile string, loop int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.run.JobName = job
	s.run.ProfileName = profile
	s.run.Loop = loop
}

// NoteAction records one executed action.
func (s *Session) NoteAction(index, loop int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.run.ActionIndex = index
	if s.run.Mode == ModeProfile {
		s.run.Loop = loop
	}
	s.run.Executed++
}

// SetExecuted replaces the executed counter, for activities that report
// running totals.
func (s *Session) SetExecuted(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.run.Executed = n
}

// NoteRecord counts one recorded or replayed record.
func (s *Session) NoteRecord() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.run.Records++
}

// End returns the session to idle, remembering how the activity finished.
// It ignores a stale runID so a late event cannot clear a newer activity.
func (s *Session) End(runID string, cancelled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if runID != "" && s.run.RunID != runID {
		return
	}
	s.run = Snapshot{Mode: ModeIdle, LastTarget: s.run.Target, LastCancelled: cancelled}
}

// Mode returns the current activity.
func (s *Session) Mode() Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.run.Mode
}

// Snapshot returns a copy of the current session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := s.run
	snap.Authenticated = s.authenticated
	return snap
}
