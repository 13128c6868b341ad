// Package recorder captures cursor motion and mouse clicks and replays them
// with their original pacing.
package recorder

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/frudas24/autoclick/internal/logger"
	"github.com/frudas24/autoclick/internal/model"
	"github.com/frudas24/autoclick/internal/wininput"
)

// DefaultPollInterval is how often input state is sampled while recording.
const DefaultPollInterval = 10 * time.Millisecond

// State is the recorder mode. Recording and playing never overlap.
type State int

const (
	// StateIdle means neither recording nor playing.
	StateIdle State = iota
	// StateRecording means the polling loop is capturing input.
	StateRecording
	// StatePlaying means a playback is in progress.
	StatePlaying
)

// String returns the lower-case state name.
func (s State) String() string {
	switch s {
	case StateRecording:
		return "recording"
	case StatePlaying:
		return "playing"
	default:
		return "idle"
	}
}

// EventKind identifies a recorder notification.
type EventKind int

const (
	// EventActionRecorded fires for every captured record.
	EventActionRecorded EventKind = iota
	// EventRecordingStopped fires once per recording, after the last
	// ActionRecorded event.
	EventRecordingStopped
	// EventActionPlayed fires after each replayed record.
	EventActionPlayed
	// EventPlaybackStopped fires once when a playback ends for any reason.
	EventPlaybackStopped
)

// String returns a stable name used in logs and on the wire.
func (k EventKind) String() string {
	switch k {
	case EventActionRecorded:
		return "action_recorded"
	case EventRecordingStopped:
		return "recording_stopped"
	case EventActionPlayed:
		return "action_played"
	case EventPlaybackStopped:
		return "playback_stopped"
	default:
		return "unknown"
	}
}

// Event is delivered to recorder observers.
type Event struct {
	Kind   EventKind
	Record model.RecordedAction
	// Index is the position of the played record.
	Index int
	// Count is the number of records captured or played.
	Count     int
	Cancelled bool
}

// Observer receives recorder events.
type Observer func(Event)

// Option configures a Recorder.
type Option func(*Recorder)

// WithPollInterval overrides the sampling interval. Non-positive values are ignored.
func WithPollInterval(d time.Duration) Option {
	return func(r *Recorder) {
		if d > 0 {
			r.poll = d
		}
	}
}

// Recorder records and replays cursor activity through a driver.
type Recorder struct {
	driver wininput.Driver
	poll   time.Duration
	log    *slog.Logger

	mu        sync.Mutex
	state     State
	actions   []model.RecordedAction
	rec       *recording
	playStop  context.CancelFunc
	playDone  chan struct{}
}

// New returns an idle recorder.
func New(driver wininput.Driver, opts ...Option) (*Recorder, error) {
	if driver == nil {
		return nil, errors.New("driver is required")
	}
	r := &Recorder{driver: driver, poll: DefaultPollInterval, log: logger.Area("recorder")}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// State returns the current mode.
func (r *Recorder) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Recorded returns a copy of the captured records.
func (r *Recorder) Recorded() []model.RecordedAction {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.RecordedAction(nil), r.actions...)
}

// Load replaces the buffer. It is refused while recording or playing.
func (r *Recorder) Load(actions []model.RecordedAction) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateIdle {
		return false
	}
	r.actions = append([]model.RecordedAction(nil), actions...)
	return true
}

// Clear empties the buffer. It is refused while recording or playing.
func (r *Recorder) Clear() bool {
	return r.Load(nil)
}

func emit(obs Observer, ev Event) {
	if obs != nil {
		obs(ev)
	}
}
