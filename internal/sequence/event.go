package sequence

// State is the lifecycle position of a run.
type State int32

const (
	// StateIdle means no run is active.
	StateIdle State = iota
	// StateRunning means actions are executing.
	StateRunning
	// StatePaused means the run is parked at its next suspension point.
	StatePaused
	// StateStopping means a stop was requested and cleanup is pending.
	StateStopping
)

// String returns the lower-case state name.
func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateStopping:
		return "stopping"
	default:
		return "idle"
	}
}

// EventKind identifies a run notification.
type EventKind int

const (
	// EventActionExecuted fires after each single execution of an action.
	EventActionExecuted EventKind = iota
	// EventPaused fires when a running run is paused.
	EventPaused
	// EventResumed fires when a paused run is resumed.
	EventResumed
	// EventStopped fires once when a run ends for any reason.
	EventStopped
)

// String returns a stable name used in logs and on the wire.
func (k EventKind) String() string {
	switch k {
	case EventActionExecuted:
		return "action_executed"
	case EventPaused:
		return "paused"
	case EventResumed:
		return "resumed"
	case EventStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Event is delivered to the run's Observer.
//
// Index and Loop are set for EventActionExecuted; Index is the position in the
// request's action list and Loop is 1-based. Summary is set for EventStopped.
type Event struct {
	Kind    EventKind
	RunID   string
	Index   int
	Loop    int
	Summary Summary
}

// Observer receives run events. Pause and resume events are delivered on the
// caller's goroutine, the rest on the run goroutine, so observers must be safe
// for concurrent use.
type Observer func(Event)
