package workspace

import "time"

// EventKind identifies a workspace notification.
type EventKind int

const (
	// EventProgress fires when a job starts and again for each resolved profile.
	EventProgress EventKind = iota
	// EventActionExecuted forwards an inner action execution.
	EventActionExecuted
	// EventPaused fires when the workspace is paused.
	EventPaused
	// EventResumed fires when the workspace is resumed.
	EventResumed
	// EventStopped fires once when the workspace run ends.
	EventStopped
)

// String returns a stable name used in logs and on the wire.
func (k EventKind) String() string {
	switch k {
	case EventProgress:
		return "progress"
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

// Progress locates the run within the workspace. ProfileName is empty for
// the job-level notification.
type Progress struct {
	JobName     string `json:"jobName"`
	JobIndex    int    `json:"jobIndex"`
	TotalJobs   int    `json:"totalJobs"`
	Loop        int    `json:"loop"`
	ProfileName string `json:"profileName,omitempty"`
}

// Event is delivered to the workspace Observer. For EventActionExecuted,
// Index and Loop come from the inner profile run.
type Event struct {
	Kind     EventKind
	RunID    string
	Progress Progress
	Index    int
	Loop     int
	Summary  Summary
}

// Observer receives workspace events and must be safe for concurrent use.
type Observer func(Event)

// Summary reports how a workspace run ended.
type Summary struct {
	Cancelled bool
	Loops     int
	// Profiles counts profile runs that were started and finished.
	Profiles int
	// Skipped counts profile names that could not be loaded or run.
	Skipped  int
	Executed int
	Started  time.Time
	Ended    time.Time
}
