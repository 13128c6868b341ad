package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Profile is a named, ordered action list with its own run settings.
type Profile struct {
	Name       string    `json:"name" yaml:"name"`
	CreatedAt  time.Time `json:"createdAt" yaml:"created_at"`
	ModifiedAt time.Time `json:"modifiedAt" yaml:"modified_at"`

	Actions []ActionItem `json:"actions" yaml:"actions"`

	LoopActions bool `json:"loopActions" yaml:"loop_actions"`
	// LoopCount of 0 loops until stopped.
	LoopCount             int  `json:"loopCount" yaml:"loop_count"`
	DelayBetweenLoopsMs   int  `json:"delayBetweenLoopsMs" yaml:"delay_between_loops_ms"`
	DelayBetweenActionsMs int  `json:"delayBetweenActionsMs" yaml:"delay_between_actions_ms"`
	RestoreMousePosition  bool `json:"restoreMousePosition" yaml:"restore_mouse_position"`
}

// NewProfile returns an empty profile that runs its actions once.
func NewProfile(name string) Profile {
	now := time.Now()
	return Profile{
		Name:        name,
		CreatedAt:   now,
		ModifiedAt:  now,
		LoopActions: true,
		LoopCount:   1,
	}
}

// Validate checks the profile name and every action.
func (p Profile) Validate() error {
	if p.Name == "" {
		return errors.New("profile name is required")
	}
	if p.LoopCount < 0 {
		return fmt.Errorf("loop count must be >= 0, got %d", p.LoopCount)
	}
	for i, a := range p.Actions {
		if err := a.Validate(); err != nil {
			return fmt.Errorf("action %d: %w", i, err)
		}
	}
	return nil
}

// EnabledCount returns how many actions are enabled.
func (p Profile) EnabledCount() int {
	n := 0
	for _, a := range p.Actions {
		if a.Enabled {
			n++
		}
	}
	return n
}

// Job references profiles by name; they are resolved when the job runs.
type Job struct {
	ID           string   `json:"id" yaml:"id"`
	Name         string   `json:"name" yaml:"name"`
	Enabled      bool     `json:"enabled" yaml:"enabled"`
	ProfileNames []string `json:"profileNames" yaml:"profile_names"`

	DelayBetweenProfilesMs int `json:"delayBetweenProfilesMs" yaml:"delay_between_profiles_ms"`
}

// NewJob returns an enabled job with no profiles.
func NewJob(name string) Job {
	return Job{ID: uuid.NewString(), Name: name, Enabled: true}
}

// SetDelayBetweenProfiles stores the delay, clamping negatives to zero.
func (j *Job) SetDelayBetweenProfiles(ms int) {
	j.DelayBetweenProfilesMs = max(0, ms)
}

// Workspace is an ordered list of jobs with loop settings.
type Workspace struct {
	Name       string    `json:"name" yaml:"name"`
	CreatedAt  time.Time `json:"createdAt" yaml:"created_at"`
	ModifiedAt time.Time `json:"modifiedAt" yaml:"modified_at"`

	Jobs []Job `json:"jobs" yaml:"jobs"`

	LoopWorkspace bool `json:"loopWorkspace" yaml:"loop_workspace"`
	// WorkspaceLoopCount of 0 loops until stopped.
	WorkspaceLoopCount int `json:"workspaceLoopCount" yaml:"workspace_loop_count"`
	DelayBetweenJobsMs int `json:"delayBetweenJobsMs" yaml:"delay_between_jobs_ms"`
}

// NewWorkspace returns an empty workspace that runs once.
func NewWorkspace(name string) Workspace {
	now := time.Now()
	return Workspace{
		Name:               name,
		CreatedAt:          now,
		ModifiedAt:         now,
		WorkspaceLoopCount: 1,
	}
}

// EnabledJobs returns the enabled jobs in order.
func (w Workspace) EnabledJobs() []Job {
	out := make([]Job, 0, len(w.Jobs))
	for _, j := range w.Jobs {
		if j.Enabled {
			out = append(out, j)
		}
	}
	return out
}

// Validate checks the workspace name and loop settings.
func (w Workspace) Validate() error {
	if w.Name == "" {
		return errors.New("workspace name is required")
	}
	if w.WorkspaceLoopCount < 0 {
		return fmt.Errorf("workspace loop count must be >= 0, got %d", w.WorkspaceLoopCount)
	}
	for i, j := range w.Jobs {
		if j.DelayBetweenProfilesMs < 0 {
			return fmt.Errorf("job %d: delay between profiles must be >= 0", i)
		}
	}
	return nil
}

// Ms converts a millisecond count into a duration.
func Ms(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
