package app

import (
	"context"
	"time"

	"github.com/frudas24/autoclick/internal/clicker"
	"github.com/frudas24/autoclick/internal/control"
	"github.com/frudas24/autoclick/internal/history"
	"github.com/frudas24/autoclick/internal/recorder"
	"github.com/frudas24/autoclick/internal/sequence"
	"github.com/frudas24/autoclick/internal/workspace"
)

const historyTimeout = 5 * time.Second

// settled waits for the goroutine that started the activity to finish
// writing its session entry.
func (a *App) settled() {
	a.starting.Lock()
	a.starting.Unlock()
}

func (a *App) profileObserver(name string) sequence.Observer {
	return func(ev sequence.Event) {
		a.settled()
		n := control.Notice{T: control.NoticeEvent, Source: "sequence", Kind: ev.Kind.String(), RunID: ev.RunID}
		switch ev.Kind {
		case sequence.EventActionExecuted:
			a.session.NoteAction(ev.Index, ev.Loop)
			n.Index, n.Loop = ev.Index, ev.Loop
		case sequence.EventPaused:
			a.session.SetPaused(true)
		case sequence.EventResumed:
			a.session.SetPaused(false)
		case sequence.EventStopped:
			s := ev.Summary
			n.Count, n.Loop, n.Cancelled = s.Executed, s.Loops, s.Cancelled
			a.record(history.Entry{
				RunID:     ev.RunID,
				Kind:      history.KindProfile,
				Name:      name,
				StartedAt: s.Started,
				EndedAt:   s.Ended,
				Cancelled: s.Cancelled,
				Executed:  s.Executed,
				Loops:     s.Loops,
			})
			a.session.End(ev.RunID, s.Cancelled)
			a.log.Info("profile stopped", "profile", name, "run", ev.RunID, "executed", s.Executed, "cancelled", s.Cancelled)
		}
		a.control.Publish(n)
	}
}

func (a *App) workspaceObserver(name string) workspace.Observer {
	return func(ev workspace.Event) {
		a.settled()
		n := control.Notice{T: control.NoticeEvent, Source: "workspace", Kind: ev.Kind.String(), RunID: ev.RunID}
		switch ev.Kind {
		case workspace.EventProgress:
			p := ev.Progress
			a.session.SetProgress(p.JobName, p.ProfileName, p.Loop)
			n.JobName, n.JobIndex, n.TotalJobs = p.JobName, p.JobIndex, p.TotalJobs
			n.ProfileName, n.Loop = p.ProfileName, p.Loop
		case workspace.EventActionExecuted:
			a.session.NoteAction(ev.Index, ev.Loop)
			n.Index, n.Loop = ev.Index, ev.Loop
		case workspace.EventPaused:
			a.session.SetPaused(true)
		case workspace.EventResumed:
			a.session.SetPaused(false)
		case workspace.EventStopped:
			s := ev.Summary
			n.Count, n.Loop, n.Cancelled = s.Executed, s.Loops, s.Cancelled
			a.record(history.Entry{
				RunID:     ev.RunID,
				Kind:      history.KindWorkspace,
				Name:      name,
				StartedAt: s.Started,
				EndedAt:   s.Ended,
				Cancelled: s.Cancelled,
				Executed:  s.Executed,
				Loops:     s.Loops,
				Skipped:   s.Skipped,
			})
			a.session.End(ev.RunID, s.Cancelled)
			a.log.Info("workspace stopped", "workspace", name, "run", ev.RunID,
				"profiles", s.Profiles, "skipped", s.Skipped, "cancelled", s.Cancelled)
		}
		a.control.Publish(n)
	}
}

func (a *App) clickerObserver() clicker.Observer {
	return func(ev clicker.Event) {
		a.settled()
		n := control.Notice{
			T:      control.NoticeEvent,
			Source: string(ev.Tool),
			Kind:   ev.Kind.String(),
			RunID:  ev.RunID,
			Count:  ev.Count,
			Passes: ev.Passes,
		}
		switch ev.Kind {
		case clicker.EventPerformed:
			a.session.SetExecuted(ev.Count)
		case clicker.EventStopped:
			s := ev.Summary
			n.Cancelled = s.Cancelled
			kind := history.KindClicker
			if s.Tool == clicker.ToolKeyboard {
				kind = history.KindKeyboard
			}
			a.record(history.Entry{
				RunID:     ev.RunID,
				Kind:      kind,
				Name:      string(s.Tool),
				StartedAt: s.Started,
				EndedAt:   s.Ended,
				Cancelled: s.Cancelled,
				Executed:  s.Count,
				Loops:     s.Passes,
			})
			a.session.End(ev.RunID, s.Cancelled)
			a.log.Info("clicker stopped", "tool", s.Tool, "run", ev.RunID, "passes", s.Passes, "cancelled", s.Cancelled)
		}
		a.control.Publish(n)
	}
}

// recorderObserver serves both recording (empty runID) and playback.
func (a *App) recorderObserver(runID, name string) recorder.Observer {
	started := time.Now()
	return func(ev recorder.Event) {
		a.settled()
		n := control.Notice{T: control.NoticeEvent, Source: "recorder", Kind: ev.Kind.String(), RunID: runID}
		switch ev.Kind {
		case recorder.EventActionRecorded:
			a.session.NoteRecord()
			rec := ev.Record
			n.Record = &rec
		case recorder.EventActionPlayed:
			a.session.NoteRecord()
			rec := ev.Record
			n.Record, n.Index = &rec, ev.Index
		case recorder.EventRecordingStopped:
			n.Count = ev.Count
		case recorder.EventPlaybackStopped:
			n.Count, n.Cancelled = ev.Count, ev.Cancelled
			a.record(history.Entry{
				RunID:     runID,
				Kind:      history.KindPlayback,
				Name:      name,
				StartedAt: started,
				EndedAt:   time.Now(),
				Cancelled: ev.Cancelled,
				Executed:  ev.Count,
				Loops:     1,
			})
			a.session.End(runID, ev.Cancelled)
		}
		a.control.Publish(n)
	}
}

// record writes a history entry. Failures are logged.
func (a *App) record(e history.Entry) {
	if a.history == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), historyTimeout)
	defer cancel()
	if err := a.history.Record(ctx, e); err != nil {
		a.log.Warn("history write failed", "run", e.RunID, "err", err)
	}
}
