package recorder

import (
	"context"
	"time"

	"github.com/frudas24/autoclick/internal/model"
	"github.com/frudas24/autoclick/internal/wininput"
)

var polledButtons = []model.Button{model.ButtonLeft, model.ButtonRight, model.ButtonMiddle}

// recording is the state of one capture session. stopped and count are
// guarded by Recorder.mu.
type recording struct {
	cancel  context.CancelFunc
	obs     Observer
	stopped bool
	count   int
}

// StartRecording clears the buffer and starts sampling input. It returns
// false when already recording or playing. The cursor position and button
// states at the time of the call are the baseline, so any change after it
// returns is captured.
func (r *Recorder) StartRecording(obs Observer) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateIdle {
		return false
	}

	x, y, err := r.driver.CursorPos()
	if err != nil {
		r.log.Warn("cursor read failed", "err", err)
	}
	pressed := make(map[model.Button]bool, len(polledButtons))
	for _, b := range polledButtons {
		pressed[b] = r.driver.KeyState(wininput.ButtonVK(b))
	}

	ctx, cancel := context.WithCancel(context.Background())
	rec := &recording{cancel: cancel, obs: obs}
	r.state = StateRecording
	r.actions = nil
	r.rec = rec

	go r.sample(ctx, rec, time.Now(), x, y, pressed)
	r.log.Info("recording started", "poll", r.poll)
	return true
}

// StopRecording ends sampling. No record is added once it returns. The
// RecordingStopped event follows from the sampling goroutine, after any
// ActionRecorded event already in flight, and fires exactly once even when
// several callers race. It is safe to call from an observer.
func (r *Recorder) StopRecording() {
	r.mu.Lock()
	rec := r.rec
	if r.state != StateRecording || rec == nil || rec.stopped {
		r.mu.Unlock()
		return
	}
	rec.stopped = true
	rec.count = len(r.actions)
	r.state = StateIdle
	r.rec = nil
	r.mu.Unlock()

	rec.cancel()
	r.log.Info("recording stopped", "records", rec.count)
}

// sample polls the cursor and button states until ctx ends, then emits
// RecordingStopped.
func (r *Recorder) sample(ctx context.Context, rec *recording, start time.Time, lastX, lastY int, pressed map[model.Button]bool) {
	defer func() {
		r.mu.Lock()
		count := rec.count
		r.mu.Unlock()
		emit(rec.obs, Event{Kind: EventRecordingStopped, Count: count})
	}()
	ticker := time.NewTicker(r.poll)
	defer ticker.Stop()

	var lastTS int64
	add := func(a model.RecordedAction) {
		r.mu.Lock()
		if rec.stopped {
			r.mu.Unlock()
			return
		}
		a.DelayFromPreviousMs = int(a.TimestampMs - lastTS)
		lastTS = a.TimestampMs
		r.actions = append(r.actions, a)
		r.mu.Unlock()
		emit(rec.obs, Event{Kind: EventActionRecorded, Record: a})
	}

	for {
		if ctx.Err() != nil {
			return
		}
		ts := time.Since(start).Milliseconds()
		x, y, err := r.driver.CursorPos()
		if err == nil && (x != lastX || y != lastY) {
			add(model.RecordedAction{Kind: model.RecordedMouseMove, TimestampMs: ts, X: x, Y: y})
			lastX, lastY = x, y
		}
		for _, b := range polledButtons {
			down := r.driver.KeyState(wininput.ButtonVK(b))
			if down && !pressed[b] {
				add(model.RecordedAction{Kind: model.RecordedMouseClick, TimestampMs: ts, X: lastX, Y: lastY, Button: b})
			}
			pressed[b] = down
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
