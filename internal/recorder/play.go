package recorder

import (
	"context"
	"time"

	"github.com/frudas24/autoclick/internal/gate"
	"github.com/frudas24/autoclick/internal/model"
)

// Play replays the buffer on its own goroutine, dividing every recorded gap
// by speed. Non-positive speeds play at 1.0. It returns false when recording,
// already playing, or the buffer is empty.
func (r *Recorder) Play(ctx context.Context, speed float64, obs Observer) bool {
	r.mu.Lock()
	if r.state != StateIdle || len(r.actions) == 0 {
		r.mu.Unlock()
		return false
	}
	if speed <= 0 {
		speed = 1
	}
	actions := append([]model.RecordedAction(nil), r.actions...)
	playCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	r.state = StatePlaying
	r.playStop = cancel
	r.playDone = done
	r.mu.Unlock()

	go r.play(playCtx, actions, speed, obs, done)
	return true
}

// StopPlayback cancels the current playback.
func (r *Recorder) StopPlayback() {
	r.mu.Lock()
	stop := r.playStop
	r.mu.Unlock()
	if stop != nil {
		stop()
	}
}

// WaitPlayback blocks until the current playback, if any, has ended.
func (r *Recorder) WaitPlayback() {
	r.mu.Lock()
	done := r.playDone
	r.mu.Unlock()
	if done != nil {
		<-done
	}
}

func (r *Recorder) play(ctx context.Context, actions []model.RecordedAction, speed float64, obs Observer, done chan struct{}) {
	played := 0
	defer func() {
		cancelled := ctx.Err() != nil
		r.mu.Lock()
		r.playStop()
		r.state = StateIdle
		r.playStop = nil
		r.mu.Unlock()
		r.log.Info("playback stopped", "played", played, "cancelled", cancelled)
		emit(obs, Event{Kind: EventPlaybackStopped, Count: played, Cancelled: cancelled})
		close(done)
	}()

	r.log.Info("playback started", "records", len(actions), "speed", speed)
	for i, a := range actions {
		if ctx.Err() != nil {
			return
		}
		wait := time.Duration(float64(a.DelayFromPreviousMs) / speed * float64(time.Millisecond))
		if wait > 0 {
			if err := gate.Sleep(ctx, wait); err != nil {
				return
			}
		}
		r.replay(a)
		played++
		emit(obs, Event{Kind: EventActionPlayed, Record: a, Index: i})
	}
}

// replay injects one record. Failures are logged and playback continues.
func (r *Recorder) replay(a model.RecordedAction) {
	var err error
	switch a.Kind {
	case model.RecordedMouseMove:
		err = r.driver.SetCursorPos(a.X, a.Y)
	case model.RecordedMouseClick:
		err = r.driver.ClickAt(a.X, a.Y, a.Button, false)
	case model.RecordedKeyPress:
		if a.KeyDown {
			err = r.driver.KeyDown(a.KeyCode)
		} else {
			err = r.driver.KeyUp(a.KeyCode)
		}
	default:
		r.log.Warn("unknown record kind", "kind", a.Kind)
	}
	if err != nil {
		r.log.Warn("replay failed", "kind", a.Kind, "err", err)
	}
}
