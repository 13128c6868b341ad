package recorder

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/frudas24/autoclick/internal/model"
	"github.com/frudas24/autoclick/internal/testutil"
	"github.com/frudas24/autoclick/internal/wininput"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sink struct {
	mu     sync.Mutex
	events []Event
}

func (s *sink) observe(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	s.mu.Unlock()
}

func (s *sink) ofKind(kind EventKind) []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Event
	for _, ev := range s.events {
		if ev.Kind == kind {
			out = append(out, ev)
		}
	}
	return out
}

// waitStopped blocks until exactly one RecordingStopped event was delivered.
func (s *sink) waitStopped(t *testing.T) Event {
	t.Helper()
	require.Eventually(t, func() bool { return len(s.ofKind(EventRecordingStopped)) > 0 }, time.Second, time.Millisecond)
	stopped := s.ofKind(EventRecordingStopped)
	require.Len(t, stopped, 1)
	return stopped[0]
}

func newRecorder(t *testing.T) (*Recorder, *testutil.FakeDriver) {
	t.Helper()
	drv := testutil.NewFakeDriver()
	r, err := New(drv, WithPollInterval(time.Millisecond))
	require.NoError(t, err)
	return r, drv
}

func clicks(recs []model.RecordedAction) []model.RecordedAction {
	var out []model.RecordedAction
	for _, r := range recs {
		if r.Kind == model.RecordedMouseClick {
			out = append(out, r)
		}
	}
	return out
}

// TestNew_RequiresDriver verifies constructor validation.
func TestNew_RequiresDriver(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)
}

// TestRecording_CapturesMovesAndClickEdges verifies moves and press edges are recorded once.
func TestRecording_CapturesMovesAndClickEdges(t *testing.T) {
	r, drv := newRecorder(t)
	s := &sink{}
	require.True(t, r.StartRecording(s.observe))
	assert.False(t, r.StartRecording(nil))
	assert.Equal(t, StateRecording, r.State())

	drv.MoveCursor(100, 200)
	require.Eventually(t, func() bool { return len(r.Recorded()) >= 1 }, time.Second, time.Millisecond)

	drv.SetPressed(wininput.VKLButton, true)
	require.Eventually(t, func() bool { return len(clicks(r.Recorded())) == 1 }, time.Second, time.Millisecond)
	// Holding the button must not produce more clicks.
	time.Sleep(20 * time.Millisecond)
	assert.Len(t, clicks(r.Recorded()), 1)

	drv.SetPressed(wininput.VKLButton, false)
	time.Sleep(10 * time.Millisecond)
	drv.SetPressed(wininput.VKRButton, true)
	require.Eventually(t, func() bool { return len(clicks(r.Recorded())) == 2 }, time.Second, time.Millisecond)

	r.StopRecording()
	recs := r.Recorded()
	require.NotEmpty(t, recs)
	assert.Equal(t, model.RecordedMouseMove, recs[0].Kind)
	assert.Equal(t, [2]int{100, 200}, [2]int{recs[0].X, recs[0].Y})

	cs := clicks(recs)
	assert.Equal(t, model.ButtonLeft, cs[0].Button)
	assert.Equal(t, model.ButtonRight, cs[1].Button)
	assert.Equal(t, 100, cs[1].X)

	var prev int64
	for _, rec := range recs {
		assert.GreaterOrEqual(t, rec.TimestampMs, prev)
		assert.Equal(t, int(rec.TimestampMs-prev), rec.DelayFromPreviousMs)
		prev = rec.TimestampMs
	}
	stopped := s.waitStopped(t)
	assert.Equal(t, len(recs), stopped.Count)
	assert.Len(t, s.ofKind(EventActionRecorded), len(recs))
}

// TestStartRecording_MoveRightAfterStartIsCaptured verifies the cursor baseline is taken
// before StartRecording returns, so an immediate move is recorded.
func TestStartRecording_MoveRightAfterStartIsCaptured(t *testing.T) {
	for i := 0; i < 3; i++ {
		r, drv := newRecorder(t)
		drv.MoveCursor(5, 5)
		require.True(t, r.StartRecording(nil))
		drv.MoveCursor(6, 7)
		require.Eventually(t, func() bool { return len(r.Recorded()) == 1 }, time.Second, time.Millisecond)
		r.StopRecording()
		recs := r.Recorded()
		require.Len(t, recs, 1)
		assert.Equal(t, [2]int{6, 7}, [2]int{recs[0].X, recs[0].Y})
	}
}

// TestStartRecording_HeldButtonIsNotAClick verifies a button already down at start is the
// baseline and only a fresh press is recorded.
func TestStartRecording_HeldButtonIsNotAClick(t *testing.T) {
	r, drv := newRecorder(t)
	drv.SetPressed(wininput.VKLButton, true)
	require.True(t, r.StartRecording(nil))
	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, clicks(r.Recorded()))

	drv.SetPressed(wininput.VKLButton, false)
	time.Sleep(10 * time.Millisecond)
	drv.SetPressed(wininput.VKLButton, true)
	require.Eventually(t, func() bool { return len(clicks(r.Recorded())) == 1 }, time.Second, time.Millisecond)
	r.StopRecording()
}

// TestStopRecording_ConcurrentCallersStopOnce verifies racing stops emit one event.
func TestStopRecording_ConcurrentCallersStopOnce(t *testing.T) {
	r, drv := newRecorder(t)
	s := &sink{}
	require.True(t, r.StartRecording(s.observe))
	drv.MoveCursor(9, 9)
	require.Eventually(t, func() bool { return len(r.Recorded()) == 1 }, time.Second, time.Millisecond)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.StopRecording()
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, s.waitStopped(t).Count)
	time.Sleep(20 * time.Millisecond)
	assert.Len(t, s.ofKind(EventRecordingStopped), 1)
	assert.Equal(t, StateIdle, r.State())
}

// TestStopRecording_FromObserver verifies an observer may stop the recording it observes.
func TestStopRecording_FromObserver(t *testing.T) {
	r, drv := newRecorder(t)
	s := &sink{}
	returned := make(chan struct{})
	var once sync.Once
	obs := func(ev Event) {
		s.observe(ev)
		if ev.Kind == EventActionRecorded {
			once.Do(func() {
				r.StopRecording()
				close(returned)
			})
		}
	}
	require.True(t, r.StartRecording(obs))
	drv.MoveCursor(3, 3)

	select {
	case <-returned:
	case <-time.After(2 * time.Second):
		t.Fatal("StopRecording called from an observer never returned")
	}
	assert.Equal(t, 1, s.waitStopped(t).Count)
	assert.Equal(t, StateIdle, r.State())
	assert.True(t, r.StartRecording(nil), "recorder must accept a new recording")
	r.StopRecording()
}

// TestStopRecording_NoLateRecords verifies nothing is captured after stop returns.
func TestStopRecording_NoLateRecords(t *testing.T) {
	r, drv := newRecorder(t)
	require.True(t, r.StartRecording(nil))
	drv.MoveCursor(1, 1)
	require.Eventually(t, func() bool { return len(r.Recorded()) == 1 }, time.Second, time.Millisecond)

	r.StopRecording()
	n := len(r.Recorded())
	drv.MoveCursor(50, 50)
	drv.SetPressed(wininput.VKMButton, true)
	time.Sleep(30 * time.Millisecond)
	assert.Len(t, r.Recorded(), n)
	assert.Equal(t, StateIdle, r.State())
}

// TestStartRecording_ClearsBuffer verifies a new recording starts empty.
func TestStartRecording_ClearsBuffer(t *testing.T) {
	r, _ := newRecorder(t)
	require.True(t, r.Load([]model.RecordedAction{{Kind: model.RecordedMouseMove}}))
	require.True(t, r.StartRecording(nil))
	assert.Empty(t, r.Recorded())
	assert.False(t, r.Load(nil), "load must be refused while recording")
	r.StopRecording()
}

// TestPlay_SpeedHalvesGaps verifies playback at 2x halves each gap and keeps order.
func TestPlay_SpeedHalvesGaps(t *testing.T) {
	r, drv := newRecorder(t)
	var mu sync.Mutex
	var stamps []time.Time
	drv.OnCall = func(testutil.Call) {
		mu.Lock()
		stamps = append(stamps, time.Now())
		mu.Unlock()
	}
	recs := []model.RecordedAction{
		{Kind: model.RecordedMouseMove, X: 1, Y: 1},
		{Kind: model.RecordedMouseMove, X: 2, Y: 2, DelayFromPreviousMs: 120},
		{Kind: model.RecordedMouseClick, X: 2, Y: 2, Button: model.ButtonLeft, DelayFromPreviousMs: 160},
		{Kind: model.RecordedKeyPress, KeyCode: 0x41, KeyDown: true, DelayFromPreviousMs: 80},
	}
	require.True(t, r.Load(recs))
	s := &sink{}
	require.True(t, r.Play(context.Background(), 2.0, s.observe))
	r.WaitPlayback()

	assert.Equal(t, []string{"SetCursorPos", "SetCursorPos", "ClickAt", "KeyDown"}, drv.Names())
	mu.Lock()
	defer mu.Unlock()
	require.Len(t, stamps, 4)
	for i, want := range []time.Duration{60 * time.Millisecond, 80 * time.Millisecond, 40 * time.Millisecond} {
		gap := stamps[i+1].Sub(stamps[i])
		assert.GreaterOrEqual(t, gap, want-5*time.Millisecond, "gap %d", i)
		assert.Less(t, gap, want+60*time.Millisecond, "gap %d", i)
	}

	played := s.ofKind(EventActionPlayed)
	require.Len(t, played, 4)
	for i, ev := range played {
		assert.Equal(t, i, ev.Index)
		assert.Equal(t, recs[i], ev.Record)
	}
	stopped := s.ofKind(EventPlaybackStopped)
	require.Len(t, stopped, 1)
	assert.False(t, stopped[0].Cancelled)
	assert.Equal(t, 4, stopped[0].Count)
}

// TestPlay_Preconditions verifies empty, busy and recording plays are refused.
func TestPlay_Preconditions(t *testing.T) {
	r, _ := newRecorder(t)
	assert.False(t, r.Play(context.Background(), 1, nil))

	require.True(t, r.StartRecording(nil))
	assert.False(t, r.Play(context.Background(), 1, nil))
	r.StopRecording()

	require.True(t, r.Load([]model.RecordedAction{{Kind: model.RecordedMouseMove, DelayFromPreviousMs: 10_000}}))
	require.True(t, r.Play(context.Background(), 1, nil))
	assert.False(t, r.Play(context.Background(), 1, nil))
	assert.False(t, r.StartRecording(nil))
	assert.False(t, r.Clear())
	r.StopPlayback()
	r.WaitPlayback()
	assert.True(t, r.Clear())
}

// TestStopPlayback_AbortsWait verifies stop cuts a long gap short and reports cancellation.
func TestStopPlayback_AbortsWait(t *testing.T) {
	r, drv := newRecorder(t)
	require.True(t, r.Load([]model.RecordedAction{
		{Kind: model.RecordedMouseMove, X: 3, Y: 4},
		{Kind: model.RecordedMouseMove, X: 5, Y: 6, DelayFromPreviousMs: 10_000},
	}))
	s := &sink{}
	require.True(t, r.Play(context.Background(), 0, s.observe))
	require.Eventually(t, func() bool { return len(drv.Calls()) == 1 }, time.Second, time.Millisecond)

	start := time.Now()
	r.StopPlayback()
	r.WaitPlayback()
	assert.Less(t, time.Since(start), time.Second)
	stopped := s.ofKind(EventPlaybackStopped)
	require.Len(t, stopped, 1)
	assert.True(t, stopped[0].Cancelled)
	assert.Equal(t, 1, stopped[0].Count)
	assert.Equal(t, StateIdle, r.State())
}
