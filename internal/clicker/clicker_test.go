package clicker

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

func newRunner(t *testing.T) (*Runner, *testutil.FakeDriver) {
	t.Helper()
	drv := testutil.NewFakeDriver()
	r, err := New(drv)
	require.NoError(t, err)
	return r, drv
}

func limited(s model.ClickerSettings, n int) model.ClickerSettings {
	s.RepeatMode, s.RepeatCount = model.RepeatLimited, n
	return s
}

func codes(calls []testutil.Call) []uint16 {
	out := make([]uint16, 0, len(calls))
	for _, c := range calls {
		out = append(out, c.Code)
	}
	return out
}

func waitDone(t *testing.T, h *Handle) Summary {
	t.Helper()
	select {
	case <-h.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("loop never stopped")
	}
	return h.Wait()
}

// TestNew_RequiresDriver verifies constructor validation.
func TestNew_RequiresDriver(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)
}

// TestClick_StopsAfterRepeatCount verifies a limited clicker clicks exactly count times.
func TestClick_StopsAfterRepeatCount(t *testing.T) {
	r, drv := newRunner(t)
	s := model.NewClickerSettings()
	s.UseCurrentPosition = false
	s.X, s.Y = 10, 20
	s.ClickStyle = model.ClickDouble
	s.Button = model.ButtonRight
	s.IntervalMs = 0

	events := &sink{}
	h, err := r.Click(context.Background(), limited(s, 3), events.observe)
	require.NoError(t, err)
	sum := waitDone(t, h)

	assert.False(t, sum.Cancelled)
	assert.Equal(t, 3, sum.Passes)
	assert.Equal(t, 3, sum.Count)
	assert.Equal(t, ToolClicker, sum.Tool)
	calls := drv.Calls()
	require.Len(t, calls, 3)
	for _, c := range calls {
		assert.Equal(t, testutil.Call{Name: "ClickAt", X: 10, Y: 20, Button: model.ButtonRight, Double: true}, c)
	}

	performed := events.ofKind(EventPerformed)
	require.Len(t, performed, 3)
	for i, ev := range performed {
		assert.Equal(t, i+1, ev.Passes)
		assert.Equal(t, h.ID(), ev.RunID)
	}
	stopped := events.ofKind(EventStopped)
	require.Len(t, stopped, 1)
	assert.Equal(t, sum, stopped[0].Summary)
	assert.Nil(t, r.Active())
}

// TestClick_InfiniteRunsUntilStopped verifies the default mode only ends on stop.
func TestClick_InfiniteRunsUntilStopped(t *testing.T) {
	r, drv := newRunner(t)
	s := model.NewClickerSettings()
	s.IntervalMs = 2

	h, err := r.Click(context.Background(), s, nil)
	require.NoError(t, err)
	assert.Same(t, h, r.Active())
	require.Eventually(t, func() bool { return len(drv.Calls()) >= 5 }, time.Second, time.Millisecond)

	h.Stop()
	sum := waitDone(t, h)
	assert.True(t, sum.Cancelled)
	assert.GreaterOrEqual(t, sum.Passes, 5)
	assert.Equal(t, "Click", drv.Calls()[0].Name)
}

// TestStop_AbortsInterval verifies stop cuts a long interval short.
func TestStop_AbortsInterval(t *testing.T) {
	r, drv := newRunner(t)
	s := model.NewClickerSettings()
	s.IntervalMs = 60_000

	h, err := r.Click(context.Background(), s, nil)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return len(drv.Calls()) == 1 }, time.Second, time.Millisecond)

	start := time.Now()
	h.Stop()
	sum := waitDone(t, h)
	assert.Less(t, time.Since(start), time.Second)
	assert.True(t, sum.Cancelled)
	assert.Equal(t, 1, sum.Passes)
}

// TestStart_RefusesBusyAndInvalid verifies one loop at a time and settings validation.
func TestStart_RefusesBusyAndInvalid(t *testing.T) {
	r, _ := newRunner(t)
	s := model.NewClickerSettings()
	s.IntervalMs = 60_000

	h, err := r.Click(context.Background(), s, nil)
	require.NoError(t, err)
	_, err = r.Click(context.Background(), s, nil)
	assert.ErrorIs(t, err, ErrBusy)
	k := model.NewKeyboardSettings()
	k.Text = "x"
	_, err = r.Type(context.Background(), k, nil)
	assert.ErrorIs(t, err, ErrBusy)
	h.Stop()
	waitDone(t, h)

	bad := model.NewClickerSettings()
	bad.Button = "side"
	_, err = r.Click(context.Background(), bad, nil)
	assert.Error(t, err)

	_, err = r.Type(context.Background(), model.NewKeyboardSettings(), nil)
	assert.Error(t, err, "empty text must be refused")

	k.Text = "!?"
	_, err = r.Type(context.Background(), k, nil)
	assert.Error(t, err, "text without any typeable character must be refused")

	k.Mode, k.Key = model.KeyboardPressKey, "NotAKey"
	_, err = r.Type(context.Background(), k, nil)
	assert.Error(t, err)
	assert.Nil(t, r.Active())
}

// TestType_TextShiftsUppercase verifies case handling and skipped characters.
func TestType_TextShiftsUppercase(t *testing.T) {
	r, drv := newRunner(t)
	k := model.NewKeyboardSettings()
	k.Text = "aB!1"
	k.IntervalMs = 0
	k.RepeatMode, k.RepeatCount = model.RepeatLimited, 2

	events := &sink{}
	h, err := r.Type(context.Background(), k, events.observe)
	require.NoError(t, err)
	sum := waitDone(t, h)

	assert.Equal(t, ToolKeyboard, sum.Tool)
	assert.Equal(t, 2, sum.Passes)
	assert.Equal(t, 6, sum.Count)
	pass := []string{"PressKey", "KeyDown", "PressKey", "KeyUp", "PressKey"}
	assert.Equal(t, append(append([]string{}, pass...), pass...), drv.Names())
	assert.Equal(t, []uint16{0x41, wininput.VKShift, 0x42, wininput.VKShift, 0x31}, codes(drv.Calls())[:5])

	performed := events.ofKind(EventPerformed)
	require.Len(t, performed, 2)
	assert.Equal(t, 3, performed[0].Count)
	assert.Equal(t, 6, performed[1].Count)
}

// TestType_PressKeyWithModifiers verifies key mode holds the chord around each tap.
func TestType_PressKeyWithModifiers(t *testing.T) {
	r, drv := newRunner(t)
	k := model.NewKeyboardSettings()
	k.Mode, k.Key = model.KeyboardPressKey, "c"
	k.Ctrl = true
	k.IntervalMs = 1
	k.RepeatMode, k.RepeatCount = model.RepeatLimited, 2

	h, err := r.Type(context.Background(), k, nil)
	require.NoError(t, err)
	sum := waitDone(t, h)

	assert.False(t, sum.Cancelled)
	assert.Equal(t, 2, sum.Count)
	assert.Equal(t, []string{"KeyDown", "PressKey", "KeyUp", "KeyDown", "PressKey", "KeyUp"}, drv.Names())
	assert.Equal(t, []uint16{wininput.VKControl, 0x43, wininput.VKControl}, codes(drv.Calls())[:3])
}

// TestType_StopMidText verifies a stop between characters ends the pass early.
func TestType_StopMidText(t *testing.T) {
	r, drv := newRunner(t)
	k := model.NewKeyboardSettings()
	k.Text = "abcdef"
	k.IntervalMs = 60_000

	h, err := r.Type(context.Background(), k, nil)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return len(drv.Calls()) == 1 }, time.Second, time.Millisecond)
	h.Stop()
	sum := waitDone(t, h)
	assert.True(t, sum.Cancelled)
	assert.Equal(t, 0, sum.Passes)
	assert.Equal(t, 1, sum.Count)
}
