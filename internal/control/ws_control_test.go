package control

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/frudas24/autoclick/internal/model"
	"github.com/frudas24/autoclick/internal/session"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeController struct {
	mu      sync.Mutex
	calls   []string
	active  bool
	profErr error
}

func (f *fakeController) note(s string) {
	f.mu.Lock()
	f.calls = append(f.calls, s)
	f.mu.Unlock()
}

func (f *fakeController) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeController) RunProfile(_ context.Context, name string) error {
	f.note("profile:" + name)
	return f.profErr
}

func (f *fakeController) RunWorkspace(_ context.Context, name string) error {
	f.note("workspace:" + name)
	return nil
}

func (f *fakeController) Toggle() bool {
	f.note("toggle")
	return f.active
}

func (f *fakeController) Pause() bool                        { f.note("pause"); return true }
func (f *fakeController) Resume() bool                       { f.note("resume"); return true }
func (f *fakeController) Stop()                              { f.note("stop") }
func (f *fakeController) StartRecording() bool               { f.note("record"); return true }
func (f *fakeController) StopRecording()                     { f.note("stopRecord") }
func (f *fakeController) Play(context.Context, float64) bool { f.note("play"); return false }
func (f *fakeController) StopPlayback()                      { f.note("stopPlay") }
func (f *fakeController) SaveRecording(name string) error    { f.note("save:" + name); return nil }
func (f *fakeController) LoadRecording(name string) error    { f.note("load:" + name); return nil }
func (f *fakeController) Snapshot() session.Snapshot         { return session.Snapshot{Mode: session.ModeIdle} }

func (f *fakeController) StartClicker(_ context.Context, s *model.ClickerSettings) error {
	if s == nil {
		f.note("clicker:last")
		return nil
	}
	f.note(fmt.Sprintf("clicker:%s/%d", s.Button, s.IntervalMs))
	return nil
}

func (f *fakeController) StartTyping(_ context.Context, s *model.KeyboardSettings) error {
	if s == nil {
		f.note("typing:last")
		return nil
	}
	f.note("typing:" + s.Text)
	return nil
}

func (f *fakeController) RunLast(context.Context) error { f.note("last"); return nil }

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	return conn
}

func readNotice(t *testing.T, conn *websocket.Conn) Notice {
	t.Helper()
	var n Notice
	require.NoError(t, conn.ReadJSON(&n))
	return n
}

func waitCalls(t *testing.T, f *fakeController, want []string) {
	t.Helper()
	require.Eventually(t, func() bool {
		got := f.Calls()
		if len(got) < len(want) {
			return false
		}
		return assert.ObjectsAreEqual(want, got[:len(want)])
	}, time.Second, 5*time.Millisecond, "calls: %v", f.Calls())
}

func newAuthedServer(t *testing.T, ctrl Controller, tg *Toggler) (*Server, *httptest.Server) {
	t.Helper()
	sess := session.New("pw")
	require.True(t, sess.Authenticate("pw"))
	s := NewServer(context.Background(), sess, ctrl, tg)
	hs := httptest.NewServer(s)
	t.Cleanup(hs.Close)
	return s, hs
}

// TestServer_RejectsUnauthenticated verifies the upgrade requires a login.
func TestServer_RejectsUnauthenticated(t *testing.T) {
	s := NewServer(context.Background(), session.New("pw"), &fakeController{}, nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws/control", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// TestServer_SendsStateOnConnect verifies the first notice is a state snapshot.
func TestServer_SendsStateOnConnect(t *testing.T) {
	_, hs := newAuthedServer(t, &fakeController{}, nil)
	conn := dial(t, hs)
	n := readNotice(t, conn)
	require.Equal(t, NoticeState, n.T)
	require.NotNil(t, n.State)
	assert.Equal(t, session.ModeIdle, n.State.Mode)
}

// TestServer_DispatchesMessages verifies each message reaches the controller.
func TestServer_DispatchesMessages(t *testing.T) {
	ctrl := &fakeController{}
	_, hs := newAuthedServer(t, ctrl, nil)
	conn := dial(t, hs)
	readNotice(t, conn)

	for _, m := range []Message{
		{T: MsgRunProfile, Name: "a"},
		{T: MsgPause},
		{T: MsgResume},
		{T: MsgStop},
		{T: MsgRunWorkspace, Name: "w"},
		{T: MsgRecord},
		{T: MsgStopRecord},
		{T: MsgSaveRecording, Name: "r"},
		{T: MsgLoadRecording, Name: "r"},
		{T: MsgStopPlay},
	} {
		require.NoError(t, conn.WriteJSON(m))
	}
	waitCalls(t, ctrl, []string{
		"profile:a", "pause", "resume", "stop", "workspace:w",
		"record", "stopRecord", "save:r", "load:r", "stopPlay",
	})
}

// TestServer_ReportsErrors verifies failures come back as error notices.
func TestServer_ReportsErrors(t *testing.T) {
	ctrl := &fakeController{profErr: errors.New("profile not found")}
	_, hs := newAuthedServer(t, ctrl, nil)
	conn := dial(t, hs)
	readNotice(t, conn)

	require.NoError(t, conn.WriteJSON(Message{T: MsgRunProfile, Name: "missing"}))
	n := readNotice(t, conn)
	assert.Equal(t, NoticeError, n.T)
	assert.Equal(t, MsgRunProfile, n.Kind)
	assert.Contains(t, n.Error, "not found")

	require.NoError(t, conn.WriteJSON(Message{T: MsgPlay}))
	n = readNotice(t, conn)
	assert.Equal(t, NoticeError, n.T)
}

// TestServer_ToggleStartsWhenIdle verifies an idle toggle starts its target.
func TestServer_ToggleStartsWhenIdle(t *testing.T) {
	ctrl := &fakeController{}
	_, hs := newAuthedServer(t, ctrl, nil)
	conn := dial(t, hs)
	readNotice(t, conn)

	require.NoError(t, conn.WriteJSON(Message{T: MsgToggle, Name: "daily", Kind: "workspace"}))
	waitCalls(t, ctrl, []string{"toggle", "workspace:daily"})
}

// TestServer_ToggleWithoutNameRunsLast verifies an idle bare toggle restarts the last activity.
func TestServer_ToggleWithoutNameRunsLast(t *testing.T) {
	ctrl := &fakeController{}
	_, hs := newAuthedServer(t, ctrl, nil)
	conn := dial(t, hs)
	readNotice(t, conn)

	require.NoError(t, conn.WriteJSON(Message{T: MsgToggle}))
	waitCalls(t, ctrl, []string{"toggle", "last"})
}

// TestServer_StartsTools verifies clicker and typer messages carry their settings.
func TestServer_StartsTools(t *testing.T) {
	ctrl := &fakeController{}
	_, hs := newAuthedServer(t, ctrl, nil)
	conn := dial(t, hs)
	readNotice(t, conn)

	cs := model.NewClickerSettings()
	cs.Button, cs.IntervalMs = model.ButtonRight, 250
	ks := model.NewKeyboardSettings()
	ks.Text = "hi"
	for _, m := range []Message{
		{T: MsgStartClicker, Clicker: &cs},
		{T: MsgStartClicker},
		{T: MsgStartTyping, Keyboard: &ks},
		{T: MsgStartTyping},
	} {
		require.NoError(t, conn.WriteJSON(m))
	}
	waitCalls(t, ctrl, []string{"clicker:right/250", "clicker:last", "typing:hi", "typing:last"})
}

// TestServer_DoubleToggleStops verifies a quick second toggle force stops.
func TestServer_DoubleToggleStops(t *testing.T) {
	ctrl := &fakeController{active: true}
	_, hs := newAuthedServer(t, ctrl, NewToggler(time.Minute))
	conn := dial(t, hs)
	readNotice(t, conn)

	require.NoError(t, conn.WriteJSON(Message{T: MsgToggle}))
	require.NoError(t, conn.WriteJSON(Message{T: MsgToggle}))
	waitCalls(t, ctrl, []string{"toggle", "stop"})
}

// TestServer_PublishReachesClient verifies pushed notices arrive in order.
func TestServer_PublishReachesClient(t *testing.T) {
	s, hs := newAuthedServer(t, &fakeController{}, nil)
	conn := dial(t, hs)
	readNotice(t, conn)

	s.Publish(Notice{T: NoticeEvent, Source: "sequence", Kind: "action_executed", Index: 2})
	n := readNotice(t, conn)
	assert.Equal(t, NoticeEvent, n.T)
	assert.Equal(t, 2, n.Index)
}

// TestServer_SingleConnection verifies a second client is refused.
func TestServer_SingleConnection(t *testing.T) {
	_, hs := newAuthedServer(t, &fakeController{}, nil)
	first := dial(t, hs)
	readNotice(t, first)

	second := dial(t, hs)
	var n Notice
	assert.Error(t, second.ReadJSON(&n), "second connection should be closed")
}
