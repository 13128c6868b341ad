package control

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/frudas24/autoclick/internal/logger"
	"github.com/frudas24/autoclick/internal/model"
	"github.com/frudas24/autoclick/internal/session"
	"github.com/gorilla/websocket"
)

// writeTimeout bounds how long a slow client can stall the run publishing to it.
const writeTimeout = 2 * time.Second

// Controller is the run surface driven by control messages.
type Controller interface {
	RunProfile(ctx context.Context, name string) error
	RunWorkspace(ctx context.Context, name string) error
	// Toggle pauses or resumes the active run and reports whether one exists.
	Toggle() bool
	Pause() bool
	Resume() bool
	Stop()
	StartRecording() bool
	StopRecording()
	Play(ctx context.Context, speed float64) bool
	StopPlayback()
	SaveRecording(name string) error
	LoadRecording(name string) error
	// StartClicker and StartTyping use the last saved settings when s is nil.
	StartClicker(ctx context.Context, s *model.ClickerSettings) error
	StartTyping(ctx context.Context, s *model.KeyboardSettings) error
	// RunLast starts whatever was started most recently.
	RunLast(ctx context.Context) error
	Snapshot() session.Snapshot
}

// Server handles websocket control input.
type Server struct {
	mu       sync.Mutex
	writeMu  sync.Mutex
	upgrader websocket.Upgrader
	session  *session.Session
	ctrl     Controller
	toggler  *Toggler
	// base outlives individual connections so runs survive a reconnect.
	base context.Context
	conn *websocket.Conn
}

// NewServer creates a control websocket server. Runs started through it are
// children of base.
func NewServer(base context.Context, sess *session.Session, ctrl Controller, toggler *Toggler) *Server {
	if toggler == nil {
		toggler = NewToggler(0)
	}
	return &Server{
		session: sess,
		ctrl:    ctrl,
		toggler: toggler,
		base:    base,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// ServeHTTP upgrades the connection and processes control messages.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !s.session.IsAuthenticated() {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	if err := s.acceptConn(conn); err != nil {
		_ = conn.Close()
		return
	}
	defer s.cleanupConn(conn)

	s.publishState()
	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		if err := s.handleMessage(msg); err != nil {
			logger.Area("control").Warn("control message failed", "t", msg.T, "err", err)
			s.Publish(Notice{T: NoticeError, Kind: msg.T, Error: err.Error()})
		}
	}
}

// Publish pushes n to the active connection, if any.
func (s *Server) Publish(n Notice) {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn == nil {
		return
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteJSON(n); err != nil {
		logger.Area("control").Debug("notice dropped", "t", n.T, "err", err)
	}
}

// acceptConn ensures only one active control connection exists.
func (s *Server) acceptConn(conn *websocket.Conn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		return fmt.Errorf("control connection already active")
	}
	s.conn = conn
	return nil
}

// cleanupConn clears the active connection when closed.
func (s *Server) cleanupConn(conn *websocket.Conn) {
	s.mu.Lock()
	if s.conn == conn {
		s.conn = nil
	}
	s.mu.Unlock()
	_ = conn.Close()
}

// handleMessage dispatches a single control message.
func (s *Server) handleMessage(msg Message) error {
	switch msg.T {
	case MsgRunProfile:
		return s.ctrl.RunProfile(s.base, msg.Name)
	case MsgRunWorkspace:
		return s.ctrl.RunWorkspace(s.base, msg.Name)
	case MsgToggle:
		return s.handleToggle(msg)
	case MsgPause:
		s.ctrl.Pause()
	case MsgResume:
		s.ctrl.Resume()
	case MsgStop:
		s.ctrl.Stop()
	case MsgRecord:
		if !s.ctrl.StartRecording() {
			return errors.New("recorder busy")
		}
	case MsgStopRecord:
		s.ctrl.StopRecording()
	case MsgPlay:
		if !s.ctrl.Play(s.base, msg.Speed) {
			return errors.New("nothing to play or recorder busy")
		}
	case MsgStopPlay:
		s.ctrl.StopPlayback()
	case MsgSaveRecording:
		return s.ctrl.SaveRecording(msg.Name)
	case MsgLoadRecording:
		return s.ctrl.LoadRecording(msg.Name)
	case MsgStartClicker:
		return s.ctrl.StartClicker(s.base, msg.Clicker)
	case MsgStartTyping:
		return s.ctrl.StartTyping(s.base, msg.Keyboard)
	case MsgState:
		s.publishState()
	}
	return nil
}

// handleToggle maps a toggle press to pause, resume, stop or start.
func (s *Server) handleToggle(msg Message) error {
	if s.toggler.Press() == GestureForceStop {
		s.ctrl.Stop()
		return nil
	}
	if s.ctrl.Toggle() {
		return nil
	}
	if msg.Name == "" {
		return s.ctrl.RunLast(s.base)
	}
	if msg.Kind == "workspace" {
		return s.ctrl.RunWorkspace(s.base, msg.Name)
	}
	return s.ctrl.RunProfile(s.base, msg.Name)
}

func (s *Server) publishState() {
	snap := s.ctrl.Snapshot()
	s.Publish(Notice{T: NoticeState, State: &snap})
}
