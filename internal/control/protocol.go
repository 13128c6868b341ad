// Package control exposes run control over a websocket and pushes run events back.
package control

import (
	"github.com/frudas24/autoclick/internal/model"
	"github.com/frudas24/autoclick/internal/session"
)

// Inbound message types.
const (
	MsgRunProfile    = "runProfile"
	MsgRunWorkspace  = "runWorkspace"
	MsgToggle        = "toggle"
	MsgPause         = "pause"
	MsgResume        = "resume"
	MsgStop          = "stop"
	MsgRecord        = "record"
	MsgStopRecord    = "stopRecord"
	MsgPlay          = "play"
	MsgStopPlay      = "stopPlay"
	MsgSaveRecording = "saveRecording"
	MsgLoadRecording = "loadRecording"
	MsgStartClicker  = "startClicker"
	MsgStartTyping   = "startTyping"
	MsgState         = "state"
)

// Outbound notice types.
const (
	NoticeEvent = "event"
	NoticeState = "state"
	NoticeError = "error"
)

// Message is a control websocket payload sent by the client.
type Message struct {
	T    string `json:"t"`
	Name string `json:"name,omitempty"`
	// Kind selects what a toggle starts when idle: "profile" or "workspace".
	// A toggle without a name restarts whatever ran last.
	Kind  string  `json:"kind,omitempty"`
	Speed float64 `json:"speed,omitempty"`
	// Clicker and Keyboard carry tool settings. When absent the last used
	// settings apply.
	Clicker  *model.ClickerSettings  `json:"clicker,omitempty"`
	Keyboard *model.KeyboardSettings `json:"keyboard,omitempty"`
}

// Notice is pushed to the client.
type Notice struct {
	T      string `json:"t"`
	Source string `json:"source,omitempty"`
	Kind   string `json:"kind,omitempty"`
	RunID  string `json:"runId,omitempty"`

	Index       int    `json:"index,omitempty"`
	Loop        int    `json:"loop,omitempty"`
	JobName     string `json:"jobName,omitempty"`
	JobIndex    int    `json:"jobIndex,omitempty"`
	TotalJobs   int    `json:"totalJobs,omitempty"`
	ProfileName string `json:"profileName,omitempty"`
	Count       int    `json:"count,omitempty"`
	Passes      int    `json:"passes,omitempty"`
	Cancelled   bool   `json:"cancelled,omitempty"`

	Record *model.RecordedAction `json:"record,omitempty"`
	State  *session.Snapshot     `json:"state,omitempty"`
	Error  string                `json:"error,omitempty"`
}
