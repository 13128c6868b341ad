package model

// RecordedKind identifies a captured low-level event.
type RecordedKind string

const (
	// RecordedMouseMove is a cursor move.
	RecordedMouseMove RecordedKind = "mouse_move"
	// RecordedMouseClick is a button press edge.
	RecordedMouseClick RecordedKind = "mouse_click"
	// RecordedKeyPress is a key down or up.
	RecordedKeyPress RecordedKind = "key_press"
)

// RecordedAction is one captured event. Playback paces itself with
// DelayFromPreviousMs only; TimestampMs is informational.
type RecordedAction struct {
	Kind                RecordedKind `json:"kind" yaml:"kind"`
	TimestampMs         int64        `json:"timestampMs" yaml:"timestamp_ms"`
	DelayFromPreviousMs int          `json:"delayFromPreviousMs" yaml:"delay_from_previous_ms"`
	X                   int          `json:"x" yaml:"x"`
	Y                   int          `json:"y" yaml:"y"`
	Button              Button       `json:"button,omitempty" yaml:"button,omitempty"`
	KeyCode             uint16       `json:"keyCode,omitempty" yaml:"key_code,omitempty"`
	KeyDown             bool         `json:"keyDown,omitempty" yaml:"key_down,omitempty"`
}
