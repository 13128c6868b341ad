package model

import (
	"errors"
	"fmt"
)

// RepeatMode selects whether a clicker or typer runs until stopped or for a
// fixed number of passes.
type RepeatMode string

const (
	// RepeatInfinite runs until stopped.
	RepeatInfinite RepeatMode = "infinite"
	// RepeatLimited stops after RepeatCount passes.
	RepeatLimited RepeatMode = "count"
)

const (
	defaultClickIntervalMs = 100
	defaultTypeIntervalMs  = 50
	defaultRepeatPasses    = 10
)

// ClickerSettings configure the standalone auto clicker.
type ClickerSettings struct {
	Button             Button     `json:"button" yaml:"button"`
	ClickStyle         ClickStyle `json:"clickStyle" yaml:"click_style"`
	IntervalMs         int        `json:"intervalMs" yaml:"interval_ms"`
	UseCurrentPosition bool       `json:"useCurrentPosition" yaml:"use_current_position"`
	X                  int        `json:"x" yaml:"x"`
	Y                  int        `json:"y" yaml:"y"`
	RepeatMode         RepeatMode `json:"repeatMode" yaml:"repeat_mode"`
	RepeatCount        int        `json:"repeatCount" yaml:"repeat_count"`
}

// NewClickerSettings returns left single clicks at the cursor every 100 ms
// until stopped.
func NewClickerSettings() ClickerSettings {
	return ClickerSettings{
		Button:             ButtonLeft,
		ClickStyle:         ClickSingle,
		IntervalMs:         defaultClickIntervalMs,
		UseCurrentPosition: true,
		RepeatMode:         RepeatInfinite,
		RepeatCount:        defaultRepeatPasses,
	}
}

// Validate reports the first invalid field.
func (s ClickerSettings) Validate() error {
	switch s.Button {
	case ButtonLeft, ButtonRight, ButtonMiddle:
	default:
		return fmt.Errorf("unknown mouse button %q", s.Button)
	}
	switch s.ClickStyle {
	case ClickSingle, ClickDouble:
	default:
		return fmt.Errorf("unknown click style %q", s.ClickStyle)
	}
	if s.IntervalMs < 0 {
		return fmt.Errorf("interval must be >= 0, got %d", s.IntervalMs)
	}
	return validateRepeat(s.RepeatMode, s.RepeatCount)
}

// Limit returns the number of passes to run, or 0 for no limit.
func (s ClickerSettings) Limit() int {
	return repeatLimit(s.RepeatMode, s.RepeatCount)
}

// KeyboardMode selects what the auto typer sends on each pass.
type KeyboardMode string

const (
	// KeyboardTypeText types Text one character at a time.
	KeyboardTypeText KeyboardMode = "type_text"
	// KeyboardPressKey taps Key with the selected modifiers.
	KeyboardPressKey KeyboardMode = "press_key"
)

// KeyboardSettings configure the standalone auto typer.
type KeyboardSettings struct {
	Mode  KeyboardMode `json:"mode" yaml:"mode"`
	Text  string       `json:"text,omitempty" yaml:"text,omitempty"`
	Key   string       `json:"key,omitempty" yaml:"key,omitempty"`
	Ctrl  bool         `json:"ctrl,omitempty" yaml:"ctrl,omitempty"`
	Alt   bool         `json:"alt,omitempty" yaml:"alt,omitempty"`
	Shift bool         `json:"shift,omitempty" yaml:"shift,omitempty"`
	// IntervalMs is waited after every typed character, or after every key
	// tap in press_key mode.
	IntervalMs  int        `json:"intervalMs" yaml:"interval_ms"`
	RepeatMode  RepeatMode `json:"repeatMode" yaml:"repeat_mode"`
	RepeatCount int        `json:"repeatCount" yaml:"repeat_count"`
}

// NewKeyboardSettings returns text typing at 50 ms per character until stopped.
func NewKeyboardSettings() KeyboardSettings {
	return KeyboardSettings{
		Mode:        KeyboardTypeText,
		IntervalMs:  defaultTypeIntervalMs,
		RepeatMode:  RepeatInfinite,
		RepeatCount: defaultRepeatPasses,
	}
}

// Validate reports the first invalid field. Key names are resolved by the
// typer itself.
func (s KeyboardSettings) Validate() error {
	switch s.Mode {
	case KeyboardTypeText:
		if s.Text == "" {
			return errors.New("text is required")
		}
	case KeyboardPressKey:
		if s.Key == "" {
			return errors.New("key is required")
		}
	default:
		return fmt.Errorf("unknown keyboard mode %q", s.Mode)
	}
	if s.IntervalMs < 0 {
		return fmt.Errorf("interval must be >= 0, got %d", s.IntervalMs)
	}
	return validateRepeat(s.RepeatMode, s.RepeatCount)
}

// Limit returns the number of passes to run, or 0 for no limit.
func (s KeyboardSettings) Limit() int {
	return repeatLimit(s.RepeatMode, s.RepeatCount)
}

func validateRepeat(mode RepeatMode, count int) error {
	switch mode {
	case RepeatInfinite:
		return nil
	case RepeatLimited:
		if count < 1 {
			return fmt.Errorf("repeat count must be >= 1, got %d", count)
		}
		return nil
	default:
		return fmt.Errorf("unknown repeat mode %q", mode)
	}
}

func repeatLimit(mode RepeatMode, count int) int {
	if mode == RepeatLimited {
		return count
	}
	return 0
}

// LastKind names what was last started, so a bare toggle can start it again.
type LastKind string

const (
	// LastProfile means a profile run.
	LastProfile LastKind = "profile"
	// LastWorkspace means a workspace run.
	LastWorkspace LastKind = "workspace"
	// LastClicker means the auto clicker.
	LastClicker LastKind = "clicker"
	// LastKeyboard means the auto typer.
	LastKeyboard LastKind = "keyboard"
)

// AppSettings remember the last used targets and tool settings between runs.
type AppSettings struct {
	LastProfile   string           `json:"lastProfile,omitempty"`
	LastWorkspace string           `json:"lastWorkspace,omitempty"`
	LastKind      LastKind         `json:"lastKind,omitempty"`
	Clicker       ClickerSettings  `json:"clicker"`
	Keyboard      KeyboardSettings `json:"keyboard"`
}

// NewAppSettings returns settings with tool defaults and nothing remembered.
func NewAppSettings() AppSettings {
	return AppSettings{Clicker: NewClickerSettings(), Keyboard: NewKeyboardSettings()}
}
