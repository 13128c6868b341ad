// Package model defines the automation data shared by runners and stores.
package model

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ActionKind identifies what an ActionItem does when executed.
type ActionKind string

const (
	// KindClick clicks a mouse button.
	KindClick ActionKind = "click"
	// KindKeyPress presses a key with optional modifiers.
	KindKeyPress ActionKind = "key_press"
	// KindDelay waits without touching input.
	KindDelay ActionKind = "delay"
)

// Button is a mouse button.
type Button string

const (
	// ButtonLeft is the primary mouse button.
	ButtonLeft Button = "left"
	// ButtonRight is the secondary mouse button.
	ButtonRight Button = "right"
	// ButtonMiddle is the wheel button.
	ButtonMiddle Button = "middle"
)

// ClickStyle selects a single or double click.
type ClickStyle string

const (
	// ClickSingle clicks once.
	ClickSingle ClickStyle = "single"
	// ClickDouble clicks twice in quick succession.
	ClickDouble ClickStyle = "double"
)

const (
	defaultDelayMs     = 100
	defaultRepeatCount = 1
)

// ActionItem is one automation step.
type ActionItem struct {
	ID      string     `json:"id" yaml:"id"`
	Kind    ActionKind `json:"kind" yaml:"kind"`
	Enabled bool       `json:"enabled" yaml:"enabled"`

	Button             Button     `json:"button,omitempty" yaml:"button,omitempty"`
	ClickStyle         ClickStyle `json:"clickStyle,omitempty" yaml:"click_style,omitempty"`
	UseCurrentPosition bool       `json:"useCurrentPosition" yaml:"use_current_position"`
	X                  int        `json:"x,omitempty" yaml:"x,omitempty"`
	Y                  int        `json:"y,omitempty" yaml:"y,omitempty"`

	Key   string `json:"key,omitempty" yaml:"key,omitempty"`
	Ctrl  bool   `json:"ctrl,omitempty" yaml:"ctrl,omitempty"`
	Alt   bool   `json:"alt,omitempty" yaml:"alt,omitempty"`
	Shift bool   `json:"shift,omitempty" yaml:"shift,omitempty"`

	// DelayMs is waited between repetitions, or is the wait itself for KindDelay.
	DelayMs     int `json:"delayMs" yaml:"delay_ms"`
	RepeatCount int `json:"repeatCount" yaml:"repeat_count"`
}

// NewActionItem returns an enabled action of the given kind with editor defaults.
func NewActionItem(kind ActionKind) ActionItem {
	return ActionItem{
		ID:                 uuid.NewString(),
		Kind:               kind,
		Enabled:            true,
		Button:             ButtonLeft,
		ClickStyle:         ClickSingle,
		UseCurrentPosition: true,
		DelayMs:            defaultDelayMs,
		RepeatCount:        defaultRepeatCount,
	}
}

// Clone returns a copy with a fresh ID.
func (a ActionItem) Clone() ActionItem {
	a.ID = uuid.NewString()
	return a
}

// IsDouble reports whether the click style is a double click.
func (a ActionItem) IsDouble() bool {
	return a.ClickStyle == ClickDouble
}

// Normalize clamps the repeat count and delay into their valid ranges and fills
// missing identifiers and buttons.
func (a ActionItem) Normalize() ActionItem {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.RepeatCount < 1 {
		a.RepeatCount = 1
	}
	if a.DelayMs < 0 {
		a.DelayMs = 0
	}
	if a.Kind == KindClick && a.Button == "" {
		a.Button = ButtonLeft
	}
	if a.Kind == KindClick && a.ClickStyle == "" {
		a.ClickStyle = ClickSingle
	}
	return a
}

// Validate reports the first invariant the action violates.
func (a ActionItem) Validate() error {
	switch a.Kind {
	case KindClick, KindKeyPress, KindDelay:
	default:
		return fmt.Errorf("unknown action kind %q", a.Kind)
	}
	if a.RepeatCount < 1 {
		return fmt.Errorf("repeat count must be >= 1, got %d", a.RepeatCount)
	}
	if a.DelayMs < 0 {
		return fmt.Errorf("delay must be >= 0, got %d", a.DelayMs)
	}
	if a.Kind == KindClick {
		switch a.Button {
		case ButtonLeft, ButtonRight, ButtonMiddle:
		default:
			return fmt.Errorf("unknown mouse button %q", a.Button)
		}
	}
	return nil
}

// DisplayName renders a short human label for lists.
func (a ActionItem) DisplayName() string {
	switch a.Kind {
	case KindClick:
		where := "cursor"
		if !a.UseCurrentPosition {
			where = fmt.Sprintf("(%d, %d)", a.X, a.Y)
		}
		return fmt.Sprintf("Click %s at %s", a.Button.Title(), where)
	case KindKeyPress:
		var b strings.Builder
		b.WriteString("Press ")
		if a.Ctrl {
			b.WriteString("Ctrl+")
		}
		if a.Alt {
			b.WriteString("Alt+")
		}
		if a.Shift {
			b.WriteString("Shift+")
		}
		b.WriteString(a.Key)
		return b.String()
	case KindDelay:
		return fmt.Sprintf("Wait %dms", a.DelayMs)
	default:
		return "Unknown"
	}
}

// Title returns the capitalised button name.
func (b Button) Title() string {
	switch b {
	case ButtonRight:
		return "Right"
	case ButtonMiddle:
		return "Middle"
	default:
		return "Left"
	}
}
