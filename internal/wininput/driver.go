// Package wininput drives Windows mouse and keyboard input for the runners.
package wininput

import (
	"errors"

	"github.com/frudas24/autoclick/internal/model"
)

// ErrUnsupported indicates WinAPI input injection is not available.
var ErrUnsupported = errors.New("wininput is only supported on Windows")

// Driver is the narrow input surface the runners and recorder depend on.
type Driver interface {
	// Click clicks at the current cursor position.
	Click(button model.Button, double bool) error
	// ClickAt moves the cursor to a screen coordinate and clicks there.
	ClickAt(x, y int, button model.Button, double bool) error
	KeyDown(code uint16) error
	KeyUp(code uint16) error
	// PressKey sends a key down followed by a key up.
	PressKey(code uint16) error
	CursorPos() (x, y int, err error)
	SetCursorPos(x, y int) error
	// KeyState reports whether a virtual key or mouse button is held right now.
	KeyState(vk uint16) bool
}
