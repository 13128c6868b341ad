//go:build !windows

package wininput

import "github.com/frudas24/autoclick/internal/model"

// NoopDriver is a placeholder driver for non-Windows builds.
type NoopDriver struct{}

// NewDriver returns a non-functional driver on non-Windows platforms.
func NewDriver() (Driver, error) {
	return &NoopDriver{}, ErrUnsupported
}

// Click returns ErrUnsupported.
func (n *NoopDriver) Click(button model.Button, double bool) error {
	_ = button
	_ = double
	return ErrUnsupported
}

// ClickAt returns ErrUnsupported.
func (n *NoopDriver) ClickAt(x, y int, button model.Button, double bool) error {
	_, _, _, _ = x, y, button, double
	return ErrUnsupported
}

// KeyDown returns ErrUnsupported.
func (n *NoopDriver) KeyDown(code uint16) error {
	_ = code
	return ErrUnsupported
}

// KeyUp returns ErrUnsupported.
func (n *NoopDriver) KeyUp(code uint16) error {
	_ = code
	return ErrUnsupported
}

// PressKey returns ErrUnsupported.
func (n *NoopDriver) PressKey(code uint16) error {
	_ = code
	return ErrUnsupported
}

// CursorPos returns ErrUnsupported.
func (n *NoopDriver) CursorPos() (int, int, error) {
	return 0, 0, ErrUnsupported
}

// SetCursorPos returns ErrUnsupported.
func (n *NoopDriver) SetCursorPos(x, y int) error {
	_, _ = x, y
	return ErrUnsupported
}

// KeyState always reports released.
func (n *NoopDriver) KeyState(vk uint16) bool {
	_ = vk
	return false
}
