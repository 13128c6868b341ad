//go:build windows

package wininput

import "github.com/lxn/win"

// KeyDown presses a virtual key.
func (w *WinDriver) KeyDown(code uint16) error {
	return sendKeyboardInput(win.KEYBDINPUT{WVk: code})
}

// KeyUp releases a virtual key.
func (w *WinDriver) KeyUp(code uint16) error {
	return sendKeyboardInput(win.KEYBDINPUT{WVk: code, DwFlags: win.KEYEVENTF_KEYUP})
}

// PressKey taps a virtual key. A failed press still attempts the release.
func (w *WinDriver) PressKey(code uint16) error {
	if err := w.KeyDown(code); err != nil {
		_ = w.KeyUp(code)
		return err
	}
	return w.KeyUp(code)
}
