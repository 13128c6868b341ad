//go:build windows

package wininput

import (
	"errors"

	"github.com/frudas24/autoclick/internal/model"
	"github.com/lxn/win"
)

// CursorPos returns the current cursor position in screen coordinates.
func (w *WinDriver) CursorPos() (int, int, error) {
	var pt win.POINT
	if !win.GetCursorPos(&pt) {
		return 0, 0, errors.New("GetCursorPos failed")
	}
	return int(pt.X), int(pt.Y), nil
}

// SetCursorPos moves the cursor to an absolute screen coordinate.
func (w *WinDriver) SetCursorPos(x, y int) error {
	dx, dy := mapAbsolute(x, y)
	flags := uint32(win.MOUSEEVENTF_MOVE | win.MOUSEEVENTF_ABSOLUTE | win.MOUSEEVENTF_VIRTUALDESK)
	if err := sendMouseInput(flags, dx, dy, 0); err != nil {
		if win.SetCursorPos(int32(x), int32(y)) {
			return nil
		}
		return err
	}
	win.SetCursorPos(int32(x), int32(y))
	return nil
}

// Click presses and releases a button where the cursor is, twice for a double click.
func (w *WinDriver) Click(button model.Button, double bool) error {
	down, up := buttonFlags(button)
	times := 1
	if double {
		times = 2
	}
	for i := 0; i < times; i++ {
		if err := sendMouseInput(down, 0, 0, 0); err != nil {
			return err
		}
		if err := sendMouseInput(up, 0, 0, 0); err != nil {
			return err
		}
	}
	return nil
}

// ClickAt moves the cursor and clicks there.
func (w *WinDriver) ClickAt(x, y int, button model.Button, double bool) error {
	if err := w.SetCursorPos(x, y); err != nil {
		return err
	}
	return w.Click(button, double)
}

// buttonFlags returns the down and up flags for a mouse button.
func buttonFlags(b model.Button) (uint32, uint32) {
	switch b {
	case model.ButtonRight:
		return win.MOUSEEVENTF_RIGHTDOWN, win.MOUSEEVENTF_RIGHTUP
	case model.ButtonMiddle:
		return win.MOUSEEVENTF_MIDDLEDOWN, win.MOUSEEVENTF_MIDDLEUP
	default:
		return win.MOUSEEVENTF_LEFTDOWN, win.MOUSEEVENTF_LEFTUP
	}
}

// mapAbsolute converts screen coordinates to the WinAPI absolute range.
func mapAbsolute(x, y int) (int32, int32) {
	vx := win.GetSystemMetrics(win.SM_XVIRTUALSCREEN)
	vy := win.GetSystemMetrics(win.SM_YVIRTUALSCREEN)
	vw := win.GetSystemMetrics(win.SM_CXVIRTUALSCREEN)
	vh := win.GetSystemMetrics(win.SM_CYVIRTUALSCREEN)
	if vw <= 1 {
		vw = 2
	}
	if vh <= 1 {
		vh = 2
	}
	dx := (int64(x) - int64(vx)) * 65535 / int64(vw-1)
	dy := (int64(y) - int64(vy)) * 65535 / int64(vh-1)
	return int32(dx), int32(dy)
}
