//go:build windows

package wininput

import (
	"unsafe"

	"github.com/lxn/win"
	"golang.org/x/sys/windows"
)

var (
	user32               = windows.NewLazySystemDLL("user32.dll")
	procGetAsyncKeyState = user32.NewProc("GetAsyncKeyState")
)

// WinDriver injects mouse and keyboard input using WinAPI.
type WinDriver struct{}

// NewDriver returns a Windows input driver.
func NewDriver() (Driver, error) {
	if err := procGetAsyncKeyState.Find(); err != nil {
		return nil, err
	}
	return &WinDriver{}, nil
}

// KeyState reports whether the key is down using GetAsyncKeyState.
func (w *WinDriver) KeyState(vk uint16) bool {
	r, _, _ := procGetAsyncKeyState.Call(uintptr(vk))
	return uint16(r)&0x8000 != 0
}

// keyboardInput pads KEYBD_INPUT to the size of the INPUT union, which is
// the size of its largest member, MOUSE_INPUT.
type keyboardInput struct {
	win.KEYBD_INPUT
	_ [unsafe.Sizeof(win.MOUSE_INPUT{}) - unsafe.Sizeof(win.KEYBD_INPUT{})]byte
}

var sizeofInput = int32(unsafe.Sizeof(win.MOUSE_INPUT{}))

// sendMouseInput dispatches a single mouse input event.
func sendMouseInput(flags uint32, dx, dy int32, data uint32) error {
	input := win.MOUSE_INPUT{
		Type: win.INPUT_MOUSE,
		Mi: win.MOUSEINPUT{
			Dx:        dx,
			Dy:        dy,
			MouseData: data,
			DwFlags:   flags,
		},
	}
	if win.SendInput(1, unsafe.Pointer(&input), sizeofInput) != 1 {
		return windows.GetLastError()
	}
	return nil
}

// sendKeyboardInput dispatches a single keyboard input event.
func sendKeyboardInput(key win.KEYBDINPUT) error {
	input := keyboardInput{KEYBD_INPUT: win.KEYBD_INPUT{Type: win.INPUT_KEYBOARD, Ki: key}}
	if win.SendInput(1, unsafe.Pointer(&input), sizeofInput) != 1 {
		return windows.GetLastError()
	}
	return nil
}
