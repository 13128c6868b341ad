// Package testutil provides test doubles shared across packages.
package testutil

import (
	"sync"

	"github.com/frudas24/autoclick/internal/model"
	"github.com/frudas24/autoclick/internal/wininput"
)

// Call records a single driver invocation.
type Call struct {
	Name   string
	X      int
	Y      int
	Button model.Button
	Double bool
	Code   uint16
}

// FakeDriver implements wininput.Driver and records calls for tests.
type FakeDriver struct {
	mu      sync.Mutex
	calls   []Call
	x, y    int
	pressed map[uint16]bool
	// OnCall runs after each recorded call, outside the lock.
	OnCall func(Call)
	// Err is returned by every input method when set.
	Err error
}

// Ensure FakeDriver implements the interface.
var _ wininput.Driver = (*FakeDriver)(nil)

// NewFakeDriver returns a driver with the cursor at the origin.
func NewFakeDriver() *FakeDriver {
	return &FakeDriver{pressed: make(map[uint16]bool)}
}

func (f *FakeDriver) record(c Call) error {
	f.mu.Lock()
	f.calls = append(f.calls, c)
	hook := f.OnCall
	err := f.Err
	f.mu.Unlock()
	if hook != nil {
		hook(c)
	}
	return err
}

// Click records a click at the current cursor.
func (f *FakeDriver) Click(button model.Button, double bool) error {
	f.mu.Lock()
	x, y := f.x, f.y
	f.mu.Unlock()
	return f.record(Call{Name: "Click", X: x, Y: y, Button: button, Double: double})
}

// ClickAt records a click and moves the fake cursor.
func (f *FakeDriver) ClickAt(x, y int, button model.Button, double bool) error {
	f.mu.Lock()
	f.x, f.y = x, y
	f.mu.Unlock()
	return f.record(Call{Name: "ClickAt", X: x, Y: y, Button: button, Double: double})
}

// KeyDown records a key press.
func (f *FakeDriver) KeyDown(code uint16) error {
	return f.record(Call{Name: "KeyDown", Code: code})
}

// KeyUp records a key release.
func (f *FakeDriver) KeyUp(code uint16) error {
	return f.record(Call{Name: "KeyUp", Code: code})
}

// PressKey records a key tap.
func (f *FakeDriver) PressKey(code uint16) error {
	return f.record(Call{Name: "PressKey", Code: code})
}

// CursorPos returns the scripted cursor position.
func (f *FakeDriver) CursorPos() (int, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.x, f.y, nil
}

// SetCursorPos records a move and updates the fake cursor.
func (f *FakeDriver) SetCursorPos(x, y int) error {
	f.mu.Lock()
	f.x, f.y = x, y
	f.mu.Unlock()
	return f.record(Call{Name: "SetCursorPos", X: x, Y: y})
}

// KeyState returns the scripted pressed state.
func (f *FakeDriver) KeyState(vk uint16) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pressed[vk]
}

// MoveCursor scripts the cursor position without recording a call.
func (f *FakeDriver) MoveCursor(x, y int) {
	f.mu.Lock()
	f.x, f.y = x, y
	f.mu.Unlock()
}

// SetPressed scripts the state returned by KeyState.
func (f *FakeDriver) SetPressed(vk uint16, down bool) {
	f.mu.Lock()
	f.pressed[vk] = down
	f.mu.Unlock()
}

// Calls returns a copy of the recorded calls.
func (f *FakeDriver) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// Names returns the recorded call names in order.
func (f *FakeDriver) Names() []string {
	calls := f.Calls()
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.Name
	}
	return out
}

// Reset clears the recorded calls.
func (f *FakeDriver) Reset() {
	f.mu.Lock()
	f.calls = nil
	f.mu.Unlock()
}
