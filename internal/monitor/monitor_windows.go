//go:build windows

package monitor

import (
	"errors"
	"fmt"
	"syscall"
	"unsafe"

	"github.com/lxn/win"
)

// List enumerates the attached displays, numbering them from 1.
func List() ([]Monitor, error) {
	var found []Monitor
	callback := syscall.NewCallback(func(h win.HMONITOR, _ win.HDC, _ *win.RECT, _ uintptr) uintptr {
		var info win.MONITORINFO
		info.CbSize = uint32(unsafe.Sizeof(info))
		if win.GetMonitorInfo(h, &info) {
			r := info.RcMonitor
			found = append(found, Monitor{
				Index:   len(found) + 1,
				X:       int(r.Left),
				Y:       int(r.Top),
				W:       int(r.Right - r.Left),
				H:       int(r.Bottom - r.Top),
				Primary: info.DwFlags&win.MONITORINFOF_PRIMARY != 0,
			})
		}
		return 1
	})

	if !win.EnumDisplayMonitors(0, nil, callback, 0) {
		return nil, fmt.Errorf("EnumDisplayMonitors failed: %w", syscall.GetLastError())
	}
	if len(found) == 0 {
		return nil, errors.New("no monitors detected")
	}
	return found, nil
}
