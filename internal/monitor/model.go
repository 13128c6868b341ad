// Package monitor enumerates displays and checks click targets against them.
package monitor

import (
	"errors"

	"github.com/frudas24/autoclick/internal/model"
)

// ErrUnsupported indicates monitor enumeration is not available.
var ErrUnsupported = errors.New("monitor enumeration is only supported on Windows")

// Monitor describes a display and its bounds in virtual-screen coordinates.
type Monitor struct {
	Index   int  `json:"index"`
	X       int  `json:"x"`
	Y       int  `json:"y"`
	W       int  `json:"w"`
	H       int  `json:"h"`
	Primary bool `json:"primary"`
}

// Contains reports whether the point lies on the monitor.
func (m Monitor) Contains(x, y int) bool {
	return x >= m.X && x < m.X+m.W && y >= m.Y && y < m.Y+m.H
}

// Locate returns the monitor containing the point.
func Locate(list []Monitor, x, y int) (Monitor, bool) {
	for _, m := range list {
		if m.Contains(x, y) {
			return m, true
		}
	}
	return Monitor{}, false
}

// OffScreen returns the indexes of enabled fixed-position clicks that no
// monitor contains.
func OffScreen(list []Monitor, actions []model.ActionItem) []int {
	var out []int
	for i, a := range actions {
		if !a.Enabled || a.Kind != model.KindClick || a.UseCurrentPosition {
			continue
		}
		if _, ok := Locate(list, a.X, a.Y); !ok {
			out = append(out, i)
		}
	}
	return out
}
