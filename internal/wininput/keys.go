package wininput

import (
	"strings"
	"unicode"

	"github.com/frudas24/autoclick/internal/model"
)

// Virtual-key codes used by the runners. Kept as literals so the parser
// builds on every platform.
const (
	VKLButton uint16 = 0x01
	VKRButton uint16 = 0x02
	VKMButton uint16 = 0x04
	VKShift   uint16 = 0x10
	VKControl uint16 = 0x11
	VKMenu    uint16 = 0x12
)

var namedKeys = map[string]uint16{
	"ENTER":     0x0D,
	"TAB":       0x09,
	"SPACE":     0x20,
	"BACKSPACE": 0x08,
	"DELETE":    0x2E,
	"ESCAPE":    0x1B,
	"ESC":       0x1B,
	"UP":        0x26,
	"DOWN":      0x28,
	"LEFT":      0x25,
	"RIGHT":     0x27,
	"HOME":      0x24,
	"END":       0x23,
	"PAGEUP":    0x21,
	"PAGEDOWN":  0x22,
	"INSERT":    0x2D,
	"F1":        0x70,
	"F2":        0x71,
	"F3":        0x72,
	"F4":        0x73,
	"F5":        0x74,
	"F6":        0x75,
	"F7":        0x76,
	"F8":        0x77,
	"F9":        0x78,
	"F10":       0x79,
	"F11":       0x7A,
	"F12":       0x7B,
}

// ParseKeyCode resolves a key name to a virtual-key code. Unknown names
// resolve to 0.
func ParseKeyCode(name string) uint16 {
	runes := []rune(name)
	if len(runes) == 1 {
		r := unicode.ToUpper(runes[0])
		switch {
		case r >= '0' && r <= '9':
			return 0x30 + uint16(r-'0')
		case r >= 'A' && r <= 'Z':
			return 0x41 + uint16(r-'A')
		case r > 0xFFFF:
			return 0
		default:
			return uint16(r)
		}
	}
	return namedKeys[strings.ToUpper(strings.TrimSpace(name))]
}

// ButtonVK maps a mouse button to its virtual-key code for KeyState polling.
func ButtonVK(b model.Button) uint16 {
	switch b {
	case model.ButtonRight:
		return VKRButton
	case model.ButtonMiddle:
		return VKMButton
	default:
		return VKLButton
	}
}
