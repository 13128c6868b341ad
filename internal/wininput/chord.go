package wininput

import "errors"

// Modifiers returns the modifier keys to hold, in press order.
func Modifiers(ctrl, alt, shift bool) []uint16 {
	mods := make([]uint16, 0, 3)
	if ctrl {
		mods = append(mods, VKControl)
	}
	if alt {
		mods = append(mods, VKMenu)
	}
	if shift {
		mods = append(mods, VKShift)
	}
	return mods
}

// PressChord holds mods down around a tap of code and releases them in
// reverse order. Every step is attempted even after a failure.
func PressChord(d Driver, code uint16, mods ...uint16) error {
	var errs []error
	for _, m := range mods {
		if err := d.KeyDown(m); err != nil {
			errs = append(errs, err)
		}
	}
	if err := d.PressKey(code); err != nil {
		errs = append(errs, err)
	}
	for i := len(mods) - 1; i >= 0; i-- {
		if err := d.KeyUp(mods[i]); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// CharKey maps a typed character to its virtual key and whether Shift must be
// held. Letters, digits, space, tab and newline are supported.
func CharKey(r rune) (code uint16, shift, ok bool) {
	switch {
	case r >= 'a' && r <= 'z':
		return 0x41 + uint16(r-'a'), false, true
	case r >= 'A' && r <= 'Z':
		return 0x41 + uint16(r-'A'), true, true
	case r >= '0' && r <= '9':
		return 0x30 + uint16(r-'0'), false, true
	case r == ' ':
		return namedKeys["SPACE"], false, true
	case r == '\t':
		return namedKeys["TAB"], false, true
	case r == '\n':
		return namedKeys["ENTER"], false, true
	default:
		return 0, false, false
	}
}
