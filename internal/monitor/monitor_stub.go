//go:build !windows

package monitor

// List returns ErrUnsupported on non-Windows platforms.
func List() ([]Monitor, error) {
	return nil, ErrUnsupported
}
