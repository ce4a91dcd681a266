//go:build !windows

// Package autostart registers candela to start when the user logs in.
package autostart

// Enable reports ErrUnsupported.
func Enable(string, ...string) error {
	return ErrUnsupported
}

// Disable reports ErrUnsupported.
func Disable() error {
	return ErrUnsupported
}

// Current reports ErrUnsupported.
func Current() (Status, error) {
	return Status{}, ErrUnsupported
}
