// Package autostart registers candela to start when the user logs in.
package autostart

import (
	"errors"
	"strings"
)

// ValueName is the Run key value owned by candela.
const ValueName = "Candela"

// RunKeyPath is the per-user Run key below HKEY_CURRENT_USER.
const RunKeyPath = `Software\Microsoft\Windows\CurrentVersion\Run`

// ErrUnsupported is returned on platforms without a Run key.
var ErrUnsupported = errors.New("autostart is only supported on Windows")

// Status describes the current registration.
type Status struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Command string `json:"command,omitempty" yaml:"command,omitempty"`
}

// Command returns the command line stored in the Run key for exe.
func Command(exe string, args ...string) string {
	parts := []string{quote(exe)}
	for _, a := range args {
		parts = append(parts, quote(a))
	}
	return strings.Join(parts, " ")
}

// quote wraps s in double quotes when it contains spaces.
func quote(s string) string {
	if s == "" || strings.ContainsAny(s, " \t") {
		return `"` + s + `"`
	}
	return s
}
