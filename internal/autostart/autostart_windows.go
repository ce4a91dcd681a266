//go:build windows

// Package autostart registers candela to start when the user logs in.
package autostart

import (
	"errors"
	"fmt"

	"golang.org/x/sys/windows/registry"
)

// Enable writes the Run key value for exe with args.
func Enable(exe string, args ...string) error {
	key, _, err := registry.CreateKey(registry.CURRENT_USER, RunKeyPath, registry.SET_VALUE)
	if err != nil {
		return fmt.Errorf("open run key: %w", err)
	}
	defer key.Close()
	if err := key.SetStringValue(ValueName, Command(exe, args...)); err != nil {
		return fmt.Errorf("set run value: %w", err)
	}
	return nil
}

// Disable removes the Run key value. A missing value is not an error.
func Disable() error {
	key, err := registry.OpenKey(registry.CURRENT_USER, RunKeyPath, registry.SET_VALUE)
	if err != nil {
		if errors.Is(err, registry.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("open run key: %w", err)
	}
	defer key.Close()
	if err := key.DeleteValue(ValueName); err != nil && !errors.Is(err, registry.ErrNotExist) {
		return fmt.Errorf("delete run value: %w", err)
	}
	return nil
}

// Current reports whether the Run key value exists and its command line.
func Current() (Status, error) {
	key, err := registry.OpenKey(registry.CURRENT_USER, RunKeyPath, registry.QUERY_VALUE)
	if err != nil {
		if errors.Is(err, registry.ErrNotExist) {
			return Status{}, nil
		}
		return Status{}, fmt.Errorf("open run key: %w", err)
	}
	defer key.Close()
	cmd, _, err := key.GetStringValue(ValueName)
	if err != nil {
		if errors.Is(err, registry.ErrNotExist) {
			return Status{}, nil
		}
		return Status{}, fmt.Errorf("read run value: %w", err)
	}
	return Status{Enabled: true, Command: cmd}, nil
}
