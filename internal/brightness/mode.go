// Package brightness owns the active brightness mode and dispatches levels to the matching strategy.
package brightness

import (
	"fmt"
	"strings"
)

// Mode selects which strategy receives brightness changes.
type Mode string

const (
	// ModeSoftware dims through per-display gamma ramps.
	ModeSoftware Mode = "software"
	// ModeHardware writes the monitor's DDC/CI brightness control.
	ModeHardware Mode = "hardware"
)

// ParseMode converts a case-insensitive name into a Mode.
func ParseMode(value string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case string(ModeSoftware), "sw", "gamma":
		return ModeSoftware, nil
	case string(ModeHardware), "hw", "ddc":
		return ModeHardware, nil
	default:
		return "", fmt.Errorf("unknown brightness mode %q", value)
	}
}

// Other returns the mode a toggle switches to.
func (m Mode) Other() Mode {
	if m == ModeHardware {
		return ModeSoftware
	}
	return ModeHardware
}

// String returns the mode name.
func (m Mode) String() string {
	return string(m)
}
