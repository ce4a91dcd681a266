// Package vcp sets monitor brightness through the DDC/CI luminance control.
package vcp

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/frudas24/candela/internal/brightness"
	"github.com/frudas24/candela/internal/monitor"
)

// Strategy writes VCP feature 0x10 on every physical monitor.
type Strategy struct {
	enum monitor.Enumerator
	log  logrus.FieldLogger
}

// Ensure Strategy implements brightness.Strategy.
var _ brightness.Strategy = (*Strategy)(nil)

// New returns a hardware strategy over enum.
func New(enum monitor.Enumerator, log logrus.FieldLogger) *Strategy {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Strategy{enum: enum, log: log.WithField("strategy", brightness.ModeHardware)}
}

// Mode reports ModeHardware.
func (s *Strategy) Mode() brightness.Mode {
	return brightness.ModeHardware
}

// Apply writes the clamped percent to every monitor and releases every handle afterwards.
func (s *Strategy) Apply(percent int) brightness.Report {
	percent = brightness.ClampPercent(percent)
	report := brightness.Report{Mode: brightness.ModeHardware, Percent: percent}
	monitors, err := s.enum.VCPTargets()
	if err != nil {
		s.log.WithError(err).Warn("physical monitor enumeration failed")
		report.EnumerationError = err.Error()
		return report
	}
	defer s.release(monitors)
	report.Targets = len(monitors)
	value := uint16(percent)
	for i, m := range monitors {
		name := label(i, m)
		if err := m.SetVCPFeature(monitor.VCPBrightness, value); err != nil {
			err = fmt.Errorf("set VCP 0x%02X: %w", monitor.VCPBrightness, err)
			s.log.WithError(err).WithField("display", name).Warn("hardware brightness not applied")
			report.Fail(name, err)
			continue
		}
		report.Applied++
	}
	return report
}

// release closes every physical monitor handle.
func (s *Strategy) release(monitors []monitor.PhysicalMonitor) {
	for i, m := range monitors {
		if err := m.Close(); err != nil {
			s.log.WithError(err).WithField("display", label(i, m)).Debug("physical monitor close failed")
		}
	}
}

// label names a monitor for reports, falling back to its position.
func label(i int, m monitor.PhysicalMonitor) string {
	if d := m.Description(); d != "" {
		return d
	}
	return fmt.Sprintf("monitor %d", i+1)
}
