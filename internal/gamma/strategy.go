// Package gamma dims displays by installing scaled gamma ramps.
package gamma

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/frudas24/candela/internal/brightness"
	"github.com/frudas24/candela/internal/monitor"
)

// Strategy applies brightness through per-display gamma ramps.
type Strategy struct {
	enum monitor.Enumerator
	log  logrus.FieldLogger
}

// Ensure Strategy implements brightness.Strategy.
var _ brightness.Strategy = (*Strategy)(nil)

// New returns a gamma strategy over enum.
func New(enum monitor.Enumerator, log logrus.FieldLogger) *Strategy {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Strategy{enum: enum, log: log.WithField("strategy", brightness.ModeSoftware)}
}

// Mode reports ModeSoftware.
func (s *Strategy) Mode() brightness.Mode {
	return brightness.ModeSoftware
}

// Apply installs the ramp for percent/100 on every display.
func (s *Strategy) Apply(percent int) brightness.Report {
	percent = brightness.ClampPercent(percent)
	report := s.ApplyFraction(brightness.Fraction(percent))
	report.Percent = percent
	return report
}

// ApplyFraction installs the ramp for fraction on every display, skipping failures.
func (s *Strategy) ApplyFraction(fraction float64) brightness.Report {
	fraction = brightness.ClampFraction(fraction)
	report := brightness.Report{
		Mode:    brightness.ModeSoftware,
		Percent: int(fraction*brightness.FullBrightness + 0.5),
	}
	targets, err := s.enum.GammaTargets()
	if err != nil {
		s.log.WithError(err).Warn("display enumeration failed")
		report.EnumerationError = err.Error()
		return report
	}
	report.Targets = len(targets)
	ramp := BuildRamp(fraction)
	for _, t := range targets {
		if err := s.install(t.DeviceName, &ramp); err != nil {
			s.log.WithError(err).WithField("display", t.DeviceName).Warn("gamma ramp not applied")
			report.Fail(t.DeviceName, err)
			continue
		}
		report.Applied++
	}
	return report
}

// install opens the display's device context, sets the ramp and always releases it.
func (s *Strategy) install(deviceName string, ramp *monitor.GammaRamp) error {
	dc, err := s.enum.OpenDC(deviceName)
	if err != nil {
		return fmt.Errorf("open device context: %w", err)
	}
	defer func() {
		if cerr := dc.Close(); cerr != nil {
			s.log.WithError(cerr).WithField("display", deviceName).Debug("device context close failed")
		}
	}()
	if err := dc.SetGammaRamp(ramp); err != nil {
		return fmt.Errorf("set gamma ramp: %w", err)
	}
	return nil
}
