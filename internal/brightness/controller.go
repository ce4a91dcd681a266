// Package brightness owns the active brightness mode and dispatches levels to the matching strategy.
package brightness

import (
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// State is the read-only view used by UI surfaces.
type State struct {
	Mode  Mode `json:"mode" yaml:"mode"`
	Level *int `json:"level" yaml:"level"`
}

// Controller serializes brightness operations and keeps the active mode.
type Controller struct {
	mu sync.Mutex

	mode       Mode
	level      int
	levelKnown bool

	strategies map[Mode]Strategy
	observer   Observer
	log        logrus.FieldLogger
}

// Option customizes a Controller.
type Option func(*Controller)

// WithInitialMode sets the mode active at startup.
func WithInitialMode(mode Mode) Option {
	return func(c *Controller) {
		c.mode = mode
	}
}

// WithObserver attaches an observer notified after every operation.
func WithObserver(o Observer) Option {
	return func(c *Controller) {
		c.observer = o
	}
}

// WithLogger sets the logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Controller) {
		if log != nil {
			c.log = log
		}
	}
}

// NewController builds a controller over one software and one hardware strategy.
func NewController(software, hardware Strategy, opts ...Option) (*Controller, error) {
	if software == nil {
		return nil, errors.New("software strategy is required")
	}
	if hardware == nil {
		return nil, errors.New("hardware strategy is required")
	}
	if software.Mode() != ModeSoftware {
		return nil, fmt.Errorf("software slot holds a %s strategy", software.Mode())
	}
	if hardware.Mode() != ModeHardware {
		return nil, fmt.Errorf("hardware slot holds a %s strategy", hardware.Mode())
	}
	c := &Controller{
		mode: ModeSoftware,
		strategies: map[Mode]Strategy{
			ModeSoftware: software,
			ModeHardware: hardware,
		},
		log: logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if _, ok := c.strategies[c.mode]; !ok {
		return nil, fmt.Errorf("unknown initial mode %q", c.mode)
	}
	return c, nil
}

// SetBrightness clamps percent and applies it through the active strategy only.
func (c *Controller) SetBrightness(percent int) Report {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.setLocked(ClampPercent(percent))
}

// ToggleMode restores full brightness on the outgoing strategy, then switches mode.
// The incoming strategy is not re-applied.
func (c *Controller) ToggleMode() Report {
	c.mu.Lock()
	defer c.mu.Unlock()
	from := c.mode
	report := c.applyLocked(from, FullBrightness)
	c.mode = from.Other()
	c.levelKnown = false
	if c.observer != nil {
		c.observer.ObserveToggle(from, c.mode)
	}
	c.log.WithFields(logrus.Fields{"from": from, "to": c.mode}).Info("brightness mode switched")
	return report
}

// Reset applies full brightness through the active strategy.
func (c *Controller) Reset() Report {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.setLocked(FullBrightness)
}

// ResetAll applies full brightness through both strategies, active one first.
func (c *Controller) ResetAll() []Report {
	c.mu.Lock()
	defer c.mu.Unlock()
	reports := []Report{c.setLocked(FullBrightness)}
	reports = append(reports, c.applyLocked(c.mode.Other(), FullBrightness))
	return reports
}

// Mode returns the active mode.
func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// State returns the active mode and the last level applied in it.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := State{Mode: c.mode}
	if c.levelKnown {
		level := c.level
		st.Level = &level
	}
	return st
}

// setLocked applies percent to the active strategy and records it.
func (c *Controller) setLocked(percent int) Report {
	report := c.applyLocked(c.mode, percent)
	c.level = percent
	c.levelKnown = true
	return report
}

// applyLocked dispatches to one strategy and reports the outcome.
func (c *Controller) applyLocked(mode Mode, percent int) Report {
	report := c.strategies[mode].Apply(percent)
	if c.observer != nil {
		c.observer.ObserveApply(report)
	}
	entry := c.log.WithFields(logrus.Fields{
		"mode":    mode,
		"percent": percent,
		"targets": report.Targets,
		"applied": report.Applied,
	})
	if report.OK() {
		entry.Debug("brightness applied")
	} else {
		entry.WithField("failures", len(report.Failures)).Warn("brightness applied with failures")
	}
	return report
}
