// Package schedule applies brightness levels at cron-defined times.
package schedule

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/frudas24/candela/internal/brightness"
)

// Entry applies Percent whenever Spec fires.
type Entry struct {
	Spec    string `json:"spec" yaml:"spec"`
	Percent int    `json:"percent" yaml:"percent"`
}

// Setter is the controller surface driven by the schedule.
type Setter interface {
	SetBrightness(percent int) brightness.Report
}

// Parse reads entries in the form "<cron spec>=<percent>" separated by semicolons.
func Parse(raw string) ([]Entry, error) {
	var entries []Entry
	for _, part := range strings.Split(raw, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		idx := strings.LastIndex(part, "=")
		if idx <= 0 {
			return nil, fmt.Errorf("schedule entry %q: want <cron spec>=<percent>", part)
		}
		spec := strings.TrimSpace(part[:idx])
		if _, err := cron.ParseStandard(spec); err != nil {
			return nil, fmt.Errorf("schedule entry %q: %w", part, err)
		}
		percent, err := strconv.Atoi(strings.TrimSpace(part[idx+1:]))
		if err != nil {
			return nil, fmt.Errorf("schedule entry %q: percent must be an integer: %w", part, err)
		}
		if percent < 0 || percent > brightness.FullBrightness {
			return nil, fmt.Errorf("schedule entry %q: percent must be 0-100", part)
		}
		entries = append(entries, Entry{Spec: spec, Percent: percent})
	}
	return entries, nil
}

// Scheduler runs the configured entries against a Setter.
type Scheduler struct {
	mu        sync.Mutex
	cron      *cron.Cron
	entries   []Entry
	schedules []cron.Schedule
	running   bool
	log       logrus.FieldLogger
}

// New registers entries on a cron instance in the local time zone.
func New(entries []Entry, target Setter, log logrus.FieldLogger) (*Scheduler, error) {
	if target == nil {
		return nil, fmt.Errorf("schedule target is required")
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	c := cron.New(
		cron.WithLocation(time.Local),
		cron.WithChain(cron.Recover(cron.DefaultLogger)),
	)
	s := &Scheduler{cron: c, log: log.WithField("component", "schedule")}
	for _, e := range entries {
		e := e
		sched, err := cron.ParseStandard(e.Spec)
		if err != nil {
			return nil, fmt.Errorf("schedule %q: %w", e.Spec, err)
		}
		if _, err := c.AddFunc(e.Spec, func() {
			report := target.SetBrightness(e.Percent)
			s.log.WithFields(logrus.Fields{
				"spec":    e.Spec,
				"percent": e.Percent,
				"applied": report.Applied,
			}).Info("scheduled brightness applied")
		}); err != nil {
			return nil, fmt.Errorf("schedule %q: %w", e.Spec, err)
		}
		s.entries = append(s.entries, e)
		s.schedules = append(s.schedules, sched)
	}
	return s, nil
}

// Start begins firing entries in the background.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running || len(s.entries) == 0 {
		return
	}
	s.cron.Start()
	s.running = true
	s.log.WithField("entries", len(s.entries)).Info("brightness schedule started")
}

// Stop halts the scheduler and waits for a running job to finish or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.log.Warn("timeout waiting for scheduled brightness job")
	}
	s.running = false
}

// Next returns the next fire time of every entry after now, in registration order.
func (s *Scheduler) Next(now time.Time) []time.Time {
	out := make([]time.Time, 0, len(s.schedules))
	for _, sched := range s.schedules {
		out = append(out, sched.Next(now))
	}
	return out
}

// Entries returns the registered entries.
func (s *Scheduler) Entries() []Entry {
	return append([]Entry(nil), s.entries...)
}
