// Package testutil provides recording fakes of the display platform for tests.
package testutil

import (
	"sync"

	"github.com/frudas24/candela/internal/brightness"
)

// FakeStrategy implements brightness.Strategy and records every applied level.
type FakeStrategy struct {
	mu sync.Mutex

	StrategyMode brightness.Mode
	Targets      int
	Fail         map[int]string

	Applied []int
}

// Ensure the fake implements the interface.
var _ brightness.Strategy = (*FakeStrategy)(nil)

// NewFakeStrategy returns a strategy for mode that reaches targets displays.
func NewFakeStrategy(mode brightness.Mode, targets int) *FakeStrategy {
	return &FakeStrategy{StrategyMode: mode, Targets: targets, Fail: map[int]string{}}
}

// Mode returns the configured mode.
func (s *FakeStrategy) Mode() brightness.Mode {
	return s.StrategyMode
}

// Apply records percent and reports every target as applied unless a failure is configured.
func (s *FakeStrategy) Apply(percent int) brightness.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Applied = append(s.Applied, percent)
	report := brightness.Report{Mode: s.StrategyMode, Percent: percent, Targets: s.Targets}
	for i := 0; i < s.Targets; i++ {
		if msg, ok := s.Fail[i]; ok {
			report.Failures = append(report.Failures, brightness.Failure{Display: displayName(i), Error: msg})
			continue
		}
		report.Applied++
	}
	return report
}

// Levels returns a copy of the applied levels.
func (s *FakeStrategy) Levels() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.Applied...)
}

// Last returns the most recent applied level.
func (s *FakeStrategy) Last() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Applied) == 0 {
		return 0, false
	}
	return s.Applied[len(s.Applied)-1], true
}

// FakeObserver implements brightness.Observer and records notifications.
type FakeObserver struct {
	mu sync.Mutex

	Reports []brightness.Report
	Toggles [][2]brightness.Mode
}

// ObserveApply records the report.
func (o *FakeObserver) ObserveApply(r brightness.Report) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.Reports = append(o.Reports, r)
}

// ObserveToggle records the switch.
func (o *FakeObserver) ObserveToggle(from, to brightness.Mode) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.Toggles = append(o.Toggles, [2]brightness.Mode{from, to})
}

// displayName builds the fake display name for index i.
func displayName(i int) string {
	return `\\.\DISPLAY` + string(rune('1'+i))
}
