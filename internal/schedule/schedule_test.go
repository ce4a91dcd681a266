package schedule

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frudas24/candela/internal/brightness"
	"github.com/frudas24/candela/internal/testutil"
)

// quietLogger discards log output.
func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// newTarget builds a controller over recording strategies.
func newTarget(t *testing.T) (*brightness.Controller, *testutil.FakeStrategy) {
	t.Helper()
	sw := testutil.NewFakeStrategy(brightness.ModeSoftware, 1)
	hw := testutil.NewFakeStrategy(brightness.ModeHardware, 1)
	ctrl, err := brightness.NewController(sw, hw, brightness.WithLogger(quietLogger()))
	require.NoError(t, err)
	return ctrl, sw
}

// TestParse verifies entries, whitespace and empty segments.
func TestParse(t *testing.T) {
	entries, err := Parse(" 0 22 * * * = 30 ;; @daily=100; ")
	require.NoError(t, err)
	assert.Equal(t, []Entry{{Spec: "0 22 * * *", Percent: 30}, {Spec: "@daily", Percent: 100}}, entries)

	entries, err = Parse("")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

// TestParse_Invalid verifies malformed entries are rejected.
func TestParse_Invalid(t *testing.T) {
	for _, raw := range []string{"0 22 * * *", "=30", "0 25 * * *=30", "0 22 * * *=dim", "0 22 * * *=140"} {
		_, err := Parse(raw)
		assert.Error(t, err, raw)
	}
}

// TestScheduler_JobsApplyLevels verifies each job drives the controller with its percent.
func TestScheduler_JobsApplyLevels(t *testing.T) {
	ctrl, sw := newTarget(t)

	s, err := New([]Entry{{Spec: "0 22 * * *", Percent: 30}, {Spec: "0 7 * * *", Percent: 90}}, ctrl, quietLogger())
	require.NoError(t, err)
	require.Len(t, s.cron.Entries(), 2)

	for _, e := range s.cron.Entries() {
		e.WrappedJob.Run()
	}
	assert.ElementsMatch(t, []int{30, 90}, sw.Levels())
}

// TestScheduler_Next verifies next fire times follow the cron specs.
func TestScheduler_Next(t *testing.T) {
	target, _ := newTarget(t)
	s, err := New([]Entry{{Spec: "0 22 * * *", Percent: 30}}, target, quietLogger())
	require.NoError(t, err)

	now := time.Date(2026, 3, 1, 21, 15, 0, 0, time.Local)
	next := s.Next(now)
	require.Len(t, next, 1)
	want := time.Date(2026, 3, 1, 22, 0, 0, 0, time.Local)
	assert.True(t, want.Equal(next[0]), "next fire at %v, want %v", next[0], want)
}

// TestScheduler_StartStop verifies lifecycle calls are idempotent.
func TestScheduler_StartStop(t *testing.T) {
	target, _ := newTarget(t)
	s, err := New([]Entry{{Spec: "@hourly", Percent: 50}}, target, quietLogger())
	require.NoError(t, err)
	s.Start()
	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
	s.Stop(ctx)
	assert.False(t, s.running)
}

// TestNew_RequiresTarget verifies a nil target is rejected.
func TestNew_RequiresTarget(t *testing.T) {
	_, err := New(nil, nil, quietLogger())
	assert.Error(t, err)
}
