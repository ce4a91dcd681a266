package gamma_test

import (
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frudas24/candela/internal/brightness"
	"github.com/frudas24/candela/internal/gamma"
	"github.com/frudas24/candela/internal/testutil"
)

// quietLogger discards log output.
func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// TestApply_AllDisplays verifies two displays at 50% receive identical half ramps.
func TestApply_AllDisplays(t *testing.T) {
	enum := testutil.NewFakeEnumerator(`\\.\DISPLAY1`, `\\.\DISPLAY2`)
	s := gamma.New(enum, quietLogger())

	report := s.Apply(50)
	assert.Equal(t, brightness.ModeSoftware, report.Mode)
	assert.Equal(t, 50, report.Percent)
	assert.Equal(t, 2, report.Targets)
	assert.Equal(t, 2, report.Applied)
	assert.True(t, report.OK())

	want := gamma.BuildRamp(0.5)
	for _, name := range []string{`\\.\DISPLAY1`, `\\.\DISPLAY2`} {
		ramp, ok := enum.Ramp(name)
		require.True(t, ok, name)
		assert.Equal(t, want, ramp)
		assert.Equal(t, uint16(128), ramp[0][1])
		assert.Equal(t, uint16(32513), ramp[0][255])
	}
	assert.Zero(t, enum.OpenDevices())
}

// TestApply_SkipsFailingDisplay verifies one failing write does not stop the others.
func TestApply_SkipsFailingDisplay(t *testing.T) {
	enum := testutil.NewFakeEnumerator(`\\.\DISPLAY1`, `\\.\DISPLAY2`, `\\.\DISPLAY3`)
	enum.SetErr[`\\.\DISPLAY2`] = errors.New("driver refused ramp")
	s := gamma.New(enum, quietLogger())

	report := s.Apply(30)
	assert.Equal(t, 3, report.Targets)
	assert.Equal(t, 2, report.Applied)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, `\\.\DISPLAY2`, report.Failures[0].Display)
	assert.Contains(t, report.Failures[0].Error, "driver refused ramp")

	_, ok := enum.Ramp(`\\.\DISPLAY3`)
	assert.True(t, ok)
	_, ok = enum.Ramp(`\\.\DISPLAY2`)
	assert.False(t, ok)
	assert.Zero(t, enum.OpenDevices(), "device context leaked on failure path")
}

// TestApply_OpenFailure verifies displays whose context cannot be opened are skipped.
func TestApply_OpenFailure(t *testing.T) {
	enum := testutil.NewFakeEnumerator(`\\.\DISPLAY1`, `\\.\DISPLAY2`)
	enum.OpenErr[`\\.\DISPLAY1`] = errors.New("CreateDC failed")
	s := gamma.New(enum, quietLogger())

	report := s.Apply(80)
	assert.Equal(t, 1, report.Applied)
	require.Len(t, report.Failures, 1)
	_, ok := enum.Ramp(`\\.\DISPLAY2`)
	assert.True(t, ok)
}

// TestApply_NoDisplays verifies an empty topology is a no-op.
func TestApply_NoDisplays(t *testing.T) {
	enum := testutil.NewFakeEnumerator()
	report := gamma.New(enum, quietLogger()).Apply(50)
	assert.Zero(t, report.Targets)
	assert.True(t, report.OK())
	assert.Equal(t, []string{"GammaTargets"}, enum.CallNames())
}

// TestApply_EnumerationFailure verifies enumeration errors become an empty report.
func TestApply_EnumerationFailure(t *testing.T) {
	enum := testutil.NewFakeEnumerator(`\\.\DISPLAY1`)
	enum.GammaErr = errors.New("EnumDisplayMonitors failed")

	report := gamma.New(enum, quietLogger()).Apply(50)
	assert.Zero(t, report.Targets)
	assert.False(t, report.OK())
	assert.Equal(t, "EnumDisplayMonitors failed", report.EnumerationError)
	assert.Equal(t, []string{"GammaTargets"}, enum.CallNames())
}

// TestApply_Sequence verifies open, set and close run in order per display.
func TestApply_Sequence(t *testing.T) {
	enum := testutil.NewFakeEnumerator(`\\.\DISPLAY1`)
	gamma.New(enum, quietLogger()).Apply(100)
	assert.Equal(t, []string{"GammaTargets", "OpenDC", "SetGammaRamp", "CloseDC"}, enum.CallNames())
	ramp, _ := enum.Ramp(`\\.\DISPLAY1`)
	assert.Equal(t, uint16(65025), ramp[0][255])
}

// TestApplyFraction_Clamps verifies fractions are clamped before use.
func TestApplyFraction_Clamps(t *testing.T) {
	enum := testutil.NewFakeEnumerator(`\\.\DISPLAY1`)
	report := gamma.New(enum, quietLogger()).ApplyFraction(1.7)
	assert.Equal(t, 100, report.Percent)
	ramp, _ := enum.Ramp(`\\.\DISPLAY1`)
	assert.Equal(t, gamma.BuildRamp(1), ramp)
}
