package vcp_test

import (
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frudas24/candela/internal/brightness"
	"github.com/frudas24/candela/internal/monitor"
	"github.com/frudas24/candela/internal/testutil"
	"github.com/frudas24/candela/internal/vcp"
)

// quietLogger discards log output.
func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// TestApply_WritesLuminance verifies feature 0x10 receives the percent on one monitor.
func TestApply_WritesLuminance(t *testing.T) {
	enum := testutil.NewFakeEnumerator()
	m := enum.AddPhysical("Dell U2720Q")

	report := vcp.New(enum, quietLogger()).Apply(70)
	assert.Equal(t, brightness.ModeHardware, report.Mode)
	assert.Equal(t, 1, report.Targets)
	assert.Equal(t, 1, report.Applied)

	w, ok := m.LastWrite()
	require.True(t, ok)
	assert.Equal(t, testutil.VCPWrite{Code: monitor.VCPBrightness, Value: 70}, w)
	assert.Equal(t, 1, m.CloseCount())
}

// TestApply_SkipsFailingMonitor verifies a rejected write does not stop the others.
func TestApply_SkipsFailingMonitor(t *testing.T) {
	enum := testutil.NewFakeEnumerator()
	a := enum.AddPhysical("A")
	b := enum.AddPhysical("B")
	b.SetErr = errors.New("DDC/CI disabled")
	c := enum.AddPhysical("")

	report := vcp.New(enum, quietLogger()).Apply(40)
	assert.Equal(t, 3, report.Targets)
	assert.Equal(t, 2, report.Applied)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, "B", report.Failures[0].Display)
	assert.Contains(t, report.Failures[0].Error, "DDC/CI disabled")

	_, ok := c.LastWrite()
	assert.True(t, ok)
	for _, m := range []*testutil.FakePhysicalMonitor{a, b, c} {
		assert.Equal(t, 1, m.CloseCount(), m.Name)
	}
}

// TestApply_Clamps verifies out of range levels are clamped before writing.
func TestApply_Clamps(t *testing.T) {
	enum := testutil.NewFakeEnumerator()
	m := enum.AddPhysical("A")
	s := vcp.New(enum, quietLogger())

	s.Apply(300)
	w, _ := m.LastWrite()
	assert.Equal(t, uint16(100), w.Value)

	s.Apply(-3)
	w, _ = m.LastWrite()
	assert.Equal(t, uint16(0), w.Value)
}

// TestApply_EnumerationFailure verifies enumeration errors are a no-op.
func TestApply_EnumerationFailure(t *testing.T) {
	enum := testutil.NewFakeEnumerator()
	m := enum.AddPhysical("A")
	enum.VCPErr = monitor.ErrUnsupported

	report := vcp.New(enum, quietLogger()).Apply(50)
	assert.Zero(t, report.Targets)
	assert.Equal(t, monitor.ErrUnsupported.Error(), report.EnumerationError)
	_, ok := m.LastWrite()
	assert.False(t, ok)
}

// TestApply_NoMonitors verifies an empty topology is a no-op.
func TestApply_NoMonitors(t *testing.T) {
	report := vcp.New(testutil.NewFakeEnumerator(), quietLogger()).Apply(50)
	assert.Zero(t, report.Targets)
	assert.True(t, report.OK())
}
