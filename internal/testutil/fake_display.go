// Package testutil provides recording fakes of the display platform for tests.
package testutil

import (
	"sync"

	"github.com/frudas24/candela/internal/monitor"
)

// Call records a single platform operation.
type Call struct {
	Name   string
	Target string
	Value  int
}

// VCPWrite records a single VCP feature write.
type VCPWrite struct {
	Code  byte
	Value uint16
}

// FakeEnumerator implements monitor.Enumerator and records calls for tests.
type FakeEnumerator struct {
	mu sync.Mutex

	Targets  []monitor.GammaTarget
	GammaErr error
	OpenErr  map[string]error
	SetErr   map[string]error

	Monitors []*FakePhysicalMonitor
	VCPErr   error

	Calls      []Call
	Ramps      map[string]monitor.GammaRamp
	OpenCount  int
	CloseCount int
}

// FakePhysicalMonitor implements monitor.PhysicalMonitor.
type FakePhysicalMonitor struct {
	mu sync.Mutex

	Name    string
	SetErr  error
	ReadErr error
	Current uint32
	Max     uint32

	Writes []VCPWrite
	Closed int
}

// Ensure the fakes implement the interfaces.
var (
	_ monitor.Enumerator      = (*FakeEnumerator)(nil)
	_ monitor.PhysicalMonitor = (*FakePhysicalMonitor)(nil)
)

// NewFakeEnumerator returns a fake with one gamma target per device name.
func NewFakeEnumerator(deviceNames ...string) *FakeEnumerator {
	f := &FakeEnumerator{
		OpenErr: map[string]error{},
		SetErr:  map[string]error{},
		Ramps:   map[string]monitor.GammaRamp{},
	}
	for i, name := range deviceNames {
		f.Targets = append(f.Targets, monitor.GammaTarget{Index: i + 1, DeviceName: name, Primary: i == 0})
	}
	return f
}

// AddPhysical appends a DDC/CI monitor and returns it.
func (f *FakeEnumerator) AddPhysical(name string) *FakePhysicalMonitor {
	f.mu.Lock()
	defer f.mu.Unlock()
	m := &FakePhysicalMonitor{Name: name, Max: 100}
	f.Monitors = append(f.Monitors, m)
	return m
}

// GammaTargets records the call and returns the configured targets.
func (f *FakeEnumerator) GammaTargets() ([]monitor.GammaTarget, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, Call{Name: "GammaTargets"})
	if f.GammaErr != nil {
		return nil, f.GammaErr
	}
	return append([]monitor.GammaTarget(nil), f.Targets...), nil
}

// OpenDC records the call and returns a recording device context.
func (f *FakeEnumerator) OpenDC(deviceName string) (monitor.DeviceContext, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, Call{Name: "OpenDC", Target: deviceName})
	if err := f.OpenErr[deviceName]; err != nil {
		return nil, err
	}
	f.OpenCount++
	return &fakeDC{owner: f, name: deviceName}, nil
}

// VCPTargets records the call and returns the configured monitors.
func (f *FakeEnumerator) VCPTargets() ([]monitor.PhysicalMonitor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, Call{Name: "VCPTargets"})
	if f.VCPErr != nil {
		return nil, f.VCPErr
	}
	out := make([]monitor.PhysicalMonitor, 0, len(f.Monitors))
	for _, m := range f.Monitors {
		out = append(out, m)
	}
	return out, nil
}

// Ramp returns the last ramp installed on a device.
func (f *FakeEnumerator) Ramp(deviceName string) (monitor.GammaRamp, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.Ramps[deviceName]
	return r, ok
}

// CallNames returns the recorded call names in order.
func (f *FakeEnumerator) CallNames() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	names := make([]string, 0, len(f.Calls))
	for _, c := range f.Calls {
		names = append(names, c.Name)
	}
	return names
}

// OpenDevices reports how many device contexts are still open.
func (f *FakeEnumerator) OpenDevices() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.OpenCount - f.CloseCount
}

type fakeDC struct {
	owner  *FakeEnumerator
	name   string
	closed bool
}

// SetGammaRamp records the ramp unless a failure is configured for the device.
func (d *fakeDC) SetGammaRamp(ramp *monitor.GammaRamp) error {
	d.owner.mu.Lock()
	defer d.owner.mu.Unlock()
	d.owner.Calls = append(d.owner.Calls, Call{Name: "SetGammaRamp", Target: d.name, Value: int(ramp[0][255])})
	if err := d.owner.SetErr[d.name]; err != nil {
		return err
	}
	d.owner.Ramps[d.name] = *ramp
	return nil
}

// Close records the release once.
func (d *fakeDC) Close() error {
	d.owner.mu.Lock()
	defer d.owner.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	d.owner.CloseCount++
	d.owner.Calls = append(d.owner.Calls, Call{Name: "CloseDC", Target: d.name})
	return nil
}

// Description returns the fake monitor name.
func (m *FakePhysicalMonitor) Description() string {
	return m.Name
}

// SetVCPFeature records the write unless a failure is configured.
func (m *FakePhysicalMonitor) SetVCPFeature(code byte, value uint16) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SetErr != nil {
		return m.SetErr
	}
	m.Writes = append(m.Writes, VCPWrite{Code: code, Value: value})
	if code == monitor.VCPBrightness {
		m.Current = uint32(value)
	}
	return nil
}

// VCPFeature returns the fake current and maximum values.
func (m *FakePhysicalMonitor) VCPFeature(code byte) (uint32, uint32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_ = code
	if m.ReadErr != nil {
		return 0, 0, m.ReadErr
	}
	return m.Current, m.Max, nil
}

// Close counts releases.
func (m *FakePhysicalMonitor) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed++
	return nil
}

// LastWrite returns the most recent VCP write.
func (m *FakePhysicalMonitor) LastWrite() (VCPWrite, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Writes) == 0 {
		return VCPWrite{}, false
	}
	return m.Writes[len(m.Writes)-1], true
}

// CloseCount returns how many times the handle was released.
func (m *FakePhysicalMonitor) CloseCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Closed
}
