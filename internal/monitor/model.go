// Package monitor enumerates displays and exposes the per-display handles used to change brightness.
package monitor

import "errors"

// VCPBrightness is the MCCS feature code for luminance.
const VCPBrightness byte = 0x10

// ErrUnsupported indicates display control is not available on this platform.
var ErrUnsupported = errors.New("display control is only supported on Windows")

// GammaTarget describes a display addressable by its GDI device name.
type GammaTarget struct {
	Index      int    `json:"index" yaml:"index"`
	DeviceName string `json:"deviceName" yaml:"deviceName"`
	X          int    `json:"x" yaml:"x"`
	Y          int    `json:"y" yaml:"y"`
	W          int    `json:"w" yaml:"w"`
	H          int    `json:"h" yaml:"h"`
	Primary    bool   `json:"primary" yaml:"primary"`
}

// GammaRamp holds the red, green and blue lookup tables installed on a device context.
type GammaRamp [3][256]uint16

// DeviceContext is an open GDI device context for one display.
type DeviceContext interface {
	SetGammaRamp(ramp *GammaRamp) error
	Close() error
}

// PhysicalMonitor is an open DDC/CI handle for one physical monitor.
type PhysicalMonitor interface {
	Description() string
	SetVCPFeature(code byte, value uint16) error
	VCPFeature(code byte) (current, max uint32, err error)
	Close() error
}

// Enumerator lists live displays for each brightness strategy.
//
// Results are never cached: topology can change between calls.
type Enumerator interface {
	GammaTargets() ([]GammaTarget, error)
	OpenDC(deviceName string) (DeviceContext, error)
	VCPTargets() ([]PhysicalMonitor, error)
}

// FindTarget returns the gamma target matching the device name.
func FindTarget(list []GammaTarget, deviceName string) (GammaTarget, bool) {
	for _, t := range list {
		if t.DeviceName == deviceName {
			return t, true
		}
	}
	return GammaTarget{}, false
}
