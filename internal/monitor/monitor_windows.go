//go:build windows

// Package monitor enumerates displays and exposes the per-display handles used to change brightness.
package monitor

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/lxn/win"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/windows"
)

var (
	user32 = windows.NewLazySystemDLL("user32.dll")
	gdi32  = windows.NewLazySystemDLL("gdi32.dll")
	dxva2  = windows.NewLazySystemDLL("dxva2.dll")

	procEnumDisplayMonitors                     = user32.NewProc("EnumDisplayMonitors")
	procSetDeviceGammaRamp                      = gdi32.NewProc("SetDeviceGammaRamp")
	procGetNumberOfPhysicalMonitorsFromHMONITOR = dxva2.NewProc("GetNumberOfPhysicalMonitorsFromHMONITOR")
	procGetPhysicalMonitorsFromHMONITOR         = dxva2.NewProc("GetPhysicalMonitorsFromHMONITOR")
	procDestroyPhysicalMonitor                  = dxva2.NewProc("DestroyPhysicalMonitor")
	procSetVCPFeature                           = dxva2.NewProc("SetVCPFeature")
	procGetVCPFeatureAndVCPFeatureReply         = dxva2.NewProc("GetVCPFeatureAndVCPFeatureReply")
)

// Windows caps the number of callbacks a process may create, so the
// enumeration callback is created once and fed through package state.
var (
	enumMu       sync.Mutex
	enumFound    []win.HMONITOR
	enumCallback = windows.NewCallback(func(hMonitor, hdc, rect, data uintptr) uintptr {
		enumFound = append(enumFound, win.HMONITOR(hMonitor))
		return 1
	})
)

// monitorInfoEx mirrors MONITORINFOEXW.
type monitorInfoEx struct {
	win.MONITORINFO
	SzDevice [win.CCHDEVICENAME]uint16
}

// physicalMonitorDesc mirrors PHYSICAL_MONITOR.
type physicalMonitorDesc struct {
	Handle      windows.Handle
	Description [128]uint16
}

// System talks to user32, gdi32 and dxva2.
type System struct {
	log logrus.FieldLogger
}

// New returns the Windows display enumerator.
func New(logger logrus.FieldLogger) (Enumerator, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &System{log: logger}, nil
}

// GammaTargets returns one target per active display, resolved to its device name.
func (s *System) GammaTargets() ([]GammaTarget, error) {
	handles, err := displayMonitors()
	if err != nil {
		return nil, err
	}

	targets := make([]GammaTarget, 0, len(handles))
	for i, h := range handles {
		var info monitorInfoEx
		info.CbSize = uint32(unsafe.Sizeof(info))
		if !win.GetMonitorInfo(h, &info.MONITORINFO) {
			s.log.WithField("monitor", i+1).Warn("GetMonitorInfo failed, skipping display")
			continue
		}
		name := windows.UTF16ToString(info.SzDevice[:])
		if name == "" {
			s.log.WithField("monitor", i+1).Warn("display has no device name, skipping")
			continue
		}
		r := info.RcMonitor
		targets = append(targets, GammaTarget{
			Index:      len(targets) + 1,
			DeviceName: name,
			X:          int(r.Left),
			Y:          int(r.Top),
			W:          int(r.Right - r.Left),
			H:          int(r.Bottom - r.Top),
			Primary:    info.DwFlags&win.MONITORINFOF_PRIMARY != 0,
		})
	}
	return targets, nil
}

// OpenDC creates a device context for the named display.
func (s *System) OpenDC(deviceName string) (DeviceContext, error) {
	name, err := windows.UTF16PtrFromString(deviceName)
	if err != nil {
		return nil, fmt.Errorf("device name %q: %w", deviceName, err)
	}
	hdc := win.CreateDC(name, nil, nil, nil)
	if hdc == 0 {
		return nil, fmt.Errorf("CreateDC %s failed", deviceName)
	}
	return &deviceContext{name: deviceName, hdc: hdc}, nil
}

// VCPTargets returns every physical monitor behind the active displays.
func (s *System) VCPTargets() ([]PhysicalMonitor, error) {
	handles, err := displayMonitors()
	if err != nil {
		return nil, err
	}

	var out []PhysicalMonitor
	for i, h := range handles {
		list, err := physicalMonitors(h)
		if err != nil {
			s.log.WithError(err).WithField("monitor", i+1).Warn("physical monitor lookup failed, skipping display")
			continue
		}
		out = append(out, list...)
	}
	return out, nil
}

// displayMonitors collects HMONITOR handles for the current topology.
func displayMonitors() ([]win.HMONITOR, error) {
	enumMu.Lock()
	defer enumMu.Unlock()

	enumFound = nil
	ret, _, callErr := procEnumDisplayMonitors.Call(0, 0, enumCallback, 0)
	found := enumFound
	enumFound = nil
	if ret == 0 {
		return nil, fmt.Errorf("EnumDisplayMonitors failed: %w", callErr)
	}
	return found, nil
}

// physicalMonitors opens the DDC/CI handles attached to one HMONITOR.
func physicalMonitors(h win.HMONITOR) ([]PhysicalMonitor, error) {
	var count uint32
	ret, _, err := procGetNumberOfPhysicalMonitorsFromHMONITOR.Call(uintptr(h), uintptr(unsafe.Pointer(&count)))
	if ret == 0 {
		return nil, fmt.Errorf("GetNumberOfPhysicalMonitorsFromHMONITOR: %w", err)
	}
	if count == 0 {
		return nil, nil
	}

	descs := make([]physicalMonitorDesc, count)
	ret, _, err = procGetPhysicalMonitorsFromHMONITOR.Call(uintptr(h), uintptr(count), uintptr(unsafe.Pointer(&descs[0])))
	if ret == 0 {
		return nil, fmt.Errorf("GetPhysicalMonitorsFromHMONITOR: %w", err)
	}

	out := make([]PhysicalMonitor, 0, count)
	for _, d := range descs {
		out = append(out, &physicalMonitor{
			handle:      d.Handle,
			description: windows.UTF16ToString(d.Description[:]),
		})
	}
	return out, nil
}

type deviceContext struct {
	name string
	hdc  win.HDC
}

// SetGammaRamp installs the ramp on the device context.
func (d *deviceContext) SetGammaRamp(ramp *GammaRamp) error {
	ret, _, err := procSetDeviceGammaRamp.Call(uintptr(d.hdc), uintptr(unsafe.Pointer(ramp)))
	if ret == 0 {
		return fmt.Errorf("SetDeviceGammaRamp %s: %w", d.name, err)
	}
	return nil
}

// Close deletes the device context.
func (d *deviceContext) Close() error {
	if d.hdc == 0 {
		return nil
	}
	ok := win.DeleteDC(d.hdc)
	d.hdc = 0
	if !ok {
		return fmt.Errorf("DeleteDC %s failed", d.name)
	}
	return nil
}

type physicalMonitor struct {
	handle      windows.Handle
	description string
}

// Description returns the monitor description reported by the driver.
func (p *physicalMonitor) Description() string {
	return p.description
}

// SetVCPFeature writes a VCP feature value over DDC/CI.
func (p *physicalMonitor) SetVCPFeature(code byte, value uint16) error {
	ret, _, err := procSetVCPFeature.Call(uintptr(p.handle), uintptr(code), uintptr(value))
	if ret == 0 {
		return fmt.Errorf("SetVCPFeature 0x%02X on %q: %w", code, p.description, err)
	}
	return nil
}

// VCPFeature reads the current and maximum value of a VCP feature.
func (p *physicalMonitor) VCPFeature(code byte) (uint32, uint32, error) {
	var codeType, current, maximum uint32
	ret, _, err := procGetVCPFeatureAndVCPFeatureReply.Call(
		uintptr(p.handle),
		uintptr(code),
		uintptr(unsafe.Pointer(&codeType)),
		uintptr(unsafe.Pointer(&current)),
		uintptr(unsafe.Pointer(&maximum)),
	)
	if ret == 0 {
		return 0, 0, fmt.Errorf("GetVCPFeatureAndVCPFeatureReply 0x%02X on %q: %w", code, p.description, err)
	}
	return current, maximum, nil
}

// Close releases the physical monitor handle.
func (p *physicalMonitor) Close() error {
	if p.handle == 0 {
		return nil
	}
	ret, _, err := procDestroyPhysicalMonitor.Call(uintptr(p.handle))
	p.handle = 0
	if ret == 0 {
		return fmt.Errorf("DestroyPhysicalMonitor %q: %w", p.description, err)
	}
	return nil
}
