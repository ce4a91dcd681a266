//go:build !windows

// Package monitor enumerates displays and exposes the per-display handles used to change brightness.
package monitor

import "github.com/sirupsen/logrus"

// Unsupported is a placeholder enumerator for non-Windows builds.
type Unsupported struct{}

// New returns a non-functional enumerator on non-Windows platforms.
func New(logger logrus.FieldLogger) (Enumerator, error) {
	_ = logger
	return &Unsupported{}, ErrUnsupported
}

// GammaTargets returns ErrUnsupported.
func (u *Unsupported) GammaTargets() ([]GammaTarget, error) {
	return nil, ErrUnsupported
}

// OpenDC returns ErrUnsupported.
func (u *Unsupported) OpenDC(deviceName string) (DeviceContext, error) {
	_ = deviceName
	return nil, ErrUnsupported
}

// VCPTargets returns ErrUnsupported.
func (u *Unsupported) VCPTargets() ([]PhysicalMonitor, error) {
	return nil, ErrUnsupported
}
