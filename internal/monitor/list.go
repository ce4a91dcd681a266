// Package monitor enumerates displays and exposes the per-display handles used to change brightness.
package monitor

import (
	"errors"
	"fmt"
)

// PhysicalInfo describes a DDC/CI monitor and its hardware brightness when readable.
type PhysicalInfo struct {
	Description   string `json:"description" yaml:"description"`
	Brightness    *int   `json:"brightness,omitempty" yaml:"brightness,omitempty"`
	MaxBrightness *int   `json:"maxBrightness,omitempty" yaml:"maxBrightness,omitempty"`
	Error         string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Listing is a point-in-time snapshot of both display views.
type Listing struct {
	Displays []GammaTarget `json:"displays" yaml:"displays"`
	Physical []PhysicalInfo `json:"physical" yaml:"physical"`
}

// List enumerates both strategies' targets and releases every handle before returning.
// It fails only when both enumerations fail.
func List(enum Enumerator) (Listing, error) {
	var out Listing

	targets, gammaErr := enum.GammaTargets()
	if gammaErr == nil {
		out.Displays = targets
	}

	physical, vcpErr := enum.VCPTargets()
	defer func() {
		for _, p := range physical {
			_ = p.Close()
		}
	}()
	for _, p := range physical {
		info := PhysicalInfo{Description: p.Description()}
		current, maximum, err := p.VCPFeature(VCPBrightness)
		if err != nil {
			info.Error = err.Error()
		} else {
			cur, max := int(current), int(maximum)
			info.Brightness = &cur
			info.MaxBrightness = &max
		}
		out.Physical = append(out.Physical, info)
	}

	if gammaErr != nil && vcpErr != nil {
		return out, fmt.Errorf("list displays: %w", errors.Join(gammaErr, vcpErr))
	}
	return out, nil
}
