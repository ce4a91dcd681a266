// Package gamma dims displays by installing scaled gamma ramps.
package gamma

import (
	"math"

	"github.com/frudas24/candela/internal/brightness"
	"github.com/frudas24/candela/internal/monitor"
)

// BuildRamp returns a ramp whose entry i is round(i*fraction*255) on all three channels.
func BuildRamp(fraction float64) monitor.GammaRamp {
	fraction = brightness.ClampFraction(fraction)
	var ramp monitor.GammaRamp
	for i := 0; i < 256; i++ {
		v := uint16(math.Round(float64(i) * fraction * 255))
		ramp[0][i] = v
		ramp[1][i] = v
		ramp[2][i] = v
	}
	return ramp
}
