// Package brightness owns the active brightness mode and dispatches levels to the matching strategy.
package brightness

import "math"

// FullBrightness is the level applied when a strategy is reset.
const FullBrightness = 100

// ClampPercent bounds a level to [0, 100].
func ClampPercent(percent int) int {
	if percent < 0 {
		return 0
	}
	if percent > FullBrightness {
		return FullBrightness
	}
	return percent
}

// ClampFraction bounds a fraction to [0, 1]. NaN maps to 1 so a bad value never blanks the screen.
func ClampFraction(fraction float64) float64 {
	if math.IsNaN(fraction) {
		return 1
	}
	if fraction < 0 {
		return 0
	}
	if fraction > 1 {
		return 1
	}
	return fraction
}

// Fraction converts a percent into a [0, 1] fraction.
func Fraction(percent int) float64 {
	return float64(ClampPercent(percent)) / FullBrightness
}
