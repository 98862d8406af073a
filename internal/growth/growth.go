// Package growth decides how far a container's capacity expands on overflow.
package growth

import "math"

// DefaultScalePercent is the growth multiplier used when none is configured.
const DefaultScalePercent = 50.0

// Next returns the capacity to grow to when a container holding capacity slots
// needs room for needed elements.
//
// The scaled capacity is ceil(capacity * (1 + scalePercent/100)). The result is
// never smaller than needed, so growth always makes progress, including when
// capacity or scalePercent is zero.
func Next(capacity, needed int, scalePercent float64) int {
	if capacity < 0 {
		capacity = 0
	}
	if scalePercent < 0 || math.IsNaN(scalePercent) {
		scalePercent = 0
	}

	scaled := math.Ceil(float64(capacity) * (1 + scalePercent/100))

	grown := math.MaxInt
	if scaled < float64(math.MaxInt) {
		grown = int(scaled)
	}

	return max(grown, needed)
}

// ValidScale reports whether p is usable as a scale percentage.
func ValidScale(p float64) bool {
	return p >= 0 && !math.IsNaN(p) && !math.IsInf(p, 0)
}
