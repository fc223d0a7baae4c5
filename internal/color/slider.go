package color

import "math"

// Clamp limits v to [lo, hi]. NaN becomes lo.
func Clamp(v, lo, hi float64) float64 {
	switch {
	case math.IsNaN(v):
		return lo
	case v < lo:
		return lo
	case v > hi:
		return hi
	}
	return v
}

// ClampUnit limits v to [0,1].
func ClampUnit(v float64) float64 {
	return Clamp(v, 0, 1)
}

// ClampPercent limits v to [0,100].
func ClampPercent(v float64) float64 {
	return Clamp(v, 0, 100)
}

// SliderValue maps a drag offset x on a track of the given width to [0,max].
func SliderValue(x, width, max float64) float64 {
	if width <= 0 || max <= 0 {
		return 0
	}
	return Clamp(x/width*max, 0, max)
}
