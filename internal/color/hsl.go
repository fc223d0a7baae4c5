// Package color implements the color picker math: HSL to hex conversion,
// hue extraction from hex colors, slider mapping and the app palettes.
package color

import (
	"fmt"
	"math"
)

// HSLToHex converts hue (degrees), saturation and lightness (percent) to a
// lowercase #rrggbb string. Inputs outside their ranges are clamped.
func HSLToHex(h, s, l float64) string {
	h = normalizeHue(h)
	s = ClampPercent(s)
	l = ClampPercent(l) / 100

	a := s * math.Min(l, 1-l) / 100
	f := func(n float64) uint8 {
		k := math.Mod(n+h/30, 12)
		c := l - a*math.Max(math.Min(math.Min(k-3, 9-k), 1), -1)
		return channel(c)
	}
	return fmt.Sprintf("#%02x%02x%02x", f(0), f(8), f(4))
}

// HSLAToHex is HSLToHex with an alpha percentage appended as two hex digits.
// An alpha of 100 yields the plain 6-digit form.
func HSLAToHex(h, s, l, alpha float64) string {
	hex := HSLToHex(h, s, l)
	alpha = ClampPercent(alpha)
	if alpha == 100 {
		return hex
	}
	return fmt.Sprintf("%s%02x", hex, uint8(math.Round(alpha/100*255)))
}

// HuePosition extracts the hue of hex as a fraction of the color wheel in [0,1).
// Achromatic and unparsable colors yield 0.
func HuePosition(hex string) float64 {
	r8, g8, b8, _, err := ParseHex(hex)
	if err != nil {
		return 0
	}
	r, g, b := float64(r8)/255, float64(g8)/255, float64(b8)/255

	max := math.Max(r, math.Max(g, b))
	min := math.Min(r, math.Min(g, b))
	if max == min {
		return 0
	}

	d := max - min
	var h float64
	switch max {
	case r:
		h = (g - b) / d
		if g < b {
			h += 6
		}
	case g:
		h = (b-r)/d + 2
	default:
		h = (r-g)/d + 4
	}
	return h / 6
}

// Hue returns the hue of hex in degrees.
func Hue(hex string) float64 {
	return HuePosition(hex) * 360
}

// PositionToHex maps a hue slider position in [0,1] to a fully saturated color.
func PositionToHex(pos float64) string {
	return HSLToHex(ClampUnit(pos)*360, 100, 50)
}

func normalizeHue(h float64) float64 {
	if math.IsNaN(h) || math.IsInf(h, 0) {
		return 0
	}
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	return h
}

func channel(c float64) uint8 {
	return uint8(Clamp(math.Round(255*c), 0, 255))
}
