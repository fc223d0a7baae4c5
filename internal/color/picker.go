package color

import "math"

// Picker holds the custom color picker sliders. Values are whole numbers:
// hue in degrees, the rest in percent.
type Picker struct {
	Hue        float64 `json:"hue"`
	Saturation float64 `json:"saturation"`
	Lightness  float64 `json:"lightness"`
	Alpha      float64 `json:"alpha"`
}

// NewPicker returns a picker at its reset position.
func NewPicker() *Picker {
	p := &Picker{}
	p.Reset()
	return p
}

// PickerFromHex starts a picker on the hue of an existing color.
func PickerFromHex(hex string) *Picker {
	p := NewPicker()
	p.SetHue(Hue(hex))
	if _, _, _, a, err := ParseHex(hex); err == nil && a != 255 {
		p.SetAlpha(float64(a) / 255 * 100)
	}
	return p
}

// Reset moves the sliders to pure red, fully opaque.
func (p *Picker) Reset() {
	p.Hue = 0
	p.Saturation = 100
	p.Lightness = 50
	p.Alpha = 100
}

func (p *Picker) SetHue(v float64)        { p.Hue = math.Round(Clamp(v, 0, 360)) }
func (p *Picker) SetSaturation(v float64) { p.Saturation = math.Round(ClampPercent(v)) }
func (p *Picker) SetLightness(v float64)  { p.Lightness = math.Round(ClampPercent(v)) }
func (p *Picker) SetAlpha(v float64)      { p.Alpha = math.Round(ClampPercent(v)) }

// DragHue sets the hue from a drag offset on a slider track.
func (p *Picker) DragHue(x, width float64) { p.SetHue(SliderValue(x, width, 360)) }

// DragSaturation sets the saturation from a drag offset on a slider track.
func (p *Picker) DragSaturation(x, width float64) { p.SetSaturation(SliderValue(x, width, 100)) }

// DragLightness sets the lightness from a drag offset on a slider track.
func (p *Picker) DragLightness(x, width float64) { p.SetLightness(SliderValue(x, width, 100)) }

// DragAlpha sets the alpha from a drag offset on a slider track.
func (p *Picker) DragAlpha(x, width float64) { p.SetAlpha(SliderValue(x, width, 100)) }

// Drag moves the named slider (hue, saturation, lightness or alpha) from a
// drag offset. It reports false for an unknown slider.
func (p *Picker) Drag(slider string, x, width float64) bool {
	switch slider {
	case "hue":
		p.DragHue(x, width)
	case "saturation":
		p.DragSaturation(x, width)
	case "lightness":
		p.DragLightness(x, width)
	case "alpha":
		p.DragAlpha(x, width)
	default:
		return false
	}
	return true
}

// Hex returns the selected color, with an alpha suffix unless fully opaque.
func (p *Picker) Hex() string {
	return HSLAToHex(p.Hue, p.Saturation, p.Lightness, p.Alpha)
}
