package models

import "strings"

// Home screen background defaults.
const (
	DefaultHomeBackgroundOpacity      = 0.3
	DefaultHomeBackgroundColor        = "#3B82F6"
	DefaultHomeBackgroundColorOpacity = 0.5

	// DefaultNotebookImageOpacity is applied to new notebooks.
	DefaultNotebookImageOpacity = 0.5
	// ClearedNotebookImageOpacity is applied when a notebook background image is removed.
	ClearedNotebookImageOpacity = 0.3
)

// HomeBackground holds the home-screen overlay settings, stored independently of any notebook.
type HomeBackground struct {
	Image        string  `json:"image,omitempty"`
	Opacity      float64 `json:"opacity"`
	Color        string  `json:"color"`
	ColorOpacity float64 `json:"colorOpacity"`
}

// DefaultHomeBackground returns the settings used before the user changes anything.
func DefaultHomeBackground() HomeBackground {
	return HomeBackground{
		Opacity:      DefaultHomeBackgroundOpacity,
		Color:        DefaultHomeBackgroundColor,
		ColorOpacity: DefaultHomeBackgroundColorOpacity,
	}
}

// HomeBackgroundUpdate carries the home background fields to change. Nil fields are left unchanged.
type HomeBackgroundUpdate struct {
	Image        *string  `json:"image,omitempty"`
	Opacity      *float64 `json:"opacity,omitempty"`
	Color        *string  `json:"color,omitempty"`
	ColorOpacity *float64 `json:"colorOpacity,omitempty"`
}

// Apply returns h with the update applied. An empty image removes it; opacities are clamped to [0,1].
func (u HomeBackgroundUpdate) Apply(h HomeBackground) HomeBackground {
	if u.Image != nil {
		h.Image = strings.TrimSpace(*u.Image)
	}
	if u.Opacity != nil {
		h.Opacity = ClampUnit(*u.Opacity)
	}
	if u.Color != nil {
		h.Color = *u.Color
	}
	if u.ColorOpacity != nil {
		h.ColorOpacity = ClampUnit(*u.ColorOpacity)
	}
	return h
}

// Settings is a snapshot of the display preferences.
type Settings struct {
	DarkMode       bool           `json:"darkMode"`
	HomeBackground HomeBackground `json:"homeBackground"`
}
