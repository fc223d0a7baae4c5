package models

import "time"

// Notebook is a named, colored container for an ordered list of notes.
// Notes are kept newest first. CreatedAt is Unix epoch milliseconds.
type Notebook struct {
	ID                          string   `json:"id"`
	Name                        string   `json:"name"`
	Color                       string   `json:"color"`
	BackgroundColor             string   `json:"backgroundColor"`
	TextColor                   string   `json:"textColor"`
	CoverImage                  string   `json:"coverImage,omitempty"`
	CoverImageOpacity           *float64 `json:"coverImageOpacity,omitempty"`
	CoverImageColor             string   `json:"coverImageColor,omitempty"`
	CoverImageColorOpacity      *float64 `json:"coverImageColorOpacity,omitempty"`
	BackgroundImage             string   `json:"backgroundImage,omitempty"`
	BackgroundImageOpacity      *float64 `json:"backgroundImageOpacity,omitempty"`
	BackgroundImageColor        string   `json:"backgroundImageColor,omitempty"`
	BackgroundImageColorOpacity *float64 `json:"backgroundImageColorOpacity,omitempty"`
	Notes                       []Note   `json:"notes"`
	CreatedAt                   int64    `json:"createdAt"`
}

// CreatedAtTime returns the CreatedAt as time.Time.
func (nb *Notebook) CreatedAtTime() time.Time {
	return time.UnixMilli(nb.CreatedAt)
}

// FindNote returns the index of the note with the given ID, or -1.
func (nb *Notebook) FindNote(id string) int {
	for i := range nb.Notes {
		if nb.Notes[i].ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy of the notebook, its notes included.
func (nb Notebook) Clone() Notebook {
	out := nb
	out.CoverImageOpacity = cloneFloat(nb.CoverImageOpacity)
	out.CoverImageColorOpacity = cloneFloat(nb.CoverImageColorOpacity)
	out.BackgroundImageOpacity = cloneFloat(nb.BackgroundImageOpacity)
	out.BackgroundImageColorOpacity = cloneFloat(nb.BackgroundImageColorOpacity)
	out.Notes = make([]Note, len(nb.Notes))
	for i := range nb.Notes {
		out.Notes[i] = nb.Notes[i].Clone()
	}
	return out
}

// CloneNotebooks deep-copies a notebook collection.
func CloneNotebooks(in []Notebook) []Notebook {
	out := make([]Notebook, len(in))
	for i := range in {
		out[i] = in[i].Clone()
	}
	return out
}

// Normalize fills nil slices so the notebook always serializes notes and highlights as arrays.
func (nb *Notebook) Normalize() {
	if nb.Notes == nil {
		nb.Notes = []Note{}
	}
	for i := range nb.Notes {
		if nb.Notes[i].Highlights == nil {
			nb.Notes[i].Highlights = []HighlightRange{}
		}
	}
}

// NotebookUpdate is a partial notebook update. Nil fields are left untouched.
// A pointer to an empty image string removes the image reference.
// Opacities are clamped to [0,1].
type NotebookUpdate struct {
	Name                        *string  `json:"name,omitempty"`
	Color                       *string  `json:"color,omitempty"`
	BackgroundColor             *string  `json:"backgroundColor,omitempty"`
	TextColor                   *string  `json:"textColor,omitempty"`
	CoverImage                  *string  `json:"coverImage,omitempty"`
	CoverImageOpacity           *float64 `json:"coverImageOpacity,omitempty"`
	CoverImageColor             *string  `json:"coverImageColor,omitempty"`
	CoverImageColorOpacity      *float64 `json:"coverImageColorOpacity,omitempty"`
	BackgroundImage             *string  `json:"backgroundImage,omitempty"`
	BackgroundImageOpacity      *float64 `json:"backgroundImageOpacity,omitempty"`
	BackgroundImageColor        *string  `json:"backgroundImageColor,omitempty"`
	BackgroundImageColorOpacity *float64 `json:"backgroundImageColorOpacity,omitempty"`
}

// IsEmpty reports whether the update changes nothing.
func (u NotebookUpdate) IsEmpty() bool {
	return u == NotebookUpdate{}
}

// Apply merges the update into nb. ID, notes and CreatedAt are never changed.
func (u NotebookUpdate) Apply(nb *Notebook) {
	setString(&nb.Name, u.Name)
	setString(&nb.Color, u.Color)
	setString(&nb.BackgroundColor, u.BackgroundColor)
	setString(&nb.TextColor, u.TextColor)
	setString(&nb.CoverImage, u.CoverImage)
	setOpacity(&nb.CoverImageOpacity, u.CoverImageOpacity)
	setString(&nb.CoverImageColor, u.CoverImageColor)
	setOpacity(&nb.CoverImageColorOpacity, u.CoverImageColorOpacity)
	setString(&nb.BackgroundImage, u.BackgroundImage)
	setOpacity(&nb.BackgroundImageOpacity, u.BackgroundImageOpacity)
	setString(&nb.BackgroundImageColor, u.BackgroundImageColor)
	setOpacity(&nb.BackgroundImageColorOpacity, u.BackgroundImageColorOpacity)
}

// Editor fallbacks for a notebook background image overlay.
const (
	DefaultOverlayColor   = "#3B82F6"
	DefaultOverlayOpacity = 0.5
)

// BackgroundImageSettings returns the background image opacity and overlay
// the editor starts from. Unset or zero values fall back to the editor defaults.
func (nb *Notebook) BackgroundImageSettings() (opacity float64, overlayColor string, overlayOpacity float64) {
	opacity, overlayColor, overlayOpacity = ClearedNotebookImageOpacity, DefaultOverlayColor, DefaultOverlayOpacity
	if nb.BackgroundImageOpacity != nil && *nb.BackgroundImageOpacity != 0 {
		opacity = *nb.BackgroundImageOpacity
	}
	if nb.BackgroundImageColor != "" {
		overlayColor = nb.BackgroundImageColor
	}
	if nb.BackgroundImageColorOpacity != nil && *nb.BackgroundImageColorOpacity != 0 {
		overlayOpacity = *nb.BackgroundImageColorOpacity
	}
	return opacity, overlayColor, overlayOpacity
}

// BackgroundImageChange sets or clears a notebook background image.
// Nil fields keep what the editor would show for the notebook.
type BackgroundImageChange struct {
	URI            string   `json:"uri"`
	Opacity        *float64 `json:"opacity,omitempty"`
	OverlayColor   *string  `json:"overlayColor,omitempty"`
	OverlayOpacity *float64 `json:"overlayOpacity,omitempty"`
}

// Resolve fills the unset fields of ch from nb.
func (ch BackgroundImageChange) Resolve(nb Notebook) (opacity float64, overlayColor string, overlayOpacity float64) {
	opacity, overlayColor, overlayOpacity = nb.BackgroundImageSettings()
	if ch.Opacity != nil {
		opacity = *ch.Opacity
	}
	if ch.OverlayColor != nil {
		overlayColor = *ch.OverlayColor
	}
	if ch.OverlayOpacity != nil {
		overlayOpacity = *ch.OverlayOpacity
	}
	return opacity, overlayColor, overlayOpacity
}

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}

// String returns a pointer to s.
func String(s string) *string {
	return &s
}

// ClampUnit clamps v to [0,1].
func ClampUnit(v float64) float64 {
	switch {
	case v != v: // NaN
		return 0
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setOpacity(dst **float64, src *float64) {
	if src != nil {
		*dst = Float(ClampUnit(*src))
	}
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	return Float(*f)
}
