// Package models provides data model definitions for the notebooks core.
package models

import "time"

// HighlightRange marks a colored span of note text.
type HighlightRange struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Color string `json:"color"`
}

// Note is a unit of user-authored text owned by exactly one Notebook.
// Timestamps are Unix epoch milliseconds.
type Note struct {
	ID              string           `json:"id"`
	Text            string           `json:"text"`
	BackgroundColor string           `json:"backgroundColor,omitempty"`
	TextColor       string           `json:"textColor,omitempty"`
	Highlights      []HighlightRange `json:"highlights"`
	CreatedAt       int64            `json:"createdAt"`
	UpdatedAt       int64            `json:"updatedAt"`
}

// CreatedAtTime returns the CreatedAt as time.Time.
func (n *Note) CreatedAtTime() time.Time {
	return time.UnixMilli(n.CreatedAt)
}

// UpdatedAtTime returns the UpdatedAt as time.Time.
func (n *Note) UpdatedAtTime() time.Time {
	return time.UnixMilli(n.UpdatedAt)
}

// Touch refreshes UpdatedAt. It never moves backwards and never precedes CreatedAt.
func (n *Note) Touch(nowMs int64) {
	if nowMs < n.UpdatedAt {
		nowMs = n.UpdatedAt
	}
	if nowMs < n.CreatedAt {
		nowMs = n.CreatedAt
	}
	n.UpdatedAt = nowMs
}

// Clone returns a deep copy of the note.
func (n Note) Clone() Note {
	out := n
	out.Highlights = make([]HighlightRange, len(n.Highlights))
	copy(out.Highlights, n.Highlights)
	return out
}

// NoteUpdate is a partial note update. Nil fields are left untouched;
// an empty color clears the per-note override.
type NoteUpdate struct {
	Text            *string `json:"text,omitempty"`
	BackgroundColor *string `json:"backgroundColor,omitempty"`
	TextColor       *string `json:"textColor,omitempty"`
}

// IsEmpty reports whether the update changes nothing.
func (u NoteUpdate) IsEmpty() bool {
	return u.Text == nil && u.BackgroundColor == nil && u.TextColor == nil
}

// Apply merges the update into n. It does not touch timestamps.
func (u NoteUpdate) Apply(n *Note) {
	if u.Text != nil {
		n.Text = *u.Text
	}
	if u.BackgroundColor != nil {
		n.BackgroundColor = *u.BackgroundColor
	}
	if u.TextColor != nil {
		n.TextColor = *u.TextColor
	}
}
