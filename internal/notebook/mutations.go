package notebook

import (
	"context"
	"strconv"
	"strings"

	"github.com/rossinph-cmyk/rork-my-notebooks-custom-themes-3/internal/color"
	apperrors "github.com/rossinph-cmyk/rork-my-notebooks-custom-themes-3/internal/errors"
	"github.com/rossinph-cmyk/rork-my-notebooks-custom-themes-3/internal/events"
	"github.com/rossinph-cmyk/rork-my-notebooks-custom-themes-3/internal/models"
)

// Fallback colors for notebooks created without paper or ink colors.
const (
	DefaultBackgroundColor = "#FFFFFF"
	DefaultTextColor       = "#000000"
)

// mutateNotebooks runs fn on a copy of the collection, writes the result and
// commits it. fn may fill in the change's identifiers.
func (s *Store) mutateNotebooks(ctx context.Context, op events.Op, fn func(notebooks []models.Notebook, c *events.Change) ([]models.Notebook, error)) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := ctx.Err(); err != nil {
		return apperrors.Wrap(apperrors.ErrCancelled, "mutation cancelled", err)
	}

	s.mu.RLock()
	next := models.CloneNotebooks(s.notebooks)
	s.mu.RUnlock()

	change := events.Change{Topic: events.TopicNotebooks, Op: op}
	next, err := fn(next, &change)
	if err != nil {
		return err
	}
	if err := s.writeNotebooks(ctx, next); err != nil {
		s.log.Error("Notebook mutation not saved", err, map[string]interface{}{"op": string(op)})
		return err
	}

	s.mu.Lock()
	s.notebooks = next
	s.revision++
	change.Revision = s.revision
	s.mu.Unlock()

	s.publish(ctx, change)
	return nil
}

// mutateSettings runs write and then commit under the mutation lock.
func (s *Store) mutateSettings(ctx context.Context, op events.Op, write func() error, commit func()) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := ctx.Err(); err != nil {
		return apperrors.Wrap(apperrors.ErrCancelled, "mutation cancelled", err)
	}
	if err := write(); err != nil {
		err = apperrors.Wrap(apperrors.ErrStorageWrite, "failed to save settings", err)
		s.log.Error("Settings mutation not saved", err, map[string]interface{}{"op": string(op)})
		return err
	}

	s.mu.Lock()
	commit()
	s.revision++
	rev := s.revision
	s.mu.Unlock()

	s.publish(ctx, events.Change{Topic: events.TopicSettings, Op: op, Revision: rev})
	return nil
}

// CreateNotebook prepends a new, empty notebook to the collection.
// Empty paper and ink colors fall back to white and black.
func (s *Store) CreateNotebook(ctx context.Context, name, notebookColor, backgroundColor, textColor string) (models.Notebook, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Notebook{}, apperrors.New(apperrors.ErrInvalid, "notebook name must not be empty")
	}
	if backgroundColor == "" {
		backgroundColor = DefaultBackgroundColor
	}
	if textColor == "" {
		textColor = DefaultTextColor
	}
	for _, c := range []string{notebookColor, backgroundColor, textColor} {
		if !color.IsHex(c) {
			return models.Notebook{}, apperrors.Newf(apperrors.ErrInvalid, "invalid color %q", c)
		}
	}

	var created models.Notebook
	err := s.mutateNotebooks(ctx, events.OpCreateNotebook, func(notebooks []models.Notebook, c *events.Change) ([]models.Notebook, error) {
		created = models.Notebook{
			ID:                     s.newID(),
			Name:                   name,
			Color:                  notebookColor,
			BackgroundColor:        backgroundColor,
			TextColor:              textColor,
			BackgroundImageOpacity: models.Float(models.DefaultNotebookImageOpacity),
			Notes:                  []models.Note{},
			CreatedAt:              s.now().UnixMilli(),
		}
		c.NotebookID = created.ID
		return append([]models.Notebook{created}, notebooks...), nil
	})
	if err != nil {
		return models.Notebook{}, err
	}
	return created.Clone(), nil
}

// UpdateNotebook merges u into the notebook with the given id.
func (s *Store) UpdateNotebook(ctx context.Context, id string, u models.NotebookUpdate) (models.Notebook, error) {
	if u.Name != nil {
		trimmed := strings.TrimSpace(*u.Name)
		if trimmed == "" {
			return models.Notebook{}, apperrors.New(apperrors.ErrInvalid, "notebook name must not be empty")
		}
		u.Name = &trimmed
	}
	for _, c := range []*string{u.Color, u.BackgroundColor, u.TextColor, u.CoverImageColor, u.BackgroundImageColor} {
		if c != nil && *c != "" && !color.IsHex(*c) {
			return models.Notebook{}, apperrors.Newf(apperrors.ErrInvalid, "invalid color %q", *c)
		}
	}

	var updated models.Notebook
	err := s.mutateNotebooks(ctx, events.OpUpdateNotebook, func(notebooks []models.Notebook, c *events.Change) ([]models.Notebook, error) {
		i := findNotebook(notebooks, id)
		if i < 0 {
			return nil, notebookNotFound(id)
		}
		u.Apply(&notebooks[i])
		updated = notebooks[i]
		c.NotebookID = id
		return notebooks, nil
	})
	if err != nil {
		return models.Notebook{}, err
	}
	return updated.Clone(), nil
}

// SetNotebookBackgroundImage saves the background image overlay of a notebook.
// An empty uri removes the image and resets its opacity.
func (s *Store) SetNotebookBackgroundImage(ctx context.Context, id, uri string, opacity float64, overlayColor string, overlayOpacity float64) (models.Notebook, error) {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		opacity = models.ClearedNotebookImageOpacity
	}
	return s.UpdateNotebook(ctx, id, models.NotebookUpdate{
		BackgroundImage:             models.String(uri),
		BackgroundImageOpacity:      models.Float(opacity),
		BackgroundImageColor:        models.String(overlayColor),
		BackgroundImageColorOpacity: models.Float(overlayOpacity),
	})
}

// DeleteNotebook removes a notebook and all of its notes.
func (s *Store) DeleteNotebook(ctx context.Context, id string) error {
	return s.mutateNotebooks(ctx, events.OpDeleteNotebook, func(notebooks []models.Notebook, c *events.Change) ([]models.Notebook, error) {
		i := findNotebook(notebooks, id)
		if i < 0 {
			return nil, notebookNotFound(id)
		}
		c.NotebookID = id
		return append(notebooks[:i], notebooks[i+1:]...), nil
	})
}

// AddNote prepends a note to a notebook. Text is trimmed and must not be empty.
func (s *Store) AddNote(ctx context.Context, notebookID, text string) (models.Note, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Note{}, apperrors.New(apperrors.ErrInvalid, "note text must not be empty")
	}

	var added models.Note
	err := s.mutateNotebooks(ctx, events.OpAddNote, func(notebooks []models.Notebook, c *events.Change) ([]models.Notebook, error) {
		i := findNotebook(notebooks, notebookID)
		if i < 0 {
			return nil, notebookNotFound(notebookID)
		}
		now := s.now().UnixMilli()
		added = models.Note{
			ID:         s.newID(),
			Text:       text,
			Highlights: []models.HighlightRange{},
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		notebooks[i].Notes = append([]models.Note{added}, notebooks[i].Notes...)
		c.NotebookID = notebookID
		c.NoteID = added.ID
		return notebooks, nil
	})
	if err != nil {
		return models.Note{}, err
	}
	return added.Clone(), nil
}

// UpdateNote merges u into a note and refreshes its updatedAt.
func (s *Store) UpdateNote(ctx context.Context, notebookID, noteID string, u models.NoteUpdate) (models.Note, error) {
	if u.Text != nil {
		trimmed := strings.TrimSpace(*u.Text)
		if trimmed == "" {
			return models.Note{}, apperrors.New(apperrors.ErrInvalid, "note text must not be empty")
		}
		u.Text = &trimmed
	}
	for _, c := range []*string{u.BackgroundColor, u.TextColor} {
		if c != nil && *c != "" && !color.IsHex(*c) {
			return models.Note{}, apperrors.Newf(apperrors.ErrInvalid, "invalid color %q", *c)
		}
	}

	var updated models.Note
	err := s.mutateNotebooks(ctx, events.OpUpdateNote, func(notebooks []models.Notebook, c *events.Change) ([]models.Notebook, error) {
		i := findNotebook(notebooks, notebookID)
		if i < 0 {
			return nil, notebookNotFound(notebookID)
		}
		j := notebooks[i].FindNote(noteID)
		if j < 0 {
			return nil, noteNotFound(noteID)
		}
		note := &notebooks[i].Notes[j]
		u.Apply(note)
		note.Touch(s.now().UnixMilli())
		updated = *note
		c.NotebookID = notebookID
		c.NoteID = noteID
		return notebooks, nil
	})
	if err != nil {
		return models.Note{}, err
	}
	return updated.Clone(), nil
}

// DeleteNote removes a note from a notebook.
func (s *Store) DeleteNote(ctx context.Context, notebookID, noteID string) error {
	return s.mutateNotebooks(ctx, events.OpDeleteNote, func(notebooks []models.Notebook, c *events.Change) ([]models.Notebook, error) {
		i := findNotebook(notebooks, notebookID)
		if i < 0 {
			return nil, notebookNotFound(notebookID)
		}
		j := notebooks[i].FindNote(noteID)
		if j < 0 {
			return nil, noteNotFound(noteID)
		}
		notes := notebooks[i].Notes
		notebooks[i].Notes = append(notes[:j], notes[j+1:]...)
		c.NotebookID = notebookID
		c.NoteID = noteID
		return notebooks, nil
	})
}

// ToggleDarkMode flips and persists the dark mode preference, returning the new value.
func (s *Store) ToggleDarkMode(ctx context.Context) (bool, error) {
	var next bool
	err := s.mutateSettings(ctx, events.OpDarkMode,
		func() error {
			next = !s.DarkMode()
			return s.kv.Set(ctx, s.keys.DarkMode, strconv.FormatBool(next))
		},
		func() { s.darkMode = next },
	)
	if err != nil {
		return s.DarkMode(), err
	}
	return next, nil
}

// SetHomeBackground sets the home screen background image. An empty uri removes it.
func (s *Store) SetHomeBackground(ctx context.Context, uri string) error {
	uri = strings.TrimSpace(uri)
	return s.mutateSettings(ctx, events.OpHomeBackground,
		func() error {
			if uri == "" {
				return s.kv.Remove(ctx, s.keys.HomeBackgroundImage)
			}
			return s.kv.Set(ctx, s.keys.HomeBackgroundImage, uri)
		},
		func() { s.home.Image = uri },
	)
}

// SetHomeBackgroundOpacity sets the home background image opacity, clamped to [0,1].
func (s *Store) SetHomeBackgroundOpacity(ctx context.Context, opacity float64) error {
	opacity = models.ClampUnit(opacity)
	return s.mutateSettings(ctx, events.OpHomeBackground,
		func() error {
			return s.kv.Set(ctx, s.keys.HomeBackgroundOpacity, formatFloat(opacity))
		},
		func() { s.home.Opacity = opacity },
	)
}

// SetHomeBackgroundColor sets the home background overlay color.
func (s *Store) SetHomeBackgroundColor(ctx context.Context, hex string) error {
	if !color.IsHex(hex) {
		return apperrors.Newf(apperrors.ErrInvalid, "invalid color %q", hex)
	}
	return s.mutateSettings(ctx, events.OpHomeBackground,
		func() error {
			return s.kv.Set(ctx, s.keys.HomeBackgroundColor, hex)
		},
		func() { s.home.Color = hex },
	)
}

// SetHomeBackgroundColorOpacity sets the home background overlay opacity, clamped to [0,1].
func (s *Store) SetHomeBackgroundColorOpacity(ctx context.Context, opacity float64) error {
	opacity = models.ClampUnit(opacity)
	return s.mutateSettings(ctx, events.OpHomeBackground,
		func() error {
			return s.kv.Set(ctx, s.keys.HomeBackgroundColorOpacity, formatFloat(opacity))
		},
		func() { s.home.ColorOpacity = opacity },
	)
}

// UpdateHomeBackground applies every set field of u as one change. The color is
// validated before anything is written; if a write fails, keys already written are
// restored and the in-memory settings are left unchanged.
func (s *Store) UpdateHomeBackground(ctx context.Context, u models.HomeBackgroundUpdate) (models.HomeBackground, error) {
	if u.Color != nil && !color.IsHex(*u.Color) {
		return s.HomeBackground(), apperrors.Newf(apperrors.ErrInvalid, "invalid color %q", *u.Color)
	}

	var next models.HomeBackground
	err := s.mutateSettings(ctx, events.OpHomeBackground,
		func() error {
			prev := s.HomeBackground()
			next = u.Apply(prev)
			return s.writeHomeBackground(ctx, prev, next)
		},
		func() { s.home = next },
	)
	if err != nil {
		return s.HomeBackground(), err
	}
	return next, nil
}

type kvEntry struct {
	key   string
	value string
}

func (s *Store) homeBackgroundEntries(h models.HomeBackground) []kvEntry {
	return []kvEntry{
		{s.keys.HomeBackgroundImage, h.Image},
		{s.keys.HomeBackgroundOpacity, formatFloat(h.Opacity)},
		{s.keys.HomeBackgroundColor, h.Color},
		{s.keys.HomeBackgroundColorOpacity, formatFloat(h.ColorOpacity)},
	}
}

// put writes e, removing the key when the value is empty.
func (s *Store) put(ctx context.Context, e kvEntry) error {
	if e.value == "" {
		return s.kv.Remove(ctx, e.key)
	}
	return s.kv.Set(ctx, e.key, e.value)
}

func (s *Store) writeHomeBackground(ctx context.Context, prev, next models.HomeBackground) error {
	before, after := s.homeBackgroundEntries(prev), s.homeBackgroundEntries(next)
	for i := range after {
		if after[i] == before[i] {
			continue
		}
		if err := s.put(ctx, after[i]); err != nil {
			for j := i - 1; j >= 0; j-- {
				if after[j] == before[j] {
					continue
				}
				if rerr := s.put(context.WithoutCancel(ctx), before[j]); rerr != nil {
					s.log.Error("Failed to restore home background setting", rerr, map[string]interface{}{"key": before[j].key})
				}
			}
			return err
		}
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
