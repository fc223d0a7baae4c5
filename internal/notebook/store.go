// Package notebook provides the write-through notebook store.
//
// The Store is the single source of truth for the notebook collection and the
// display settings. Every mutation serializes the full collection (or the
// affected setting) to the key-value adapter before the in-memory state is
// replaced, so a failed write leaves the store unchanged and is reported to the
// caller.
package notebook

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	apperrors "github.com/rossinph-cmyk/rork-my-notebooks-custom-themes-3/internal/errors"
	"github.com/rossinph-cmyk/rork-my-notebooks-custom-themes-3/internal/events"
	"github.com/rossinph-cmyk/rork-my-notebooks-custom-themes-3/internal/kv"
	"github.com/rossinph-cmyk/rork-my-notebooks-custom-themes-3/internal/logging"
	"github.com/rossinph-cmyk/rork-my-notebooks-custom-themes-3/internal/models"
	"github.com/rossinph-cmyk/rork-my-notebooks-custom-themes-3/internal/uuid"
)

// Store holds the notebook collection and display settings.
type Store struct {
	kv    kv.Store
	keys  kv.Keys
	log   *logging.Logger
	now   func() time.Time
	newID func() string
	pub   events.Publisher

	// writeMu serializes mutations across compute, write and commit.
	writeMu sync.Mutex

	mu        sync.RWMutex
	notebooks []models.Notebook
	darkMode  bool
	home      models.HomeBackground
	revision  uint64
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger. The global logger is used by default.
func WithLogger(l *logging.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithKeys overrides the storage keys.
func WithKeys(keys kv.Keys) Option {
	return func(s *Store) { s.keys = keys }
}

// WithPublisher sends a change notification after every committed mutation.
func WithPublisher(p events.Publisher) Option {
	return func(s *Store) { s.pub = p }
}

// WithIDGenerator overrides identifier allocation.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// New creates a Store without loading persisted state.
func New(store kv.Store, opts ...Option) *Store {
	s := &Store{
		kv:        store,
		keys:      kv.DefaultKeys(),
		now:       time.Now,
		newID:     uuid.New,
		notebooks: []models.Notebook{},
		home:      models.DefaultHomeBackground(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logging.Get()
	}
	return s
}

// Open creates a Store and loads its persisted state.
func Open(ctx context.Context, store kv.Store, opts ...Option) (*Store, error) {
	s := New(store, opts...)
	if err := s.Load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Load reads the notebook collection and settings from storage.
// An absent collection seeds the default notebooks. A collection that fails to
// parse is removed from storage and replaced by the defaults. Read failures
// are logged and treated as absent data.
func (s *Store) Load(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := ctx.Err(); err != nil {
		return apperrors.Wrap(apperrors.ErrCancelled, "load cancelled", err)
	}

	notebooks := s.loadNotebooks(ctx)
	darkMode := s.getString(ctx, s.keys.DarkMode) == "true"
	home := s.loadHomeBackground(ctx)

	s.mu.Lock()
	s.notebooks = notebooks
	s.darkMode = darkMode
	s.home = home
	s.revision++
	rev := s.revision
	s.mu.Unlock()

	s.log.Info("Notebook store loaded", map[string]interface{}{
		"notebooks": len(notebooks),
		"revision":  rev,
	})
	s.publish(ctx, events.Change{Topic: events.TopicNotebooks, Op: events.OpLoad, Revision: rev})
	return nil
}

func (s *Store) loadNotebooks(ctx context.Context) []models.Notebook {
	raw, ok, err := s.kv.Get(ctx, s.keys.Notebooks)
	if err != nil {
		s.log.Warn("Failed to read notebooks, using defaults", map[string]interface{}{
			"key":   s.keys.Notebooks,
			"error": err.Error(),
		})
		ok = false
	}

	if ok && raw != "" {
		var notebooks []models.Notebook
		err := json.Unmarshal([]byte(raw), &notebooks)
		if err == nil && notebooks != nil {
			for i := range notebooks {
				notebooks[i].Normalize()
			}
			return notebooks
		}
		s.log.Error("Discarding corrupt notebook collection",
			apperrors.Wrap(apperrors.ErrCorruptState, "notebook collection failed to parse", err),
			map[string]interface{}{"key": s.keys.Notebooks, "bytes": len(raw)})
		if err := s.kv.Remove(ctx, s.keys.Notebooks); err != nil {
			s.log.Error("Failed to remove corrupt notebook collection", err)
		}
	}

	notebooks := s.defaultNotebooks()
	if err := s.writeNotebooks(ctx, notebooks); err != nil {
		s.log.Error("Failed to persist default notebooks", err)
	}
	return notebooks
}

func (s *Store) loadHomeBackground(ctx context.Context) models.HomeBackground {
	home := models.DefaultHomeBackground()
	home.Image = s.getString(ctx, s.keys.HomeBackgroundImage)
	if v, ok := s.getFloat(ctx, s.keys.HomeBackgroundOpacity); ok {
		home.Opacity = models.ClampUnit(v)
	}
	if v := s.getString(ctx, s.keys.HomeBackgroundColor); v != "" {
		home.Color = v
	}
	if v, ok := s.getFloat(ctx, s.keys.HomeBackgroundColorOpacity); ok {
		home.ColorOpacity = models.ClampUnit(v)
	}
	return home
}

// getString reads a setting, treating read errors as absent.
func (s *Store) getString(ctx context.Context, key string) string {
	v, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		s.log.Warn("Failed to read setting", map[string]interface{}{"key": key, "error": err.Error()})
		return ""
	}
	if !ok {
		return ""
	}
	return v
}

func (s *Store) getFloat(ctx context.Context, key string) (float64, bool) {
	raw := s.getString(ctx, key)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		s.log.Warn("Ignoring unparsable setting", map[string]interface{}{"key": key, "value": raw})
		return 0, false
	}
	return v, true
}

func (s *Store) writeNotebooks(ctx context.Context, notebooks []models.Notebook) error {
	data, err := json.Marshal(notebooks)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternal, "failed to encode notebooks", err)
	}
	if err := s.kv.Set(ctx, s.keys.Notebooks, string(data)); err != nil {
		return apperrors.Wrap(apperrors.ErrStorageWrite, "failed to save notebooks", err)
	}
	return nil
}

// Notebooks returns a copy of the collection, newest first.
func (s *Store) Notebooks() []models.Notebook {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.CloneNotebooks(s.notebooks)
}

// Notebook returns a copy of the notebook with the given id.
func (s *Store) Notebook(id string) (models.Notebook, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := findNotebook(s.notebooks, id)
	if i < 0 {
		return models.Notebook{}, notebookNotFound(id)
	}
	return s.notebooks[i].Clone(), nil
}

// Note returns a copy of a note in the given notebook.
func (s *Store) Note(notebookID, noteID string) (models.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := findNotebook(s.notebooks, notebookID)
	if i < 0 {
		return models.Note{}, notebookNotFound(notebookID)
	}
	j := s.notebooks[i].FindNote(noteID)
	if j < 0 {
		return models.Note{}, noteNotFound(noteID)
	}
	return s.notebooks[i].Notes[j].Clone(), nil
}

// DarkMode reports the dark mode preference.
func (s *Store) DarkMode() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.darkMode
}

// HomeBackground returns the home screen background settings.
func (s *Store) HomeBackground() models.HomeBackground {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.home
}

// Settings returns a snapshot of the display preferences.
func (s *Store) Settings() models.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.Settings{DarkMode: s.darkMode, HomeBackground: s.home}
}

// Revision returns the number of committed loads and mutations.
func (s *Store) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

func (s *Store) publish(ctx context.Context, c events.Change) {
	if s.pub == nil {
		return
	}
	if c.At == 0 {
		c.At = s.now().UnixMilli()
	}
	if err := s.pub.Publish(ctx, c); err != nil {
		s.log.Warn("Failed to publish change", map[string]interface{}{
			"topic":    c.Topic,
			"op":       string(c.Op),
			"revision": c.Revision,
			"error":    err.Error(),
		})
	}
}

func findNotebook(notebooks []models.Notebook, id string) int {
	for i := range notebooks {
		if notebooks[i].ID == id {
			return i
		}
	}
	return -1
}

func notebookNotFound(id string) error {
	return apperrors.Newf(apperrors.ErrNotebookNotFound, "notebook %s not found", id)
}

func noteNotFound(id string) error {
	return apperrors.Newf(apperrors.ErrNoteNotFound, "note %s not found", id)
}
