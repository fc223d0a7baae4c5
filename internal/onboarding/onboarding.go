// Package onboarding persists the first-launch flags: privacy policy acceptance
// and completion of the onboarding slideshow.
package onboarding

import (
	"context"
	"encoding/json"
	"sync"

	apperrors "github.com/rossinph-cmyk/rork-my-notebooks-custom-themes-3/internal/errors"
	"github.com/rossinph-cmyk/rork-my-notebooks-custom-themes-3/internal/kv"
	"github.com/rossinph-cmyk/rork-my-notebooks-custom-themes-3/internal/logging"
)

// stateVersion is the version stamp of the persisted envelope.
const stateVersion = 0

// State holds the onboarding flags.
type State struct {
	HasAcceptedPrivacyPolicy bool `json:"hasAcceptedPrivacyPolicy"`
	HasCompletedOnboarding   bool `json:"hasCompletedOnboarding"`
}

// Done reports whether the user has passed every first-launch step.
func (s State) Done() bool {
	return s.HasAcceptedPrivacyPolicy && s.HasCompletedOnboarding
}

// envelope is the stored layout: {"state":{...},"version":0}.
type envelope struct {
	State   State `json:"state"`
	Version int   `json:"version"`
}

// Store keeps the onboarding flags in a single key.
type Store struct {
	kv  kv.Store
	key string
	log *logging.Logger

	mu    sync.Mutex
	state State
}

// New creates a Store reading and writing key.
func New(store kv.Store, key string, log *logging.Logger) *Store {
	if log == nil {
		log = logging.Get()
	}
	return &Store{kv: store, key: key, log: log}
}

// Load reads the persisted flags. Absent, unreadable or corrupt data yields
// the initial state.
func (s *Store) Load(ctx context.Context) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = State{}
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		s.log.Warn("Failed to read onboarding state", map[string]interface{}{"key": s.key, "error": err.Error()})
		return s.state
	}
	if !ok || raw == "" {
		return s.state
	}

	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		s.log.Warn("Ignoring corrupt onboarding state", map[string]interface{}{"key": s.key, "error": err.Error()})
		return s.state
	}
	s.state = env.State
	return s.state
}

// State returns the current flags.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// AcceptPrivacyPolicy records acceptance of the privacy policy.
func (s *Store) AcceptPrivacyPolicy(ctx context.Context) error {
	return s.update(ctx, func(st *State) { st.HasAcceptedPrivacyPolicy = true })
}

// CompleteOnboarding records that the slideshow was finished or skipped.
func (s *Store) CompleteOnboarding(ctx context.Context) error {
	return s.update(ctx, func(st *State) { st.HasCompletedOnboarding = true })
}

// Reset clears both flags.
func (s *Store) Reset(ctx context.Context) error {
	return s.update(ctx, func(st *State) { *st = State{} })
}

func (s *Store) update(ctx context.Context, fn func(*State)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state
	fn(&next)

	data, err := json.Marshal(envelope{State: next, Version: stateVersion})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternal, "failed to encode onboarding state", err)
	}
	if err := s.kv.Set(ctx, s.key, string(data)); err != nil {
		return apperrors.Wrap(apperrors.ErrStorageWrite, "failed to save onboarding state", err)
	}
	s.state = next
	return nil
}
