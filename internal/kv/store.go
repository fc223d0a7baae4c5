// Package kv provides the string key-value persistence adapters used by the notebooks core.
package kv

import "context"

// Store is an asynchronous string key-value store.
// Get reports ok=false with a nil error when the key is absent.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Close() error
}

// DefaultPrefix is the key namespace used by earlier app releases.
const DefaultPrefix = "my-notebooks-custom-themes"

// Keys holds every storage key the core reads or writes.
type Keys struct {
	Notebooks                  string
	DarkMode                   string
	HomeBackgroundImage        string
	HomeBackgroundOpacity      string
	HomeBackgroundColor        string
	HomeBackgroundColorOpacity string
	Onboarding                 string
}

// NewKeys derives the storage keys from prefix. An empty prefix uses DefaultPrefix.
func NewKeys(prefix string) Keys {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return Keys{
		Notebooks:                  prefix + "-notebooks",
		DarkMode:                   prefix + "-dark-mode",
		HomeBackgroundImage:        prefix + "-home-bg-image",
		HomeBackgroundOpacity:      prefix + "-home-bg-opacity",
		HomeBackgroundColor:        prefix + "-home-bg-color",
		HomeBackgroundColorOpacity: prefix + "-home-bg-color-opacity",
		Onboarding:                 prefix + "-onboarding",
	}
}

// DefaultKeys returns the keys for DefaultPrefix.
func DefaultKeys() Keys {
	return NewKeys(DefaultPrefix)
}
