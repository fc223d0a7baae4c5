package kv

import (
	"context"

	"github.com/patrickmn/go-cache"
)

// MemoryStore keeps keys in process memory. Values never expire.
type MemoryStore struct {
	cache *cache.Cache
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		cache: cache.New(cache.NoExpiration, 0),
	}
}

// Get retrieves the value stored under key.
func (s *MemoryStore) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	if x, found := s.cache.Get(key); found {
		return x.(string), true, nil
	}
	return "", false, nil
}

// Set creates or replaces the value stored under key.
func (s *MemoryStore) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.cache.Set(key, value, cache.NoExpiration)
	return nil
}

// Remove deletes key.
func (s *MemoryStore) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.cache.Delete(key)
	return nil
}

// Len returns the number of stored keys.
func (s *MemoryStore) Len() int {
	return s.cache.ItemCount()
}

// Close discards all keys.
func (s *MemoryStore) Close() error {
	s.cache.Flush()
	return nil
}
