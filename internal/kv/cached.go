package kv

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

type cachedValue struct {
	value string
	ok    bool
}

// Cached is a read-through cache in front of another Store.
// Writes go to the backing store first. Every write bumps a generation counter;
// a read-through only fills the cache when no write started or finished while
// it was reading, so a slow read cannot cache a value older than a later write.
type Cached struct {
	next  Store
	cache *cache.Cache

	mu  sync.Mutex
	gen uint64
}

// NewCached wraps next with a cache whose entries live for ttl.
// A ttl of zero keeps entries until they are invalidated.
func NewCached(next Store, ttl time.Duration) *Cached {
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	cleanup := time.Duration(0)
	if ttl != cache.NoExpiration {
		cleanup = 2 * ttl
	}
	return &Cached{
		next:  next,
		cache: cache.New(ttl, cleanup),
	}
}

// Get returns the cached value or reads through to the backing store.
// Absent keys are cached as well; errors are not.
func (c *Cached) Get(ctx context.Context, key string) (string, bool, error) {
	if x, found := c.cache.Get(key); found {
		v := x.(cachedValue)
		return v.value, v.ok, nil
	}

	c.mu.Lock()
	gen := c.gen
	c.mu.Unlock()

	value, ok, err := c.next.Get(ctx, key)
	if err != nil {
		return "", false, err
	}

	c.mu.Lock()
	if c.gen == gen {
		c.cache.SetDefault(key, cachedValue{value: value, ok: ok})
	}
	c.mu.Unlock()
	return value, ok, nil
}

// Set writes through to the backing store. The value is cached unless
// another write to the store overlapped this one.
func (c *Cached) Set(ctx context.Context, key, value string) error {
	mine := c.begin(key)
	err := c.next.Set(ctx, key, value)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err == nil && c.gen == mine {
		c.cache.SetDefault(key, cachedValue{value: value, ok: true})
	} else {
		c.cache.Delete(key)
	}
	c.gen++
	return err
}

// Remove deletes key from the backing store and the cache.
func (c *Cached) Remove(ctx context.Context, key string) error {
	c.begin(key)
	err := c.next.Remove(ctx, key)

	c.mu.Lock()
	c.cache.Delete(key)
	c.gen++
	c.mu.Unlock()
	return err
}

// begin drops the cached entry and starts a new generation.
func (c *Cached) begin(key string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.Delete(key)
	c.gen++
	return c.gen
}

// Close flushes the cache and closes the backing store.
func (c *Cached) Close() error {
	c.cache.Flush()
	return c.next.Close()
}
