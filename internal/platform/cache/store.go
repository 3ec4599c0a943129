// Package cache provides the TTL store behind the match-corpus repository
// decorator. Loads for the same key are collapsed through a singleflight so
// a burst of audits for one team hits the backing store once.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/goalsight/matchaudit/internal/platform/resilience"
)

type entry struct {
	value     any
	expiresAt time.Time
}

// Store is a process-local key-value cache with one TTL for every entry.
// Corpus reads tolerate slightly stale data; writers call Delete to drop the
// keys an upsert touched.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	flight  resilience.Flight[any]
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		entries: make(map[string]entry),
		ttl:     ttl,
	}
}

// GetOrLoad returns the cached value for key, loading and caching it on a
// miss. Concurrent misses for the same key share one loader call. Loader
// errors are returned uncached so the next call retries.
func (s *Store) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (any, error)) (any, error) {
	if loader == nil {
		return nil, fmt.Errorf("loader is required")
	}
	if key == "" {
		return loader(ctx)
	}

	if value, ok := s.lookup(key); ok {
		return value, nil
	}

	value, err, _ := s.flight.Do(key, func() (any, error) {
		// A flight that queued behind the winning loader finds the value
		// already cached.
		if cached, ok := s.lookup(key); ok {
			return cached, nil
		}

		loaded, loadErr := loader(ctx)
		if loadErr != nil {
			return nil, loadErr
		}
		s.save(key, loaded)
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}

	return value, nil
}

// Delete drops one key, forcing the next read through the loader.
func (s *Store) Delete(_ context.Context, key string) {
	if key == "" {
		return
	}

	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

func (s *Store) lookup(key string) (any, bool) {
	now := time.Now()
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if s.ttl > 0 && !e.expiresAt.After(now) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return nil, false
	}

	return e.value, true
}

func (s *Store) save(key string, value any) {
	expiresAt := time.Time{}
	if s.ttl > 0 {
		expiresAt = time.Now().Add(s.ttl)
	}

	s.mu.Lock()
	s.entries[key] = entry{
		value:     value,
		expiresAt: expiresAt,
	}
	s.mu.Unlock()
}
