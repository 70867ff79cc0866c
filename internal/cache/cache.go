// Package cache provides the process-wide TTL store for lookup results.
package cache

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/river-quality-service/internal/domain"
)

// Store maps cache keys to results with a per-entry expiry instant. Expiry
// is lazy: stale entries are removed when a read observes them, never by a
// background sweep. There is no capacity bound beyond TTL.
type Store struct {
	clock      clockwork.Clock
	defaultTTL time.Duration

	mu      sync.Mutex
	entries map[string]entry
}

type entry struct {
	value     domain.Result
	expiresAt time.Time
}

// New creates an empty Store. The clock is injected so tests can advance
// time deterministically with a fake.
func New(clock clockwork.Clock, defaultTTL time.Duration) *Store {
	return &Store{
		clock:      clock,
		defaultTTL: defaultTTL,
		entries:    make(map[string]entry),
	}
}

// Get returns the stored result while it is still live. A stale entry is
// deleted on sight and reported as a miss.
func (s *Store) Get(key string) (domain.Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return domain.Result{}, false
	}
	if s.clock.Now().After(e.expiresAt) {
		delete(s.entries, key)
		return domain.Result{}, false
	}
	return e.value, true
}

// Set stores a result under key, unconditionally overwriting any previous
// entry. A non-positive ttl falls back to the store's default.
func (s *Store) Set(key string, value domain.Result, ttl time.Duration) {
	if ttl <= 0 {
		ttl = s.defaultTTL
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry{value: value, expiresAt: s.clock.Now().Add(ttl)}
}

// Len reports the number of entries currently held, stale or not.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
