package cache

import (
	"sync"
	"time"
)

// Clock supplies the current time. Tests inject a fake to drive TTL expiry.
type Clock func() time.Time

type entry struct {
	value     any
	expiresAt time.Time
}

// Store is the process-wide result cache: an in-memory key/value map with
// per-entry TTL. Expiry is evaluated lazily at read time; an expired read
// returns a miss and evicts the entry as a side effect. There is no
// background sweep. Writes are last-writer-wins, which is safe because every
// cached value is idempotently recomputable from the durable store.
//
// The Store is never a correctness boundary: skipping it and recomputing must
// always yield the same result.
type Store struct {
	mu         sync.RWMutex
	entries    map[string]entry
	clock      Clock
	defaultTTL time.Duration
}

// NewStore creates a result cache. A zero defaultTTL falls back to 60s.
// A nil clock uses time.Now.
func NewStore(defaultTTL time.Duration, clock Clock) *Store {
	if defaultTTL <= 0 {
		defaultTTL = 60 * time.Second
	}
	if clock == nil {
		clock = time.Now
	}
	return &Store{
		entries:    make(map[string]entry),
		clock:      clock,
		defaultTTL: defaultTTL,
	}
}

// Get returns the cached value for key, or (nil, false) on a miss. Reading an
// expired entry deletes it and reports a miss; a second read after expiry is
// an ordinary miss.
func (s *Store) Get(key string) (any, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return nil, false
	}

	if s.clock().After(e.expiresAt) {
		s.mu.Lock()
		// Re-check under the write lock: a concurrent Set may have refreshed
		// the entry between the two lock acquisitions.
		if cur, ok := s.entries[key]; ok && s.clock().After(cur.expiresAt) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return nil, false
	}

	return e.value, true
}

// Set stores value under key. ttl <= 0 uses the store default.
func (s *Store) Set(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = s.defaultTTL
	}

	s.mu.Lock()
	s.entries[key] = entry{
		value:     value,
		expiresAt: s.clock().Add(ttl),
	}
	s.mu.Unlock()
}

// Invalidate removes key immediately, regardless of TTL.
func (s *Store) Invalidate(key string) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// Len reports the number of entries currently held, expired or not.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
