package cache

import (
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestStoreSetThenGet(t *testing.T) {
	clock := newFakeClock()
	store := NewStore(60*time.Second, clock.Now)

	store.Set("k", "v", 60*time.Second)

	got, ok := store.Get("k")
	if !ok {
		t.Fatalf("expected hit immediately after Set")
	}
	if got != "v" {
		t.Fatalf("expected %q, got %v", "v", got)
	}
}

func TestStoreLazyExpiry(t *testing.T) {
	clock := newFakeClock()
	store := NewStore(60*time.Second, clock.Now)

	store.Set("k", 42, 60*time.Second)

	clock.Advance(61 * time.Second)

	if _, ok := store.Get("k"); ok {
		t.Fatalf("expected miss after TTL elapsed")
	}
	if store.Len() != 0 {
		t.Fatalf("expired entry should be evicted on read, %d entries remain", store.Len())
	}

	// Post-eviction idempotence: a second read is still a miss.
	if _, ok := store.Get("k"); ok {
		t.Fatalf("expected miss on read after eviction")
	}
}

func TestStoreExpiryBoundary(t *testing.T) {
	clock := newFakeClock()
	store := NewStore(60*time.Second, clock.Now)

	store.Set("k", "v", 60*time.Second)

	// Exactly at expiresAt the entry is still valid; expiry is now > expiresAt.
	clock.Advance(60 * time.Second)
	if _, ok := store.Get("k"); !ok {
		t.Fatalf("entry should survive until strictly after expiresAt")
	}

	clock.Advance(time.Nanosecond)
	if _, ok := store.Get("k"); ok {
		t.Fatalf("entry should expire once past expiresAt")
	}
}

func TestStoreInvalidate(t *testing.T) {
	clock := newFakeClock()
	store := NewStore(60*time.Second, clock.Now)

	store.Set("k", "v", time.Hour)
	store.Invalidate("k")

	if _, ok := store.Get("k"); ok {
		t.Fatalf("expected miss after Invalidate regardless of TTL")
	}
}

func TestStoreDefaultTTL(t *testing.T) {
	clock := newFakeClock()
	store := NewStore(60*time.Second, clock.Now)

	store.Set("k", "v", 0)

	clock.Advance(59 * time.Second)
	if _, ok := store.Get("k"); !ok {
		t.Fatalf("entry should still be live inside the default TTL")
	}

	clock.Advance(2 * time.Second)
	if _, ok := store.Get("k"); ok {
		t.Fatalf("entry should expire after the default TTL")
	}
}

func TestStoreLastWriterWins(t *testing.T) {
	clock := newFakeClock()
	store := NewStore(60*time.Second, clock.Now)

	store.Set("k", "first", time.Hour)
	store.Set("k", "second", time.Hour)

	got, ok := store.Get("k")
	if !ok || got != "second" {
		t.Fatalf("expected the later write to win, got %v (hit=%v)", got, ok)
	}
}
