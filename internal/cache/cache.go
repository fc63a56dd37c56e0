// Package cache provides a process-wide, size-bounded, TTL-bounded store
// for fetch results. Expiry is lazy: entries past their TTL are treated as
// absent on read and replaced by the next Set, never swept in the
// background. When the entry count exceeds the configured maximum, the
// oldest quarter by insertion time is dropped in one pass.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"sync"
	"time"
)

// DefaultMaxEntries bounds the store when no explicit maximum is configured.
const DefaultMaxEntries = 100

// Entry wraps a cached value with its creation time, lifetime and content
// fingerprint.
type Entry[T any] struct {
	Value     T
	Timestamp time.Time
	TTL       time.Duration
	ETag      string
}

// Age returns how long ago the entry was created.
func (e Entry[T]) Age(now time.Time) time.Duration {
	return now.Sub(e.Timestamp)
}

// Expired reports whether the entry's TTL has elapsed.
func (e Entry[T]) Expired(now time.Time) bool {
	return now.Sub(e.Timestamp) > e.TTL
}

// Store is a concurrency-safe key/value cache. A Store owns its map; it is
// constructed once per process and injected where needed rather than held
// in package state.
type Store[T any] struct {
	mu          sync.RWMutex
	entries     map[string]Entry[T]
	maxEntries  int
	fingerprint func(T) string
	now         func() time.Time
}

// NewStore creates a store bounded to maxEntries. fingerprint derives the
// ETag from a value's identity-bearing fields; it must be deterministic so
// independent fetches of identical content produce identical tags.
func NewStore[T any](maxEntries int, fingerprint func(T) string) *Store[T] {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Store[T]{
		entries:     make(map[string]Entry[T]),
		maxEntries:  maxEntries,
		fingerprint: fingerprint,
		now:         time.Now,
	}
}

// Get returns the entry for key. ok is false when no entry exists or when
// the entry's TTL has elapsed. Expired entries are left in place; the next
// Set supersedes them.
func (s *Store[T]) Get(key string) (Entry[T], bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key]
	if !ok || e.Expired(s.now()) {
		var zero Entry[T]
		return zero, false
	}
	return e, true
}

// Set stores value under key with the given TTL and returns the computed
// ETag. Eviction runs opportunistically after each insert.
func (s *Store[T]) Set(key string, value T, ttl time.Duration) string {
	etag := s.fingerprint(value)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = Entry[T]{
		Value:     value,
		Timestamp: s.now(),
		TTL:       ttl,
		ETag:      etag,
	}
	s.evictLocked()
	return etag
}

// Len returns the current entry count, expired entries included.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// evictLocked drops the oldest 25% of entries by timestamp once the store
// exceeds its maximum. Caller must hold the write lock.
func (s *Store[T]) evictLocked() {
	if len(s.entries) <= s.maxEntries {
		return
	}

	type aged struct {
		key string
		ts  time.Time
	}
	all := make([]aged, 0, len(s.entries))
	for k, e := range s.entries {
		all = append(all, aged{key: k, ts: e.Timestamp})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ts.Before(all[j].ts) })

	drop := len(all) / 4
	if drop < 1 {
		drop = 1
	}
	for _, a := range all[:drop] {
		delete(s.entries, a.key)
	}
}

// Fingerprint hashes the given identity parts into an opaque tag. Helper
// for the fingerprint functions passed to NewStore.
func Fingerprint(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}
