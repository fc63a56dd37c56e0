package cache

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(maxEntries int) (*Store[string], *time.Time) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := NewStore(maxEntries, func(v string) string { return Fingerprint(v) })
	s.now = func() time.Time { return now }
	return s, &now
}

func TestGetAfterSet(t *testing.T) {
	s, _ := newTestStore(10)

	etag := s.Set("k", "hello", time.Minute)

	e, ok := s.Get("k")
	require.True(t, ok)
	assert.Equal(t, "hello", e.Value)
	assert.Equal(t, etag, e.ETag)
	assert.Equal(t, time.Minute, e.TTL)
}

func TestGetMissing(t *testing.T) {
	s, _ := newTestStore(10)

	_, ok := s.Get("nope")
	assert.False(t, ok)
}

func TestTTLExpiry(t *testing.T) {
	s, now := newTestStore(10)
	s.Set("k", "hello", time.Minute)

	// Just inside the TTL the entry is still served.
	*now = now.Add(time.Minute)
	_, ok := s.Get("k")
	assert.True(t, ok)

	// Past the TTL it reads as absent without ever being removed.
	*now = now.Add(time.Millisecond)
	_, ok = s.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 1, s.Len())
}

func TestExpiredEntrySuperseded(t *testing.T) {
	s, now := newTestStore(10)
	s.Set("k", "old", time.Minute)

	*now = now.Add(2 * time.Minute)
	s.Set("k", "new", time.Minute)

	e, ok := s.Get("k")
	require.True(t, ok)
	assert.Equal(t, "new", e.Value)
}

func TestEvictionDropsOldestQuarter(t *testing.T) {
	s, now := newTestStore(100)

	for i := 0; i <= 100; i++ {
		*now = now.Add(time.Second)
		s.Set(fmt.Sprintf("k%03d", i), "v", time.Hour)
	}

	// The 101st insert trips eviction of the oldest 25%.
	assert.Less(t, s.Len(), 100)
	assert.Equal(t, 76, s.Len())

	// The oldest entries are gone, the newest survive.
	_, ok := s.Get("k000")
	assert.False(t, ok)
	_, ok = s.Get("k100")
	assert.True(t, ok)
}

func TestEvictionNotTriggeredBelowCapacity(t *testing.T) {
	s, _ := newTestStore(10)
	for i := 0; i < 10; i++ {
		s.Set(fmt.Sprintf("k%d", i), "v", time.Hour)
	}
	assert.Equal(t, 10, s.Len())
}

func TestETagDeterministic(t *testing.T) {
	s1, _ := newTestStore(10)
	s2, _ := newTestStore(10)

	// Independent stores computing tags for identical content must agree.
	assert.Equal(t, s1.Set("a", "same", time.Minute), s2.Set("b", "same", time.Minute))
	assert.NotEqual(t, s1.Set("a", "one", time.Minute), s2.Set("b", "two", time.Minute))
}

func TestFingerprintPartsAreDelimited(t *testing.T) {
	// "ab"+"c" and "a"+"bc" must not collide.
	assert.NotEqual(t, Fingerprint("ab", "c"), Fingerprint("a", "bc"))
}

func TestEntryAge(t *testing.T) {
	s, now := newTestStore(10)
	s.Set("k", "v", time.Minute)

	*now = now.Add(15 * time.Second)
	e, ok := s.Get("k")
	require.True(t, ok)
	assert.Equal(t, 15*time.Second, e.Age(*now))
}

func TestKeyScopeIsolation(t *testing.T) {
	a := Key{Scope: "user-a", Limit: 20}
	b := Key{Scope: "user-b", Limit: 20}
	demo := Key{Scope: DemoScope, Limit: 20}

	assert.NotEqual(t, a.String(), b.String())
	assert.NotEqual(t, a.String(), demo.String())
	assert.Equal(t, demo.String(), Key{Scope: DemoScope, Limit: 20}.String())
}
