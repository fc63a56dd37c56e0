package flight

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoCoalescesConcurrentCallers(t *testing.T) {
	g := NewGroup[[]string]()

	const callers = 20
	var invocations atomic.Int32
	release := make(chan struct{})

	var wg sync.WaitGroup
	results := make([][]string, callers)
	sharedFlags := make([]bool, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			val, shared, err := g.Do("inbox", func() ([]string, error) {
				invocations.Add(1)
				<-release
				return []string{"a", "b", "c"}, nil
			})
			assert.NoError(t, err)
			results[i] = val
			sharedFlags[i] = shared
		}(i)
	}

	// Give every caller time to reach Do before the producer finishes.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), invocations.Load())

	initiators := 0
	for i := 0; i < callers; i++ {
		assert.Equal(t, []string{"a", "b", "c"}, results[i])
		if !sharedFlags[i] {
			initiators++
		}
	}
	assert.Equal(t, 1, initiators)
}

func TestDoPropagatesErrorToAllWaiters(t *testing.T) {
	g := NewGroup[int]()
	boom := errors.New("upstream exploded")
	release := make(chan struct{})

	var wg sync.WaitGroup
	errs := make([]error, 5)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, err := g.Do("k", func() (int, error) {
				<-release
				return 0, boom
			})
			errs[i] = err
		}(i)
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	for _, err := range errs {
		assert.ErrorIs(t, err, boom)
	}
}

func TestKeyReusableAfterFailure(t *testing.T) {
	g := NewGroup[string]()

	_, _, err := g.Do("k", func() (string, error) {
		return "", errors.New("first try fails")
	})
	require.Error(t, err)
	assert.False(t, g.InFlight("k"))

	// A failed producer must not poison the key; the next caller retries fresh.
	val, shared, err := g.Do("k", func() (string, error) {
		return "ok", nil
	})
	require.NoError(t, err)
	assert.False(t, shared)
	assert.Equal(t, "ok", val)
}

func TestPanickingProducerDeregisters(t *testing.T) {
	g := NewGroup[string]()

	_, _, err := g.Do("k", func() (string, error) {
		panic("producer crashed")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panicked")
	assert.False(t, g.InFlight("k"))
}

func TestIndependentKeysDoNotCoalesce(t *testing.T) {
	g := NewGroup[string]()

	var invocations atomic.Int32
	fn := func(v string) func() (string, error) {
		return func() (string, error) {
			invocations.Add(1)
			return v, nil
		}
	}

	a, _, _ := g.Do("a", fn("va"))
	b, _, _ := g.Do("b", fn("vb"))

	assert.Equal(t, "va", a)
	assert.Equal(t, "vb", b)
	assert.Equal(t, int32(2), invocations.Load())
}
