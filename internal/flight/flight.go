// Package flight coalesces concurrent identical requests: at most one
// producer runs per key at any instant, and every caller that arrives while
// it is in flight receives the same result. This is what keeps several
// browser tabs refreshing at once from issuing duplicate upstream fetches.
package flight

import (
	"fmt"
	"sync"
)

type call[T any] struct {
	done chan struct{}
	val  T
	err  error
}

// Group deduplicates in-flight calls by key. The zero value is not usable;
// construct with NewGroup and inject where needed.
type Group[T any] struct {
	mu    sync.Mutex
	calls map[string]*call[T]
}

func NewGroup[T any]() *Group[T] {
	return &Group[T]{calls: make(map[string]*call[T])}
}

// Do runs fn under key, or joins an already in-flight call for the same
// key. shared is true when the result came from a call started by another
// caller. The key is deregistered unconditionally when fn completes, even
// on error or panic, so a failed producer never leaves a stuck key.
func (g *Group[T]) Do(key string, fn func() (T, error)) (val T, shared bool, err error) {
	g.mu.Lock()
	if c, ok := g.calls[key]; ok {
		g.mu.Unlock()
		<-c.done
		return c.val, true, c.err
	}

	c := &call[T]{done: make(chan struct{})}
	g.calls[key] = c
	g.mu.Unlock()

	func() {
		defer func() {
			if r := recover(); r != nil {
				c.err = fmt.Errorf("flight: producer panicked: %v", r)
			}
			g.mu.Lock()
			delete(g.calls, key)
			g.mu.Unlock()
			close(c.done)
		}()
		c.val, c.err = fn()
	}()

	return c.val, false, c.err
}

// InFlight reports whether a call is currently registered for key.
func (g *Group[T]) InFlight(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.calls[key]
	return ok
}
