package spacedrep

import (
	"context"
	"slices"
	"sync"
)

// keyedLocker hands out per-key locks that are granted in arrival order.
// A waiter whose context ends leaves the queue without ever holding the
// lock. Entries are dropped once nobody holds or waits for them.
type keyedLocker struct {
	mu      sync.Mutex
	entries map[Key]*lockEntry
}

type lockEntry struct {
	held    bool
	waiters []chan struct{} // closed when the lock is handed to that waiter
	refs    int             // holder plus waiters
}

func newKeyedLocker() *keyedLocker {
	return &keyedLocker{entries: make(map[Key]*lockEntry)}
}

// Lock blocks until every earlier caller for k has released or given up,
// then returns the release function. It returns ctx's error if ctx ends
// first.
func (l *keyedLocker) Lock(ctx context.Context, k Key) (func(), error) {
	l.mu.Lock()
	e, ok := l.entries[k]
	if !ok {
		e = &lockEntry{}
		l.entries[k] = e
	}
	e.refs++
	if !e.held {
		e.held = true
		l.mu.Unlock()
		return l.releaser(k, e), nil
	}
	turn := make(chan struct{})
	e.waiters = append(e.waiters, turn)
	l.mu.Unlock()

	select {
	case <-turn:
		return l.releaser(k, e), nil
	case <-ctx.Done():
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	select {
	case <-turn:
		// Handed over while giving up; pass it on.
		l.unlock(k, e)
	default:
		e.waiters = slices.DeleteFunc(e.waiters, func(c chan struct{}) bool { return c == turn })
		e.refs--
	}
	return nil, ctx.Err()
}

func (l *keyedLocker) releaser(k Key, e *lockEntry) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			l.unlock(k, e)
			l.mu.Unlock()
		})
	}
}

// unlock releases the holder's claim on e. l.mu must be held.
func (l *keyedLocker) unlock(k Key, e *lockEntry) {
	e.refs--
	if len(e.waiters) > 0 {
		next := e.waiters[0]
		e.waiters = e.waiters[1:]
		close(next)
		return
	}
	e.held = false
	if e.refs == 0 {
		delete(l.entries, k)
	}
}

// pending returns how many callers hold or wait for k.
func (l *keyedLocker) pending(k Key) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if e, ok := l.entries[k]; ok {
		return e.refs
	}
	return 0
}
