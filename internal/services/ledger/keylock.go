package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/fintrack/fintrack/internal/models"
)

// lockEntry is a one-slot channel acting as a mutex, plus a count of
// goroutines currently holding or waiting on it.
type lockEntry struct {
	ch   chan struct{}
	refs int
}

// keyLock provides per-key mutual exclusion with a bounded wait. Entries are
// reference counted and removed from the map once no goroutine holds or waits
// on them, so the map does not grow with user cardinality. An acquire that
// cannot get the slot within the wait fails with models.ErrBusy instead of
// blocking indefinitely.
type keyLock struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

func newKeyLock() *keyLock {
	return &keyLock{locks: make(map[string]*lockEntry)}
}

// acquire obtains the lock for key, waiting at most wait. On success it
// returns a release function that must be called exactly once.
func (k *keyLock) acquire(ctx context.Context, key string, wait time.Duration) (func(), error) {
	k.mu.Lock()
	e, ok := k.locks[key]
	if !ok {
		e = &lockEntry{ch: make(chan struct{}, 1)}
		k.locks[key] = e
	}
	e.refs++
	k.mu.Unlock()

	release := func() {
		<-e.ch
		k.put(key, e)
	}

	// Fast path — uncontended
	select {
	case e.ch <- struct{}{}:
		return release, nil
	default:
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case e.ch <- struct{}{}:
		return release, nil
	case <-timer.C:
		k.put(key, e)
		return nil, models.ErrBusy
	case <-ctx.Done():
		k.put(key, e)
		return nil, ctx.Err()
	}
}

// put drops one reference on key's entry, deleting it once unused.
func (k *keyLock) put(key string, e *lockEntry) {
	k.mu.Lock()
	e.refs--
	if e.refs == 0 {
		delete(k.locks, key)
	}
	k.mu.Unlock()
}
