package store

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// ownerLocks is an in-process keyed lock. It serialises one owner's runs
// inside a single instance only. Waiting honours ctx, and an owner's entry is
// dropped once nobody holds or waits for it.
type ownerLocks struct {
	mu    sync.Mutex
	locks map[string]*ownerLock
}

type ownerLock struct {
	sem  *semaphore.Weighted
	refs int
}

func newOwnerLocks() *ownerLocks {
	return &ownerLocks{locks: make(map[string]*ownerLock)}
}

func (l *ownerLocks) acquireRef(ownerID string) *ownerLock {
	l.mu.Lock()
	defer l.mu.Unlock()
	lk, ok := l.locks[ownerID]
	if !ok {
		lk = &ownerLock{sem: semaphore.NewWeighted(1)}
		l.locks[ownerID] = lk
	}
	lk.refs++
	return lk
}

func (l *ownerLocks) releaseRef(ownerID string, lk *ownerLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	lk.refs--
	if lk.refs == 0 {
		delete(l.locks, ownerID)
	}
}

func (l *ownerLocks) with(ctx context.Context, ownerID string, fn func(ctx context.Context) error) error {
	lk := l.acquireRef(ownerID)
	defer l.releaseRef(ownerID, lk)

	if err := lk.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer lk.sem.Release(1)
	return fn(ctx)
}
