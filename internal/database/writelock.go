package database

import "sync"

// writeLock serializes mutating transactions while letting read-only
// handlers proceed concurrently (§5: single-writer, multi-reader). It is a
// thin wrapper over sync.RWMutex named for what it protects rather than its
// implementation, since the repository only ever needs "hold for write" /
// "hold for read" semantics.
type writeLock struct {
	mu sync.RWMutex
}

func newWriteLock() *writeLock {
	return &writeLock{}
}

// LockWrite must be held for the full duration of a mutating transaction.
func (w *writeLock) LockWrite() {
	w.mu.Lock()
}

func (w *writeLock) UnlockWrite() {
	w.mu.Unlock()
}

// LockRead may be held concurrently by any number of read-only handlers.
func (w *writeLock) LockRead() {
	w.mu.RLock()
}

func (w *writeLock) UnlockRead() {
	w.mu.RUnlock()
}
