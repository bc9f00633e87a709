// Package rwlock provides the single coarse lock that guards a cache.
//
// RWLock is write-preferring: once a writer is waiting, readers that arrive
// after it queue behind it. A background purge therefore cannot be starved by
// a steady stream of lookups, which bounds how long expired entries stay
// resident.
//
// RWLock also poisons. If a writer panics in the middle of its critical
// section the guarded data may be half-updated, so every later Read or Write
// fails with ErrPoisoned instead of running against it.
package rwlock

import (
	"errors"
	"sync"
	"sync/atomic"
)

// ErrPoisoned is returned by Read and Write once a writer has panicked while
// holding the lock.
var ErrPoisoned = errors.New("rwlock: poisoned by a panic in a write section")

// RWLock is a write-preferring readers-writer lock with poisoning.
// The zero value is an unlocked, healthy lock.
type RWLock struct {
	// sync.RWMutex already blocks new RLock callers while a Lock call is
	// pending, which is exactly the writer preference we need.
	mu       sync.RWMutex
	poisoned atomic.Bool
}

// Read runs fn with shared access. Several Read calls may run fn at once.
// A panic in fn does not poison the lock.
func (l *RWLock) Read(fn func()) error {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.poisoned.Load() {
		return ErrPoisoned
	}
	fn()
	return nil
}

// Write runs fn with exclusive access.
//
// If fn panics, the lock is marked poisoned and released. The panic is never
// recovered here, so it keeps unwinding with its original stack.
func (l *RWLock) Write(fn func()) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.poisoned.Load() {
		return ErrPoisoned
	}

	completed := false
	defer func() {
		if !completed {
			l.poisoned.Store(true)
		}
	}()
	fn()
	completed = true
	return nil
}

// Poisoned reports whether a writer has panicked while holding the lock.
func (l *RWLock) Poisoned() bool {
	return l.poisoned.Load()
}
