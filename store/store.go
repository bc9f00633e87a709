package store

import (
	"time"

	"github.com/krisalay/ttl-cache/expiration"
	"github.com/krisalay/ttl-cache/types"
)

/*
This file defines how entries are actually stored. A Store is NOT safe for
concurrent use: it is the plain map that lives behind the cache's lock.
Nothing outside the lock's critical sections may touch it.
*/

// Store is the interface used by the cache to keep entries.
type Store[K comparable, V any] interface {

	// Get returns the raw entry for key, expired or not.
	Get(K) (types.Entry[V], bool)

	// Insert adds or replaces the entry for key.
	Insert(K, types.Entry[V])

	// Remove deletes the entry for key and returns what was there.
	Remove(K) (types.Entry[V], bool)

	// PurgeExpired removes every entry expired at now and returns how many went.
	PurgeExpired(now time.Time) int

	// Len returns how many entries are resident, including expired ones.
	Len() int
}

// mapStore is the map-backed Store.
type mapStore[K comparable, V any] struct {
	data map[K]types.Entry[V]
}

func NewMapStore[K comparable, V any]() *mapStore[K, V] {
	return &mapStore[K, V]{data: make(map[K]types.Entry[V])}
}

func (s *mapStore[K, V]) Get(key K) (types.Entry[V], bool) {
	ent, ok := s.data[key]
	return ent, ok
}

// Insert replaces value and expiry together; the old expiry no longer applies.
func (s *mapStore[K, V]) Insert(key K, ent types.Entry[V]) {
	s.data[key] = ent
}

func (s *mapStore[K, V]) Remove(key K) (types.Entry[V], bool) {
	ent, ok := s.data[key]
	if ok {
		delete(s.data, key)
	}
	return ent, ok
}

/*
PurgeExpired is a full O(n) scan. There is no expiry-ordered index: purges are
rare compared to reads, so a heap or timing wheel would only add bookkeeping to
every insert.

Deleting from a map while ranging over it is allowed in Go.
*/
func (s *mapStore[K, V]) PurgeExpired(now time.Time) int {
	removed := 0
	for key, ent := range s.data {
		if expiration.IsExpired(ent.ExpiresAt, now) {
			delete(s.data, key)
			removed++
		}
	}
	return removed
}

func (s *mapStore[K, V]) Len() int {
	return len(s.data)
}
