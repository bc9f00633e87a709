package api

import (
	"context"
	"time"

	"github.com/krisalay/ttl-cache/types"
)

/*
Cache defines the PUBLIC API of the TTL cache.
This is a contract that guarantees certain behaviors, without exposing internals.
Locking, the clock, metrics and purging are hidden behind this interface.

Every method returns an error. The error is non-nil only when the cache's lock
is poisoned, meaning a writer panicked mid-update and the data can no longer
be trusted. A missing or expired key is never an error.
*/
type Cache[K comparable, V any] interface {

	/*
		Insert stores value under key until expiresAt.

		BEHAVIOR:
		---------
		- Unconditional upsert
		- Replaces both the value and the expiry of an existing key
		- The old expiry no longer governs the key
	*/
	Insert(key K, value V, expiresAt time.Time) error

	/*
		InsertWithTTL is Insert with expiresAt = now + ttl,
		where now is read from the cache's clock.
	*/
	InsertWithTTL(key K, value V, ttl time.Duration) error

	/*
		Get retrieves the value associated with the given key.

		BEHAVIOR:
		-------------------
		1. If the key exists and has NOT expired: return the value, true
		2. If the key does NOT exist or has expired: return the zero value, false

		An entry whose expiry equals the current instant counts as expired.
		Get never deletes; expired entries wait for the next purge.
	*/
	Get(key K) (V, bool, error)

	/*
		GetValueAndExpiration is Get that also returns the stored expiry,
		for callers that need to reason about remaining lifetime.
	*/
	GetValueAndExpiration(key K) (V, time.Time, bool, error)

	/*
		TTL returns the remaining time-to-live of a live key.
		It returns false if the key does not exist or has expired.
	*/
	TTL(key K) (time.Duration, bool, error)

	/*
		GetOrLoad returns the live value for key, or loads it on a miss.

		BEHAVIOR:
		---------
		- Concurrent misses for the same key share one Load call
		- The loaded value is stored with the expiry the loader returned
		- A loader error is returned and nothing is stored
	*/
	GetOrLoad(ctx context.Context, key K, loader types.Loader[K, V]) (V, error)

	/*
		Remove deletes a key from the cache immediately,
		whether or not it has expired, and returns the previous value.

		This operation is idempotent:
		- Removing a non-existing key is safe
	*/
	Remove(key K) (V, bool, error)

	/*
		PurgeExpired removes every entry whose expiry is at or before now
		and returns how many were removed.

		Calling it again with no new expiries removes nothing.
	*/
	PurgeExpired(now time.Time) (int, error)

	// Len returns how many entries are resident, including expired ones not yet purged.
	Len() (int, error)

	// IsEmpty reports whether Len is zero.
	IsEmpty() (bool, error)
}
