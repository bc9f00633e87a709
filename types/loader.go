package types

import (
	"context"
	"time"
)

// Loader is the contract between the cache and whatever produces values on a miss.
type Loader[K comparable, V any] interface {

	/*
		Load is called when the cache misses. The key was not found in memory
		(or its entry has expired), so the cache asks the Loader to fetch it.
		1. Cache checks memory → key not found or expired
		2. Cache calls Load(key)
		3. Loader fetches from DB/API and decides how long the value is valid
		4. Cache stores the result with the returned expiry
		5. Cache returns the value

		If Load returns an error, nothing is stored.
	*/
	Load(ctx context.Context, key K) (value V, expiresAt time.Time, err error)
}

// LoaderFunc adapts a plain function to the Loader interface.
type LoaderFunc[K comparable, V any] func(ctx context.Context, key K) (V, time.Time, error)

func (f LoaderFunc[K, V]) Load(ctx context.Context, key K) (V, time.Time, error) {
	return f(ctx, key)
}
