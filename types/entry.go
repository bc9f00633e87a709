package types

import "time"

// Entry is what the cache keeps for every key.
// ExpiresAt is only ever replaced by an overwriting insert.
type Entry[V any] struct {
	Value     V
	ExpiresAt time.Time
}
