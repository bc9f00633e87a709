// Package cache is an in-memory key-value cache where every entry carries an
// absolute expiry instant.
//
// Lookups never return an expired value. Expired entries are reclaimed by a
// periodic purge (see StartPeriodicPurge) rather than by reads, so memory
// stays bounded even for keys that are written once and never read again.
//
//	c := cache.New[string, []byte]()
//	purger, err := cache.StartPeriodicPurge(ctx, c, time.Minute)
//
//	c.InsertWithTTL("session", data, time.Hour)
//	if v, ok, err := c.Get("session"); err == nil && ok {
//	    // use v
//	}
//
// A single write-preferring lock guards the whole map: lookups run in
// parallel, while inserts, removals and purges are exclusive. If a writer
// panics mid-update the lock is poisoned and every operation returns
// rwlock.ErrPoisoned from then on.
package cache
