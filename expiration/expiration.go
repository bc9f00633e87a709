// This file defines when a cache entry counts as expired.

package expiration

import "time"

/*
IsExpired reports whether an entry that expires at expiresAt is expired at now.

The boundary is inclusive: an entry whose expiry equals now is already expired.
Every read path and the purge sweep go through this one function, so a key can
never be visible to Get at the same instant a purge would remove it.
*/
func IsExpired(expiresAt, now time.Time) bool {
	return !now.Before(expiresAt)
}

// Remaining returns how long an entry expiring at expiresAt still has to live at now.
// It is never negative; an expired entry has zero remaining.
func Remaining(expiresAt, now time.Time) time.Duration {
	if IsExpired(expiresAt, now) {
		return 0
	}
	return expiresAt.Sub(now)
}
