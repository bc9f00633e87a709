package engine

import (
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/krisalay/ttl-cache/expiration"
	"github.com/krisalay/ttl-cache/types"
)

/*
CacheEngine is the "brain" of the cache system.
It is responsible for the "behavior" of the cache, NOT storage.
This acts as the policy layer.

It decides:
- What "now" is
- Whether an entry is expired at that instant
- How lookups and purges are recorded in metrics and logs

It does NOT:
- Store data
- Handle locking
- Schedule purges
*/
type CacheEngine struct {

	// Clock is the only time source the cache reads.
	// The real clock carries Go's monotonic reading, so wall-clock jumps do not
	// move expiry decisions.
	Clock clockwork.Clock

	// Metrics is how we keep track of what the cache is doing.
	// Hits, misses, expired reads and purges.
	Metrics types.Metrics

	// Log receives purge and lifecycle events.
	Log *slog.Logger
}

/*
NewCacheEngine creates a CacheEngine.
Every nil argument is replaced by a working default.
*/
func NewCacheEngine(clock clockwork.Clock, metrics types.Metrics, log *slog.Logger) *CacheEngine {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if metrics == nil {
		metrics = types.NoopMetrics{}
	}
	if log == nil {
		log = slog.Default()
	}

	return &CacheEngine{
		Clock:   clock,
		Metrics: metrics,
		Log:     log,
	}
}

// Now samples the engine's clock.
func (e *CacheEngine) Now() time.Time {
	return e.Clock.Now()
}

/*
OnLookup is called for every read, with what the store returned for the key.

It returns whether the caller may hand the value out:
- not found           → Miss
- found but expired   → Expire, then Miss
- found and live      → Hit

Expired entries are left where they are. Reads run under the shared lock and
cannot delete; the next purge removes them.
*/
func (e *CacheEngine) OnLookup(found bool, expiresAt, now time.Time) bool {
	if !found {
		e.Metrics.Miss()
		return false
	}
	if expiration.IsExpired(expiresAt, now) {
		e.Metrics.Expire()
		e.Metrics.Miss()
		return false
	}
	e.Metrics.Hit()
	return true
}

// OnPurge is called after every sweep with the number of entries removed.
func (e *CacheEngine) OnPurge(removed int, now time.Time) {
	e.Metrics.Purge(removed)
	e.Log.Debug("purged expired entries",
		slog.Int("removed", removed),
		slog.Time("now", now),
	)
}
