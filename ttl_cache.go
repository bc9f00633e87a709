package cache

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/krisalay/ttl-cache/api"
	"github.com/krisalay/ttl-cache/engine"
	"github.com/krisalay/ttl-cache/expiration"
	"github.com/krisalay/ttl-cache/rwlock"
	"github.com/krisalay/ttl-cache/store"
	"github.com/krisalay/ttl-cache/types"
)

/*
TTLCache is the main cache implementation.
This struct is the orchestrator that connects:
- the store (the plain map)
- the lock that guards it
- the engine (clock, expiry rules, metrics, logging)
- read-through loading

A *TTLCache is the shared handle: application goroutines and the purge
scheduler all hold the same pointer. The store is only ever touched inside
lock.Read or lock.Write.
*/
type TTLCache[K comparable, V any] struct {
	// lock is the single coarse lock for the whole map. Lookups share it;
	// inserts, removals and purges take it exclusively.
	lock rwlock.RWLock

	// store holds the key → entry map. Not safe on its own.
	store store.Store[K, V]

	// engine contains the "rules" of the cache: clock, expiry, metrics, logging.
	engine *engine.CacheEngine

	// sf prevents multiple goroutines from loading the same key simultaneously.
	sf singleflight.Group

	// flights maps a key with callers inside GetOrLoad to its singleflight ID.
	// Distinct keys never share an ID, whatever their string form.
	flightMu   sync.Mutex
	flights    map[K]*flight
	nextFlight uint64
}

type flight struct {
	id   string
	refs int
}

var _ api.Cache[string, any] = (*TTLCache[string, any])(nil)

// New creates an empty cache.
func New[K comparable, V any](opts ...Option) *TTLCache[K, V] {
	o := buildOptions(opts)

	return &TTLCache[K, V]{
		store:   store.NewMapStore[K, V](),
		engine:  engine.NewCacheEngine(o.clock, o.metrics, o.log),
		flights: make(map[K]*flight),
	}
}

/*
Insert stores a value until expiresAt, replacing any previous value and expiry.
*/
func (c *TTLCache[K, V]) Insert(key K, value V, expiresAt time.Time) error {
	err := c.lock.Write(func() {
		c.store.Insert(key, types.Entry[V]{Value: value, ExpiresAt: expiresAt})
	})
	if err != nil {
		return fmt.Errorf("insert: %w", err)
	}
	return nil
}

/*
InsertWithTTL stores a value that expires ttl from now.
*/
func (c *TTLCache[K, V]) InsertWithTTL(key K, value V, ttl time.Duration) error {
	return c.Insert(key, value, c.engine.Now().Add(ttl))
}

/*
Get retrieves a live value from the cache.
*/
func (c *TTLCache[K, V]) Get(key K) (V, bool, error) {
	val, _, ok, err := c.GetValueAndExpiration(key)
	return val, ok, err
}

/*
GetValueAndExpiration retrieves a live value together with its expiry.

"now" is sampled after the read lock is granted, so the answer is correct for
the instant the lookup actually ran, not for when the caller started waiting.
*/
func (c *TTLCache[K, V]) GetValueAndExpiration(key K) (V, time.Time, bool, error) {
	var (
		ent  types.Entry[V]
		live bool
	)
	err := c.lock.Read(func() {
		var found bool
		ent, found = c.store.Get(key)
		live = c.engine.OnLookup(found, ent.ExpiresAt, c.engine.Now())
	})

	var zero V
	if err != nil {
		return zero, time.Time{}, false, fmt.Errorf("get: %w", err)
	}
	if !live {
		return zero, time.Time{}, false, nil
	}
	return ent.Value, ent.ExpiresAt, true, nil
}

/*
TTL returns the remaining time-to-live of a live key.
*/
func (c *TTLCache[K, V]) TTL(key K) (time.Duration, bool, error) {
	var (
		remaining time.Duration
		live      bool
	)
	err := c.lock.Read(func() {
		ent, found := c.store.Get(key)
		if !found {
			return
		}
		now := c.engine.Now()
		if expiration.IsExpired(ent.ExpiresAt, now) {
			return
		}
		remaining, live = expiration.Remaining(ent.ExpiresAt, now), true
	})
	if err != nil {
		return 0, false, fmt.Errorf("ttl: %w", err)
	}
	return remaining, live, nil
}

/*
GetOrLoad returns the live value for key, or loads and stores it on a miss.

singleflight ensures that:
- If 100 goroutines miss the same key at once,
  only ONE of them calls the loader.
- Others wait for and share its result.

A loaded value whose expiresAt has already passed is returned to the callers
of that load but not cached.
*/
func (c *TTLCache[K, V]) GetOrLoad(ctx context.Context, key K, loader types.Loader[K, V]) (V, error) {
	var zero V

	if val, ok, err := c.Get(key); err != nil || ok {
		return val, err
	}

	id := c.acquireFlight(key)
	defer c.releaseFlight(key)

	res, err, _ := c.sf.Do(id, func() (any, error) {
		val, expiresAt, err := loader.Load(ctx, key)
		if err != nil {
			return zero, fmt.Errorf("load %v: %w", key, err)
		}
		if expiration.IsExpired(expiresAt, c.engine.Now()) {
			return val, nil
		}
		if err := c.Insert(key, val, expiresAt); err != nil {
			return zero, err
		}
		return val, nil
	})
	if err != nil {
		return zero, err
	}
	// Comma-ok: a nil value stored in an interface-typed V comes back as nil any.
	val, _ := res.(V)
	return val, nil
}

// acquireFlight returns the singleflight ID for key. Callers overlapping on
// the same key get the same ID; the ID is dropped once the last one leaves.
func (c *TTLCache[K, V]) acquireFlight(key K) string {
	c.flightMu.Lock()
	defer c.flightMu.Unlock()

	// NaN never equals itself, so it can neither be found nor shared.
	if key != key {
		c.nextFlight++
		return strconv.FormatUint(c.nextFlight, 10)
	}

	f, ok := c.flights[key]
	if !ok {
		c.nextFlight++
		f = &flight{id: strconv.FormatUint(c.nextFlight, 10)}
		c.flights[key] = f
	}
	f.refs++
	return f.id
}

func (c *TTLCache[K, V]) releaseFlight(key K) {
	c.flightMu.Lock()
	defer c.flightMu.Unlock()

	f, ok := c.flights[key]
	if !ok {
		return
	}
	if f.refs--; f.refs == 0 {
		delete(c.flights, key)
	}
}

/*
Remove deletes a key whether or not it has expired and returns what was stored.
*/
func (c *TTLCache[K, V]) Remove(key K) (V, bool, error) {
	var (
		ent   types.Entry[V]
		found bool
	)
	err := c.lock.Write(func() {
		ent, found = c.store.Remove(key)
	})
	if err != nil {
		var zero V
		return zero, false, fmt.Errorf("remove: %w", err)
	}
	return ent.Value, found, nil
}

/*
PurgeExpired removes every entry expired at now and returns the count.
*/
func (c *TTLCache[K, V]) PurgeExpired(now time.Time) (int, error) {
	var removed int
	err := c.lock.Write(func() {
		removed = c.purgeLocked(now)
	})
	if err != nil {
		return 0, fmt.Errorf("purge: %w", err)
	}
	return removed, nil
}

/*
PurgeNow is PurgeExpired with "now" read from the clock once the write lock is
held. Time spent waiting for the lock therefore counts: anything that expired
while the purge was queued behind other writers is removed too.
*/
func (c *TTLCache[K, V]) PurgeNow() (int, error) {
	var removed int
	err := c.lock.Write(func() {
		removed = c.purgeLocked(c.engine.Now())
	})
	if err != nil {
		return 0, fmt.Errorf("purge: %w", err)
	}
	return removed, nil
}

func (c *TTLCache[K, V]) purgeLocked(now time.Time) int {
	removed := c.store.PurgeExpired(now)
	c.engine.OnPurge(removed, now)
	return removed
}

/*
Len returns how many entries are resident.
Expired entries that have not been purged yet are counted.
*/
func (c *TTLCache[K, V]) Len() (int, error) {
	var n int
	err := c.lock.Read(func() {
		n = c.store.Len()
	})
	if err != nil {
		return 0, fmt.Errorf("len: %w", err)
	}
	return n, nil
}

// IsEmpty reports whether no entries are resident.
func (c *TTLCache[K, V]) IsEmpty() (bool, error) {
	n, err := c.Len()
	if err != nil {
		return false, err
	}
	return n == 0, nil
}
