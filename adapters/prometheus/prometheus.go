// Package prometheus provides a Prometheus implementation of types.Metrics.
package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/krisalay/ttl-cache/types"
)

// cacheMetrics implements types.Metrics using Prometheus counters.
type cacheMetrics struct {
	hits         prometheus.Counter
	misses       prometheus.Counter
	expiredReads prometheus.Counter
	purges       prometheus.Counter
	purged       prometheus.Counter
}

// NewMetrics creates the cache counters and registers them with reg.
// It panics if they are already registered, like prometheus.MustRegister.
func NewMetrics(reg prometheus.Registerer) types.Metrics {
	m := &cacheMetrics{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ttlcache_hits_total",
			Help: "Total number of lookups that returned a live value",
		}),

		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ttlcache_misses_total",
			Help: "Total number of lookups that found no live value",
		}),

		expiredReads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ttlcache_expired_reads_total",
			Help: "Total number of lookups that found an expired, not yet purged entry",
		}),

		purges: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ttlcache_purges_total",
			Help: "Total number of purge sweeps",
		}),

		purged: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ttlcache_purged_entries_total",
			Help: "Total number of expired entries removed by purge sweeps",
		}),
	}

	reg.MustRegister(
		m.hits,
		m.misses,
		m.expiredReads,
		m.purges,
		m.purged,
	)

	return m
}

func (m *cacheMetrics) Hit() {
	m.hits.Inc()
}

func (m *cacheMetrics) Miss() {
	m.misses.Inc()
}

func (m *cacheMetrics) Expire() {
	m.expiredReads.Inc()
}

func (m *cacheMetrics) Purge(removed int) {
	m.purges.Inc()
	m.purged.Add(float64(removed))
}

var _ types.Metrics = (*cacheMetrics)(nil)
