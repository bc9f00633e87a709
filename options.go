package cache

import (
	"log/slog"

	"github.com/jonboulle/clockwork"

	"github.com/krisalay/ttl-cache/types"
)

type options struct {
	clock   clockwork.Clock
	metrics types.Metrics
	log     *slog.Logger
}

// Option configures New and StartPeriodicPurge.
// Options a function does not use are ignored.
type Option func(*options)

// WithClock sets the time source for expiry checks and the purge ticker.
func WithClock(clock clockwork.Clock) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// WithMetrics sets where cache events are reported.
func WithMetrics(m types.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithLogger sets the logger for purge and lifecycle events.
func WithLogger(log *slog.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
