package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"
)

// ErrInvalidInterval is returned by StartPeriodicPurge for a non-positive interval.
var ErrInvalidInterval = errors.New("purge interval must be positive")

// Purgeable is anything the purge scheduler can sweep.
type Purgeable interface {
	// PurgeNow takes exclusive access, samples the current instant and removes
	// every entry expired at it. It fails only if the store is unusable.
	PurgeNow() (int, error)
}

/*
Purger is the handle of a running purge loop.

The loop has two states:
- sleeping: waiting for the next tick (or for ctx to be cancelled)
- purging:  inside PurgeNow, holding or waiting for the write lock

Ticks that fall due while the loop is purging are coalesced: at most one is
remembered, the rest are dropped. A slow purge is followed by at most one
immediate catch-up purge, never a burst.
*/
type Purger struct {
	group *errgroup.Group
	done  chan struct{}
	log   *slog.Logger
}

/*
StartPeriodicPurge starts a goroutine that calls target.PurgeNow every interval.

The first purge happens one full interval after the call, not immediately.
The loop stops when:
- ctx is cancelled: Wait returns nil
- PurgeNow fails (the lock is poisoned): the error is logged and Wait returns it.
  The loop never retries against a store it can no longer trust.
*/
func StartPeriodicPurge(ctx context.Context, target Purgeable, interval time.Duration, opts ...Option) (*Purger, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("start periodic purge: %w: %s", ErrInvalidInterval, interval)
	}

	o := buildOptions(opts)
	if o.clock == nil {
		o.clock = clockwork.NewRealClock()
	}
	if o.log == nil {
		o.log = slog.Default()
	}

	// The ticker exists before we return, so the first tick is exactly one
	// interval after this call regardless of when the goroutine is scheduled.
	ticker := o.clock.NewTicker(interval)

	p := &Purger{
		done: make(chan struct{}),
		log:  o.log.With(slog.Duration("interval", interval)),
	}

	var gctx context.Context
	p.group, gctx = errgroup.WithContext(ctx)
	p.group.Go(func() error {
		defer close(p.done)
		defer ticker.Stop()
		return p.run(gctx, target, ticker)
	})

	p.log.Debug("periodic purge started")
	return p, nil
}

func (p *Purger) run(ctx context.Context, target Purgeable, ticker clockwork.Ticker) error {
	for {
		select {
		case <-ctx.Done():
			p.log.Debug("periodic purge stopped", slog.Any("reason", context.Cause(ctx)))
			return nil
		case <-ticker.Chan():
			if _, err := target.PurgeNow(); err != nil {
				p.log.Error("periodic purge aborted", slog.Any("error", err))
				return fmt.Errorf("periodic purge: %w", err)
			}
		}
	}
}

// Done is closed once the purge loop has exited.
func (p *Purger) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the purge loop exits and returns why it stopped.
// A nil error means ctx was cancelled.
func (p *Purger) Wait() error {
	return p.group.Wait()
}
