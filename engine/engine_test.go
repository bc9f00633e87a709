package engine

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
)

type countingMetrics struct {
	hits, misses, expired, purges, purged int
}

func (m *countingMetrics) Hit()        { m.hits++ }
func (m *countingMetrics) Miss()       { m.misses++ }
func (m *countingMetrics) Expire()     { m.expired++ }
func (m *countingMetrics) Purge(n int) { m.purges++; m.purged += n }

func TestNewCacheEngineDefaults(t *testing.T) {
	e := NewCacheEngine(nil, nil, nil)

	assert.NotNil(t, e.Clock)
	assert.NotNil(t, e.Metrics)
	assert.NotNil(t, e.Log)
	assert.WithinDuration(t, time.Now(), e.Now(), time.Minute)
}

func TestOnLookup(t *testing.T) {
	clock := clockwork.NewFakeClock()
	m := &countingMetrics{}
	e := NewCacheEngine(clock, m, nil)
	now := e.Now()

	assert.False(t, e.OnLookup(false, time.Time{}, now))
	assert.Equal(t, 1, m.misses)

	assert.True(t, e.OnLookup(true, now.Add(time.Second), now))
	assert.Equal(t, 1, m.hits)

	assert.False(t, e.OnLookup(true, now, now), "expiry equal to now is expired")
	assert.Equal(t, 1, m.expired)
	assert.Equal(t, 2, m.misses)
}

func TestOnPurge(t *testing.T) {
	m := &countingMetrics{}
	e := NewCacheEngine(clockwork.NewFakeClock(), m, nil)

	e.OnPurge(3, e.Now())
	e.OnPurge(0, e.Now())

	assert.Equal(t, 2, m.purges)
	assert.Equal(t, 3, m.purged)
}
