package types

// This file defines how the cache reports what it is doing.

/*
Metrics is an interface that defines what the cache wants to measure.
Each method represents an event in the cache lifecycle. The cache will call these methods whenever something happens.
*/
type Metrics interface {

	// Hit is called when a lookup returns a live value.
	Hit()

	// Miss is called when a lookup finds nothing for the key, or only an expired entry.
	Miss()

	// Expire is called when a lookup observes an entry past its expiry.
	// The entry stays resident until the next purge, so Expire is always followed by Miss.
	Expire()

	// Purge is called after every purge sweep with the number of entries it removed.
	Purge(removed int)
}

/*
NoopMetrics is a "do nothing" implementation of Metrics.

If someone does not care about metrics,
we still want the cache to work without:
- nil pointer checks everywhere
- if metrics != nil conditions
*/
type NoopMetrics struct{}

func (NoopMetrics) Hit()      {}
func (NoopMetrics) Miss()     {}
func (NoopMetrics) Expire()   {}
func (NoopMetrics) Purge(int) {}
