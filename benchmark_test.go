package cache_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	cache "github.com/krisalay/ttl-cache"
)

func newBenchmarkCache(b *testing.B, keys int) *cache.TTLCache[string, int] {
	b.Helper()

	c := cache.New[string, int]()
	for i := 0; i < keys; i++ {
		if err := c.InsertWithTTL(fmt.Sprintf("key-%d", i), i, time.Hour); err != nil {
			b.Fatal(err)
		}
	}
	return c
}

//
// ================= SINGLE THREAD BENCH =================
//

func BenchmarkCacheGetHit(b *testing.B) {
	c := newBenchmarkCache(b, 1)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Get("key-0")
	}
}

func BenchmarkCacheGetMiss(b *testing.B) {
	c := newBenchmarkCache(b, 0)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Get("missing")
	}
}

//
// ================= PARALLEL BENCH =================
//

func BenchmarkCacheParallelGet(b *testing.B) {
	c := newBenchmarkCache(b, 1000)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			c.Get("key-42")
		}
	})
}

//
// ================= WRITE BENCH =================
//

func BenchmarkCacheInsert(b *testing.B) {
	c := newBenchmarkCache(b, 0)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.InsertWithTTL(fmt.Sprintf("key-%d", i), i, time.Hour)
	}
}

//
// ================= PURGE BENCH =================
//

// BenchmarkCachePurge measures one full O(n) sweep over 10k live entries.
func BenchmarkCachePurge(b *testing.B) {
	c := newBenchmarkCache(b, 10000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.PurgeNow()
	}
}

//
// ================= HIGH CONCURRENCY TEST =================
//

func BenchmarkCacheHighConcurrency(b *testing.B) {
	c := newBenchmarkCache(b, 10000)

	keys := make([]string, 10000)
	for i := range keys {
		keys[i] = fmt.Sprintf("key-%d", i)
	}

	b.ResetTimer()

	wg := sync.WaitGroup{}
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < b.N/100; j++ {
				c.Get(keys[j%len(keys)])
			}
		}(i)
	}
	wg.Wait()
}
