package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	cache "github.com/krisalay/ttl-cache"
)

// ================= BENCHMARK =================

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	fmt.Println("\n================ CACHE LOAD BENCHMARK =================")

	// ---------------- Cache Config ----------------
	const (
		preloadKeys   = 100000
		readers       = 200
		opsPerReader  = 5000
		writes        = 2000
		purgeInterval = 10 * time.Millisecond
	)

	fmt.Println("CONFIG")
	fmt.Println("---------------------------------")
	fmt.Println("Preload Keys  :", preloadKeys)
	fmt.Println("Readers       :", readers)
	fmt.Println("Ops/Reader    :", opsPerReader)
	fmt.Println("Writes        :", writes)
	fmt.Println("Purge Interval:", purgeInterval)
	fmt.Println("---------------------------------")

	c := cache.New[string, int](cache.WithLogger(log))

	// ---------------- Preload Cache ----------------
	// Half the keys are already expired so every purge has work to do.
	fmt.Println("Preloading cache...")
	now := time.Now()
	for i := 0; i < preloadKeys; i++ {
		expiresAt := now.Add(time.Hour)
		if i%2 == 0 {
			expiresAt = now
		}
		if err := c.Insert(fmt.Sprintf("key-%d", i), i, expiresAt); err != nil {
			log.Error("preload failed", slog.Any("error", err))
			os.Exit(1)
		}
	}
	fmt.Println("Preload complete.")

	purger, err := cache.StartPeriodicPurge(ctx, c, purgeInterval, cache.WithLogger(log))
	if err != nil {
		log.Error("cannot start purge", slog.Any("error", err))
		os.Exit(1)
	}

	// ---------------- Load Test ----------------
	fmt.Println("Running concurrency benchmark...")

	start := time.Now()

	wg := sync.WaitGroup{}
	wg.Add(readers)

	for i := 0; i < readers; i++ {
		go func(id int) {
			defer wg.Done()
			for j := 0; j < opsPerReader; j++ {
				c.Get(fmt.Sprintf("key-%d", j%preloadKeys))
			}
		}(i)
	}

	// A single writer competing with all readers. With a write-preferring
	// lock its worst-case wait stays bounded.
	var maxWrite atomic.Int64
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for i := 0; i < writes; i++ {
			t := time.Now()
			if err := c.InsertWithTTL(fmt.Sprintf("w-%d", i), i, time.Second); err != nil {
				log.Error("write failed", slog.Int("write", i), slog.Any("error", err))
				return
			}
			if d := int64(time.Since(t)); d > maxWrite.Load() {
				maxWrite.Store(d)
			}
		}
	}()

	wg.Wait()
	<-writerDone

	duration := time.Since(start)
	totalOps := readers*opsPerReader + writes

	cancel()
	if err := purger.Wait(); err != nil {
		log.Error("purge loop failed", slog.Any("error", err))
	}
	remaining, _ := c.Len()

	fmt.Println("\n================ RESULTS =================")
	fmt.Printf("Total Operations : %d\n", totalOps)
	fmt.Printf("Total Time       : %v\n", duration)
	fmt.Printf("Throughput       : %.2f ops/sec\n", float64(totalOps)/duration.Seconds())
	fmt.Printf("Max Write Wait   : %v\n", time.Duration(maxWrite.Load()))
	fmt.Printf("Resident Entries : %d\n", remaining)
	fmt.Println("=========================================")
}
