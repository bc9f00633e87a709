package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	cache "github.com/krisalay/ttl-cache"
	promadapter "github.com/krisalay/ttl-cache/adapters/prometheus"
	"github.com/krisalay/ttl-cache/types"
)

// ================= METRICS =================

func printMetrics(reg *prometheus.Registry) {
	fmt.Println("\n==================== METRICS ====================")

	mfs, err := reg.Gather()
	if err != nil {
		fmt.Println("METRICS → gather failed:", err)
		return
	}
	for _, mf := range mfs {
		for _, m := range mf.GetMetric() {
			fmt.Printf("%-32s: %.0f\n", mf.GetName(), m.GetCounter().GetValue())
		}
	}
}

// ================= MAIN =================

func main() {
	// Cancelled on SIGINT/SIGTERM; this is what stops the purge loop.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	fmt.Println("\n==================== SYSTEM BOOT ====================")

	// ---------------- System Config ----------------
	const purgeInterval = 500 * time.Millisecond
	fmt.Println("EXPIRY          : absolute instant, inclusive")
	fmt.Println("PURGE INTERVAL  :", purgeInterval)

	// ---------------- Metrics ----------------
	reg := prometheus.NewRegistry()

	// ---------------- Cache + Purge ----------------
	c := cache.New[string, string](
		cache.WithMetrics(promadapter.NewMetrics(reg)),
		cache.WithLogger(log),
	)

	purger, err := cache.StartPeriodicPurge(ctx, c, purgeInterval, cache.WithLogger(log))
	if err != nil {
		log.Error("cannot start purge", slog.Any("error", err))
		os.Exit(1)
	}

	// ====================================================
	fmt.Println("\n==================== 1) INSERT + GET ====================")
	start := time.Now()
	if err := c.Insert("k", "v", start.Add(time.Second)); err != nil {
		log.Error("insert failed", slog.String("key", "k"), slog.Any("error", err))
		os.Exit(1)
	}
	fmt.Println("CACHE  → INSERT k (expires in 1s)")

	time.Sleep(500 * time.Millisecond)
	v, ok, _ := c.Get("k")
	fmt.Printf("CACHE  → GET k after 0.5s = %q (found=%v)\n", v, ok)

	// ====================================================
	fmt.Println("\n==================== 2) EXPIRY ====================")
	time.Sleep(600 * time.Millisecond)
	v, ok, _ = c.Get("k")
	fmt.Printf("CACHE  → GET k after 1.1s = %q (found=%v)\n", v, ok)

	// ====================================================
	fmt.Println("\n==================== 3) STAGGERED EXPIRY + PURGE ====================")
	base := time.Now()
	for i := 0; i < 10; i++ {
		key := fmt.Sprintf("s%d", i)
		if err := c.Insert(key, "staggered", base.Add(time.Duration(i+1)*time.Second)); err != nil {
			log.Error("insert failed", slog.String("key", key), slog.Any("error", err))
			os.Exit(1)
		}
	}
	n, _ := c.Len()
	fmt.Println("CACHE  → INSERT 10 keys, 1s apart; LEN =", n)

	removed, _ := c.PurgeExpired(base.Add(5500 * time.Millisecond))
	n, _ = c.Len()
	fmt.Printf("CACHE  → PURGE at +5.5s removed %d; LEN = %d\n", removed, n)

	// ====================================================
	fmt.Println("\n==================== 4) BACKGROUND PURGE ====================")
	if err := c.Insert("bg", "short-lived", time.Now().Add(200*time.Millisecond)); err != nil {
		log.Error("insert failed", slog.String("key", "bg"), slog.Any("error", err))
		os.Exit(1)
	}
	n, _ = c.Len()
	fmt.Println("CACHE  → INSERT bg (expires in 200ms); LEN =", n)

	wait := time.NewTimer(2 * purgeInterval)
	defer wait.Stop()

	select {
	case <-ctx.Done():
		fmt.Println("SYSTEM → received shutdown signal")
		return
	case <-wait.C:
	}

	_, ok, _ = c.Get("bg")
	n, _ = c.Len()
	fmt.Printf("CACHE  → bg found=%v; LEN = %d (reclaimed without reads)\n", ok, n)

	// ====================================================
	fmt.Println("\n==================== 5) READ-THROUGH ====================")

	loader := types.LoaderFunc[string, string](func(_ context.Context, key string) (string, time.Time, error) {
		fmt.Println("LOADER → load:", key)
		time.Sleep(50 * time.Millisecond)
		return "loaded-" + key, time.Now().Add(time.Minute), nil
	})

	wg := sync.WaitGroup{}
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			val, _ := c.GetOrLoad(ctx, "user:42", loader)
			fmt.Printf("GOROUTINE-%d → GET user:42 = %v\n", id, val)
		}(i)
	}
	wg.Wait()

	// ====================================================
	fmt.Println("\n==================== 6) REMOVE ====================")
	prev, ok, _ := c.Remove("user:42")
	fmt.Printf("CACHE  → REMOVE user:42 = %q (found=%v)\n", prev, ok)

	// ====================================================
	printMetrics(reg)

	// ====================================================
	fmt.Println("\n==================== SHUTDOWN ====================")
	stop()
	if err := purger.Wait(); err != nil {
		log.Error("purge loop failed", slog.Any("error", err))
		os.Exit(1)
	}
	fmt.Println("SYSTEM → purge loop stopped cleanly")
}
