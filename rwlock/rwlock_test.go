package rwlock

import (
	"errors"
	"runtime"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReadersShareTheLock(t *testing.T) {
	var l RWLock

	// Both readers must be inside at the same time, or neither returns.
	var inside sync.WaitGroup
	inside.Add(2)

	done := make(chan struct{})
	for i := 0; i < 2; i++ {
		go func() {
			_ = l.Read(func() {
				inside.Done()
				inside.Wait()
			})
			done <- struct{}{}
		}()
	}

	for i := 0; i < 2; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("readers did not run concurrently")
		}
	}
}

func TestWriteIsExclusive(t *testing.T) {
	var l RWLock
	var active, maxActive atomic.Int32

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				assert.NoError(t, l.Write(func() {
					n := active.Add(1)
					if n > maxActive.Load() {
						maxActive.Store(n)
					}
					active.Add(-1)
				}))
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxActive.Load())
}

func TestWriterNotStarvedByReaders(t *testing.T) {
	var l RWLock
	stop := make(chan struct{})
	var wg sync.WaitGroup

	// Overlapping readers: there is never a moment with zero readers unless
	// the lock holds new ones back for the waiting writer.
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				_ = l.Read(func() { time.Sleep(time.Millisecond) })
			}
		}()
	}
	defer func() {
		close(stop)
		wg.Wait()
	}()

	// Let the readers pile up first.
	time.Sleep(20 * time.Millisecond)

	acquired := make(chan struct{})
	go func() {
		_ = l.Write(func() {})
		close(acquired)
	}()

	select {
	case <-acquired:
	case <-time.After(2 * time.Second):
		t.Fatal("writer starved by continuous readers")
	}
}

func TestPanicInWritePoisons(t *testing.T) {
	var l RWLock

	assert.PanicsWithValue(t, "boom", func() {
		_ = l.Write(func() { panic("boom") })
	})
	assert.True(t, l.Poisoned())

	ran := false
	err := l.Write(func() { ran = true })
	assert.ErrorIs(t, err, ErrPoisoned)
	err = l.Read(func() { ran = true })
	assert.ErrorIs(t, err, ErrPoisoned)
	assert.False(t, ran, "no section may run on a poisoned lock")
}

func explode() { panic(errWriterCrashed) }

var errWriterCrashed = errors.New("writer crashed")

func TestPanicInWriteKeepsOriginalStack(t *testing.T) {
	var l RWLock

	var (
		recovered any
		stack     string
	)
	func() {
		defer func() {
			recovered = recover()
			stack = string(debug.Stack())
		}()
		_ = l.Write(explode)
	}()

	assert.Same(t, errWriterCrashed, recovered)
	assert.Contains(t, stack, "rwlock.explode", "panic site must still be on the stack")
	assert.True(t, l.Poisoned())
}

// runtime.Goexit unwinds without a panic and still leaves the section unfinished.
func TestGoexitInWritePoisons(t *testing.T) {
	var l RWLock

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = l.Write(runtime.Goexit)
	}()
	<-done

	assert.True(t, l.Poisoned())
	assert.ErrorIs(t, l.Write(func() {}), ErrPoisoned)
}

func TestPanicInReadDoesNotPoison(t *testing.T) {
	var l RWLock

	assert.Panics(t, func() {
		_ = l.Read(func() { panic("reader") })
	})
	assert.False(t, l.Poisoned())
	assert.NoError(t, l.Write(func() {}))
}
