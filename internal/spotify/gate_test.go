package spotify

import (
	"context"
	"sync"
	"testing"
	"time"
)

// fakeClock is a manually advanced clock shared by the package's tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestRateGate(t *testing.T) {
	t.Run("admits up to ceiling without waiting", func(t *testing.T) {
		clock := newFakeClock()
		gate := NewRateGate(3, 30*time.Second, clock)

		for i := 0; i < 3; i++ {
			if err := gate.Admit(context.Background()); err != nil {
				t.Fatalf("Admit() %d error = %v", i+1, err)
			}
		}

		if got := gate.InFlight(); got != 3 {
			t.Errorf("InFlight() = %d, want 3", got)
		}
	})

	t.Run("computes wait until the oldest admission leaves the window", func(t *testing.T) {
		clock := newFakeClock()
		gate := NewRateGate(2, 30*time.Second, clock)

		gate.Admit(context.Background())
		clock.Advance(10 * time.Second)
		gate.Admit(context.Background())

		wait, ok := gate.tryAdmit()
		if ok {
			t.Fatal("tryAdmit() should not admit past the ceiling")
		}

		// Oldest admission is 10s old; it leaves the window in 20s.
		want := 20*time.Second + admissionMargin
		if wait != want {
			t.Errorf("tryAdmit() wait = %v, want %v", wait, want)
		}
	})

	t.Run("admissions fall out of the window", func(t *testing.T) {
		clock := newFakeClock()
		gate := NewRateGate(2, 30*time.Second, clock)

		gate.Admit(context.Background())
		gate.Admit(context.Background())

		clock.Advance(31 * time.Second)

		if got := gate.InFlight(); got != 0 {
			t.Errorf("InFlight() after window = %d, want 0", got)
		}
		if err := gate.Admit(context.Background()); err != nil {
			t.Errorf("Admit() after window error = %v", err)
		}
	})

	t.Run("cancelled context unblocks a waiter", func(t *testing.T) {
		clock := newFakeClock()
		gate := NewRateGate(1, time.Minute, clock)
		gate.Admit(context.Background())

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() {
			done <- gate.Admit(ctx)
		}()
		cancel()

		select {
		case err := <-done:
			if err != context.Canceled {
				t.Errorf("Admit() error = %v, want context.Canceled", err)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("Admit() did not return after cancel")
		}
	})

	t.Run("ceiling holds across concurrent admitters", func(t *testing.T) {
		clock := newFakeClock()
		gate := NewRateGate(10, time.Minute, clock)

		var wg sync.WaitGroup
		admitted := make(chan struct{}, 10)
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := gate.Admit(context.Background()); err == nil {
					admitted <- struct{}{}
				}
			}()
		}
		wg.Wait()

		if len(admitted) != 10 {
			t.Fatalf("expected 10 admissions, got %d", len(admitted))
		}
		if _, ok := gate.tryAdmit(); ok {
			t.Error("tryAdmit() should refuse the 11th admission inside the window")
		}
	})
}
