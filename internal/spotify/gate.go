package spotify

import (
	"context"
	"sync"
	"time"

	"github.com/mhoffer1/spotify-release-hub/internal/shared"
)

// admissionMargin pads the computed wait so the oldest admission has
// actually left the window when the caller rechecks.
const admissionMargin = 50 * time.Millisecond

// RateGate is admission control for outbound requests: at most ceiling
// admissions per rolling window, across all concurrent operations.
//
// Admit suspends cooperatively; FIFO order among waiters is not guaranteed,
// only that the ceiling-per-window invariant holds collectively.
type RateGate struct {
	mu         sync.Mutex
	admissions []time.Time
	ceiling    int
	window     time.Duration
	clock      shared.Clock
}

// NewRateGate creates a gate admitting up to ceiling requests per window.
func NewRateGate(ceiling int, window time.Duration, clock shared.Clock) *RateGate {
	if clock == nil {
		clock = shared.SystemClock{}
	}
	return &RateGate{
		ceiling: ceiling,
		window:  window,
		clock:   clock,
	}
}

// Admit blocks until one more outbound request may be issued, then records
// the admission. Returns early with ctx.Err() if the context is cancelled
// while waiting.
func (g *RateGate) Admit(ctx context.Context) error {
	for {
		wait, ok := g.tryAdmit()
		if ok {
			return nil
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// tryAdmit records an admission if the window has room. Otherwise it returns
// the wait until the oldest admission falls outside the window.
func (g *RateGate) tryAdmit() (time.Duration, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.clock.Now()
	cutoff := now.Add(-g.window)

	kept := g.admissions[:0]
	for _, at := range g.admissions {
		if at.After(cutoff) {
			kept = append(kept, at)
		}
	}
	g.admissions = kept

	if len(g.admissions) < g.ceiling {
		g.admissions = append(g.admissions, now)
		return 0, true
	}

	wait := g.admissions[0].Add(g.window).Sub(now) + admissionMargin
	if wait < admissionMargin {
		wait = admissionMargin
	}
	return wait, false
}

// InFlight reports how many admissions currently sit inside the window.
func (g *RateGate) InFlight() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	cutoff := g.clock.Now().Add(-g.window)
	n := 0
	for _, at := range g.admissions {
		if at.After(cutoff) {
			n++
		}
	}
	return n
}
