package spotify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net"
	"net/http"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mhoffer1/spotify-release-hub/internal/shared"
)

const (
	defaultRetryAfter = 5 * time.Second
	maxAdaptiveDelay  = 10 * time.Second
	transientBackoff  = 2 * time.Second
	genericBackoff    = time.Second
)

// StatusError is a non-2xx response not otherwise classified.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("API error: status %d", e.Status)
	}
	return fmt.Sprintf("API error: status %d: %s", e.Status, e.Message)
}

// RateLimitError is a 429 response carrying the server's retry-after hint in
// seconds. Zero means no hint was supplied.
type RateLimitError struct {
	RetryAfter float64
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited, retry after %.0fs", e.RetryAfter)
}

// Executor wraps a single outbound call with admission control, an adaptive
// inter-call delay, retry-after-aware 429 handling and exponential backoff
// for transient network failures, up to a bounded attempt budget.
//
// 429 handling is a soft retry layered under the attempt loop: the
// externally dictated wait does not consume the attempt budget, but a
// server-requested wait beyond maxWait fails the operation immediately.
type Executor struct {
	gate        *RateGate
	logger      *log.Logger
	maxAttempts int
	baseDelay   time.Duration
	maxWait     time.Duration

	mu    sync.Mutex
	delay time.Duration
}

// NewExecutor creates an executor issuing calls through the given gate.
func NewExecutor(gate *RateGate, maxAttempts int, baseDelay, maxWait time.Duration, logger *log.Logger) *Executor {
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	return &Executor{
		gate:        gate,
		logger:      logger,
		maxAttempts: maxAttempts,
		baseDelay:   baseDelay,
		maxWait:     maxWait,
		delay:       baseDelay,
	}
}

// Do executes call until it succeeds, the attempt budget is exhausted, or a
// non-retryable condition occurs. The call must return a *RateLimitError for
// 429 responses so the server's wait hint can be honored.
func (e *Executor) Do(ctx context.Context, op string, call func(context.Context) error) error {
	attempt := 0
	for {
		if err := e.gate.Admit(ctx); err != nil {
			return err
		}
		if err := e.pause(ctx, e.nextDelay()); err != nil {
			return err
		}

		err := call(ctx)
		if err == nil {
			e.speedUp()
			return nil
		}

		var rl *RateLimitError
		if errors.As(err, &rl) {
			hint := time.Duration(rl.RetryAfter * float64(time.Second))
			if hint <= 0 {
				hint = defaultRetryAfter
			}
			if hint > e.maxWait {
				return fmt.Errorf("%w: server requested %s wait for %s", shared.ErrRateLimited, hint, op)
			}
			e.slowDown()
			e.logger.Warn("rate limited", "op", op, "wait", hint)
			if err := e.pause(ctx, hint+time.Second); err != nil {
				return err
			}
			continue
		}

		// No amount of retrying fixes missing credentials or bad input.
		if errors.Is(err, shared.ErrNotAuthenticated) || errors.Is(err, shared.ErrInvalidInput) {
			return err
		}
		var se *StatusError
		if errors.As(err, &se) && se.Status == http.StatusUnauthorized {
			return err
		}

		attempt++
		if isTransient(err) {
			if attempt >= e.maxAttempts {
				return fmt.Errorf("%w: %s failed after %d attempts: %v", shared.ErrNetworkTransient, op, attempt, err)
			}
			backoff := time.Duration(1<<attempt) * transientBackoff
			e.logger.Warn("transient failure", "op", op, "attempt", attempt, "backoff", backoff)
			if err := e.pause(ctx, backoff); err != nil {
				return err
			}
			continue
		}

		if attempt >= e.maxAttempts {
			return err
		}
		backoff := time.Duration(1<<attempt) * genericBackoff
		e.logger.Warn("call failed", "op", op, "attempt", attempt, "backoff", backoff)
		if err := e.pause(ctx, backoff); err != nil {
			return err
		}
	}
}

// nextDelay returns the current adaptive delay plus up to 30% jitter.
func (e *Executor) nextDelay() time.Duration {
	e.mu.Lock()
	delay := e.delay
	e.mu.Unlock()

	if delay <= 0 {
		return 0
	}
	return delay + rand.N(delay*3/10+1)
}

// speedUp decays the adaptive delay toward the floor after a success.
func (e *Executor) speedUp() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.delay = e.delay * 9 / 10
	if e.delay < e.baseDelay {
		e.delay = e.baseDelay
	}
}

// slowDown grows the adaptive delay after a 429, clamped at a ceiling.
func (e *Executor) slowDown() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.delay = e.delay * 3 / 2
	if e.delay > maxAdaptiveDelay {
		e.delay = maxAdaptiveDelay
	}
}

func (e *Executor) pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// isTransient reports whether an error looks like a recoverable network
// failure: timeouts, connection resets, aborted transfers.
func isTransient(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.ECONNABORTED) || errors.Is(err, syscall.EPIPE) {
		return true
	}
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, hint := range []string{"connection reset", "connection aborted", "timeout", "timed out", "broken pipe"} {
		if strings.Contains(msg, hint) {
			return true
		}
	}
	return false
}
