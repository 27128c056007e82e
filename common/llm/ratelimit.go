package llm

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const defaultRateLimitBackoff = 60 * time.Second

// RateLimiter spaces outgoing generation calls and honours a backoff window
// after the provider answers 429. A nil *RateLimiter never blocks.
type RateLimiter struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	retryAt time.Time
	now     func() time.Time
}

// NewRateLimiter allows requestsPerMinute calls with a burst of a quarter of that.
// Returns nil when requestsPerMinute <= 0.
func NewRateLimiter(requestsPerMinute int) *RateLimiter {
	if requestsPerMinute <= 0 {
		return nil
	}
	burst := requestsPerMinute / 4
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), burst),
		now:     time.Now,
	}
}

// Wait blocks until a request can be made. While a backoff window is open it
// fails fast with a rate-limited error instead of sleeping, so the user sees
// the condition and decides when to retry.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if r == nil {
		return nil
	}

	r.mu.Lock()
	retryAt := r.retryAt
	now := r.now()
	r.mu.Unlock()

	if now.Before(retryAt) {
		return &Error{
			Kind:    KindRateLimited,
			Message: "client backoff active until " + retryAt.Format(time.RFC3339),
		}
	}

	return r.limiter.Wait(ctx)
}

// RecordRateLimited opens a backoff window. Zero uses the default of 60s.
func (r *RateLimiter) RecordRateLimited(retryAfter time.Duration) {
	if r == nil {
		return
	}
	if retryAfter <= 0 {
		retryAfter = defaultRateLimitBackoff
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.retryAt = r.now().Add(retryAfter)
}
