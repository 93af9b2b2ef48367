package limiter

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// DynamicRateLimiter is a token bucket whose rate can be changed while
// callers are waiting on it.
type DynamicRateLimiter struct {
	limiter *rate.Limiter
}

// NewDynamicRateLimiter allows one event every interval with bursts of
// up to burst events. A non-positive interval disables limiting.
func NewDynamicRateLimiter(interval time.Duration, burst int) *DynamicRateLimiter {
	return &DynamicRateLimiter{
		limiter: rate.NewLimiter(every(interval), max(burst, 1)),
	}
}

// Wait blocks until an event is allowed or ctx is done.
func (drl *DynamicRateLimiter) Wait(ctx context.Context) error {
	return drl.limiter.Wait(ctx)
}

// Allow reports whether an event may happen now.
func (drl *DynamicRateLimiter) Allow() bool {
	return drl.limiter.Allow()
}

// Update changes the rate, e.g. after the remote side asked to slow down.
func (drl *DynamicRateLimiter) Update(interval time.Duration, burst int) {
	drl.limiter.SetLimit(every(interval))
	drl.limiter.SetBurst(max(burst, 1))
}

func every(interval time.Duration) rate.Limit {
	if interval <= 0 {
		return rate.Inf
	}
	return rate.Every(interval)
}
