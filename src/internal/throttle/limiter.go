// FILE: src/internal/throttle/limiter.go
package throttle

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter caps the rate of upload attempts (including retries), giving
// operators a way to bound outbound bandwidth to the object store
// independent of the RetryController's backoff schedule. It is the
// optional "outbound throttle" domain-stack addition (§11.6); disabled
// by default.
type Limiter struct {
	rl *rate.Limiter
}

// New returns a Limiter allowing up to ratePerSecond upload attempts per
// second, with burst capacity of ratePerSecond rounded down plus one.
// A non-positive rate returns a nil (no-op) Limiter.
func New(ratePerSecond float64) *Limiter {
	if ratePerSecond <= 0 {
		return nil
	}
	return &Limiter{rl: rate.NewLimiter(rate.Limit(ratePerSecond), int(ratePerSecond)+1)}
}

// Wait blocks until an upload attempt is permitted or ctx is cancelled.
// A nil Limiter is a valid no-op, so the aggregator can call Wait
// unconditionally when throttling is disabled.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil {
		return nil
	}
	return l.rl.Wait(ctx)
}
