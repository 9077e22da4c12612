// FILE: src/internal/retry/retry.go
package retry

import (
	"context"
	"errors"
	"time"
)

const (
	// floorBackoff is the minimum sleep between attempts, regardless of
	// how small initialBackoff is configured.
	floorBackoff = 50 * time.Millisecond
	// capBackoff bounds exponential growth so a misconfigured
	// multiplier can't produce hour-long sleeps.
	capBackoff = 30 * time.Second
)

// Config controls RetryController's backoff schedule.
type Config struct {
	MaxRetries       int
	InitialBackoff   time.Duration
	BackoffMultiplier float64
}

// StatusCoder is implemented by upload errors that carry an HTTP status
// code, letting NonRetriable classify 4xx failures as terminal without
// the RetryController needing to know about HTTP at all.
type StatusCoder interface {
	StatusCode() int
}

// NonRetriable reports whether err should short-circuit the retry loop
// instead of being retried up to MaxRetries: true for errors carrying a
// 4xx status other than 429 (Too Many Requests). Do applies it after
// every failed attempt; there is no setting that turns it off, so such
// errors are never retried. Errors without a status code are always
// retried.
func NonRetriable(err error) bool {
	var sc StatusCoder
	if !errors.As(err, &sc) {
		return false
	}
	code := sc.StatusCode()
	return code >= 400 && code < 500 && code != 429
}

// Do wraps fn with exponential backoff bounded by cfg.MaxRetries. attempt
// runs at least once (attempt 0) regardless of MaxRetries. Sleep before
// attempt n (n>=1) is min(capBackoff, max(floorBackoff,
// InitialBackoff * BackoffMultiplier^(n-1))). Do returns the last error
// once attempts are exhausted or NonRetriable(err) reports true.
func Do(ctx context.Context, cfg Config, fn func(ctx context.Context) error) error {
	backoff := cfg.InitialBackoff

	var lastErr error
	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			wait := backoff
			if wait < floorBackoff {
				wait = floorBackoff
			}
			if wait > capBackoff {
				wait = capBackoff
			}
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return ctx.Err()
			}
			backoff = time.Duration(float64(backoff) * cfg.BackoffMultiplier)
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if NonRetriable(lastErr) {
			return lastErr
		}
	}
	return lastErr
}
