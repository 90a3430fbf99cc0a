package utils

import (
	"fmt"
	"time"
)

// RetryConfig drives the back-off loop around detail-page fetches.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	// MaxDelay caps the exponential growth; zero means no cap.
	MaxDelay time.Duration
	Logger   *Logger
}

// Do runs fn until it succeeds or MaxAttempts is exhausted, doubling the
// delay between attempts. The returned error wraps the last failure.
func (r *RetryConfig) Do(op string, fn func() error) error {
	attempts := r.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	delay := r.BaseDelay
	for attempt := 1; ; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if attempt >= attempts {
			break
		}

		r.Logger.Warn("[retry] %s attempt %d/%d failed: %v (next try in %v)",
			op, attempt, attempts, lastErr, delay)
		time.Sleep(delay)
		delay *= 2
		if r.MaxDelay > 0 && delay > r.MaxDelay {
			delay = r.MaxDelay
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", op, attempts, lastErr)
}
