package ai

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"

	"github.com/castlemilk/pfinance/automation/internal/logging"
)

// RetryConfig bounds how often and how slowly a generation call is retried.
// JitterFraction randomises each wait by up to that fraction either way.
type RetryConfig struct {
	MaxRetries     int
	InitialDelay   time.Duration
	MaxDelay       time.Duration
	BackoffFactor  float64
	JitterFraction float64
}

// DefaultRetryConfig allows two retries over roughly three seconds, which
// keeps a budget suggestion inside a normal request deadline.
var DefaultRetryConfig = RetryConfig{
	MaxRetries:     2,
	InitialDelay:   1 * time.Second,
	MaxDelay:       10 * time.Second,
	BackoffFactor:  2.0,
	JitterFraction: 0.2,
}

// backoff is the wait before retry number attempt (zero based).
func (c RetryConfig) backoff(attempt int) time.Duration {
	d := float64(c.InitialDelay) * math.Pow(c.BackoffFactor, float64(attempt))
	if c.MaxDelay > 0 {
		d = math.Min(d, float64(c.MaxDelay))
	}
	if c.JitterFraction > 0 {
		d += d * c.JitterFraction * (2*rand.Float64() - 1)
	}
	if d < 0 {
		return 0
	}
	return time.Duration(d)
}

// retryable reports whether err is worth another attempt. Only an *Error can
// opt out; anything else is assumed transient.
func retryable(err error) bool {
	var aiErr *Error
	if errors.As(err, &aiErr) {
		return aiErr.Retryable
	}
	return true
}

// WithRetry calls fn until it succeeds, returns a non-retryable error, the
// context ends, or MaxRetries retries have been spent. The last error wins.
func WithRetry[T any](ctx context.Context, cfg RetryConfig, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	for attempt := 0; ; attempt++ {
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		if !retryable(err) || attempt >= cfg.MaxRetries {
			return zero, err
		}

		wait := cfg.backoff(attempt)
		log := logging.FromContext(ctx)
		log.Debug().Str("component", "ai").Int("attempt", attempt+1).
			Dur("wait", wait).Err(err).Msg("retrying generation")

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}
}
