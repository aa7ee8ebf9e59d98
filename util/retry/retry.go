// Package retry re-runs short transactional units that lost a lock race.
package retry

import (
	"context"
	"errors"
	"math/rand"
	"time"
)

const (
	defaultMaxAttempts  = 6
	defaultBaseDelay    = 10 * time.Millisecond
	defaultJitterFactor = 0.3
)

var (
	// ErrInvalidMaxAttempts is returned when max attempts are not positive.
	ErrInvalidMaxAttempts = errors.New("max attempts must be positive")

	// ErrNegativeBaseDelay is returned when the base delay is negative.
	ErrNegativeBaseDelay = errors.New("base delay must not be negative")

	// ErrInvalidJitterFactor is returned when the jitter factor is not between 0.0 and 1.0.
	ErrInvalidJitterFactor = errors.New("jitter factor must be between 0.0 and 1.0")
)

// Func is one attempt.
type Func func(ctx context.Context) error

type config struct {
	maxAttempts  int
	baseDelay    time.Duration
	jitterFactor float64
	retryable    func(error) bool
}

// Result describes what happened across attempts.
type Result struct {
	Attempts   int
	TotalDelay time.Duration
}

// Do runs fn with exponential backoff: 0, base, 2*base, 4*base ... plus jitter.
// Only errors accepted by the retryable predicate are retried; everything else
// fails fast. Without WithRetryable nothing is retried.
func Do(ctx context.Context, fn Func, options ...Option) (Result, error) {
	cfg := &config{
		maxAttempts:  defaultMaxAttempts,
		baseDelay:    defaultBaseDelay,
		jitterFactor: defaultJitterFactor,
		retryable:    func(error) bool { return false },
	}
	for _, option := range options {
		if err := option(cfg); err != nil {
			return Result{}, err
		}
	}

	var res Result
	var lastErr error

	for attempt := 0; attempt < cfg.maxAttempts; attempt++ {
		if attempt > 0 {
			delay := cfg.baseDelay * time.Duration(1<<(attempt-1))
			jitter := rand.Float64() * float64(delay) * cfg.jitterFactor //nolint:gosec // jitter only
			backoff := delay + time.Duration(jitter)

			select {
			case <-time.After(backoff):
				res.TotalDelay += backoff
			case <-ctx.Done():
				return res, ctx.Err()
			}
		}

		res.Attempts++
		lastErr = fn(ctx)
		if lastErr == nil {
			return res, nil
		}
		if !cfg.retryable(lastErr) {
			return res, lastErr
		}
	}

	return res, lastErr
}

// Option configures Do using the functional options pattern.
type Option func(*config) error

// WithMaxAttempts sets the maximum number of attempts, the first one included.
func WithMaxAttempts(attempts int) Option {
	return func(c *config) error {
		if attempts <= 0 {
			return ErrInvalidMaxAttempts
		}
		c.maxAttempts = attempts
		return nil
	}
}

// WithBaseDelay sets the delay before the first retry.
func WithBaseDelay(d time.Duration) Option {
	return func(c *config) error {
		if d < 0 {
			return ErrNegativeBaseDelay
		}
		c.baseDelay = d
		return nil
	}
}

// WithJitterFactor sets the random extra delay as a fraction of each backoff step.
func WithJitterFactor(f float64) Option {
	return func(c *config) error {
		if f < 0 || f > 1 {
			return ErrInvalidJitterFactor
		}
		c.jitterFactor = f
		return nil
	}
}

// WithRetryable sets the predicate deciding which errors are worth another attempt.
func WithRetryable(fn func(error) bool) Option {
	return func(c *config) error {
		c.retryable = fn
		return nil
	}
}
