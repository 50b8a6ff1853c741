// Package reliability wraps calls to external collaborators with retries and timeouts.
package reliability

import (
	"context"
	"math"
	"time"

	"github.com/rs/zerolog"
)

// RetryConfig configures exponential backoff
type RetryConfig struct {
	MaxAttempts  int           // Total attempts including the first
	InitialDelay time.Duration // Delay before the second attempt
	MaxDelay     time.Duration // Upper bound on any single delay
	Multiplier   float64       // Backoff growth factor
}

// DefaultRetryConfig retries twice with a short backoff, suitable for
// interactive collaborator calls: 200ms, 400ms.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:  3,
		InitialDelay: 200 * time.Millisecond,
		MaxDelay:     2 * time.Second,
		Multiplier:   2.0,
	}
}

// RetryResult reports how a retried operation went
type RetryResult struct {
	LastError     error
	Attempts      int
	TotalDuration time.Duration
	Success       bool
}

// RetryFunc is one attempt of a retried operation
type RetryFunc func(ctx context.Context, attempt int) error

// WithExponentialBackoff runs fn until it succeeds, attempts run out or ctx is done
func WithExponentialBackoff(ctx context.Context, cfg RetryConfig, log zerolog.Logger, fn RetryFunc) RetryResult {
	start := time.Now()
	result := RetryResult{}

	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		result.Attempts = attempt

		err := fn(ctx, attempt)
		if err == nil {
			result.Success = true
			result.LastError = nil
			result.TotalDuration = time.Since(start)
			if attempt > 1 {
				log.Info().Int("attempts", attempt).Dur("duration", result.TotalDuration).Msg("Operation succeeded after retry")
			}
			return result
		}
		result.LastError = err

		if attempt == cfg.MaxAttempts {
			log.Warn().Err(err).Int("attempts", attempt).Msg("Operation failed after max retry attempts")
			break
		}
		if ctx.Err() != nil {
			result.LastError = ctx.Err()
			break
		}

		delay := backoffDelay(cfg, attempt)
		log.Debug().Err(err).Int("attempt", attempt).Dur("delay", delay).Msg("Operation failed, retrying")

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			result.LastError = ctx.Err()
			result.TotalDuration = time.Since(start)
			return result
		}
	}

	result.TotalDuration = time.Since(start)
	return result
}

// backoffDelay is InitialDelay × Multiplier^(attempt-1), capped at MaxDelay
func backoffDelay(cfg RetryConfig, attempt int) time.Duration {
	delay := float64(cfg.InitialDelay) * math.Pow(cfg.Multiplier, float64(attempt-1))
	if cfg.MaxDelay > 0 && delay > float64(cfg.MaxDelay) {
		delay = float64(cfg.MaxDelay)
	}
	return time.Duration(delay)
}
