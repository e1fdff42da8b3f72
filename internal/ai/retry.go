package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/CodexForgeBR/mock-interviewer/internal/ratelimit"
)

// RetryConfig configures exponential backoff retry behavior.
type RetryConfig struct {
	MaxRetries        int
	BaseDelay         time.Duration // default 1s
	MaxRateLimitWaits int           // default 1
	// MaxRateLimitWait caps a single wait for a reset; longer resets fail fast.
	MaxRateLimitWait time.Duration // default 30s
	OnRetry          func(attempt int, delay time.Duration)
	OnRateLimit      func(info *ratelimit.RateLimitInfo)
}

// RetryWithBackoff retries fn with exponential backoff.
// Delays: BaseDelay, BaseDelay*2, BaseDelay*4, ...
// Rate limit errors wait for the reported reset and retry without consuming an attempt.
// Errors wrapping ErrDisabled are returned immediately.
func RetryWithBackoff(ctx context.Context, cfg RetryConfig, fn func() error) error {
	if cfg.BaseDelay == 0 {
		cfg.BaseDelay = time.Second
	}
	if cfg.MaxRateLimitWaits == 0 {
		cfg.MaxRateLimitWaits = 1
	}
	if cfg.MaxRateLimitWait == 0 {
		cfg.MaxRateLimitWait = 30 * time.Second
	}

	attempt := 0
	delay := cfg.BaseDelay
	rateLimitWaits := 0

	for {
		err := fn()
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrDisabled) {
			return err
		}

		var rateLimitErr *RateLimitError
		if errors.As(err, &rateLimitErr) {
			rateLimitWaits++
			if rateLimitWaits > cfg.MaxRateLimitWaits {
				return fmt.Errorf("max rate limit waits (%d) exceeded: %w", cfg.MaxRateLimitWaits, err)
			}
			if cfg.OnRateLimit != nil {
				cfg.OnRateLimit(rateLimitErr.Info)
			}

			if info := rateLimitErr.Info; info != nil && info.Parseable {
				if time.Until(time.Unix(info.ResetEpoch, 0)) > cfg.MaxRateLimitWait {
					return fmt.Errorf("rate limit resets after %s: %w", cfg.MaxRateLimitWait, err)
				}
				if waitErr := ratelimit.WaitForReset(ctx, info); waitErr != nil {
					return fmt.Errorf("rate limit wait cancelled: %w", waitErr)
				}
				continue
			}
			// Unknown reset time: use the normal backoff.
		}

		if attempt >= cfg.MaxRetries {
			return fmt.Errorf("max retries (%d) exceeded: %w", cfg.MaxRetries, err)
		}

		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, delay)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}

		delay *= 2
		attempt++
	}
}

// RetryCompleter wraps any Completer with RetryWithBackoff retry logic.
type RetryCompleter struct {
	Inner    Completer
	RetryCfg RetryConfig
}

// Complete delegates to the inner completer, retrying on failure.
func (r *RetryCompleter) Complete(ctx context.Context, req Request) (string, error) {
	var out string
	err := RetryWithBackoff(ctx, r.RetryCfg, func() error {
		var err error
		out, err = r.Inner.Complete(ctx, req)
		return err
	})
	if err != nil {
		return "", err
	}
	return out, nil
}
