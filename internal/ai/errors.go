package ai

import (
	"fmt"

	"github.com/CodexForgeBR/mock-interviewer/internal/ratelimit"
)

// RateLimitError is returned when a backend reports that requests are being throttled.
type RateLimitError struct {
	Info          *ratelimit.RateLimitInfo
	UnderlyingErr error
}

func (e *RateLimitError) Error() string {
	if e.Info != nil && e.Info.Parseable {
		return fmt.Sprintf("rate limit detected (resets at %s)", e.Info.ResetHuman)
	}
	return "rate limit detected (reset time unknown)"
}

func (e *RateLimitError) Unwrap() error {
	return e.UnderlyingErr
}

// StatusError is a non-success HTTP response from a backend.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}
