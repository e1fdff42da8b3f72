package ratelimit

import (
	"context"
	"fmt"
	"time"
)

// WaitForReset blocks until the reset time in info, or until ctx is done.
func WaitForReset(ctx context.Context, info *RateLimitInfo) error {
	if info == nil || !info.Parseable {
		return fmt.Errorf("cannot wait: rate limit info is nil or not parseable")
	}

	remaining := time.Until(time.Unix(info.ResetEpoch, 0))
	if remaining <= 0 {
		return nil
	}

	timer := time.NewTimer(remaining)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
