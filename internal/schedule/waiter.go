package schedule

import (
	"context"
	"time"
)

// Waiter blocks until an interview slot opens. Tick is called before the
// first wait and after every interval with the time still remaining.
type Waiter struct {
	Now  func() time.Time
	Tick func(remaining time.Duration)
}

// Wait returns nil once slot is reached, immediately if it already has,
// or the context error if ctx ends first.
func (w Waiter) Wait(ctx context.Context, slot time.Time) error {
	now := w.Now
	if now == nil {
		now = time.Now
	}

	remaining := slot.Sub(now())
	for remaining > 0 {
		if w.Tick != nil {
			w.Tick(remaining.Round(time.Second))
		}
		timer := time.NewTimer(min(tickInterval(remaining), remaining))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		remaining = slot.Sub(now())
	}
	return nil
}

// tickInterval spaces countdown updates further apart the longer the wait.
func tickInterval(remaining time.Duration) time.Duration {
	switch {
	case remaining > time.Hour:
		return time.Minute
	case remaining > 10*time.Minute:
		return 30 * time.Second
	case remaining > time.Minute:
		return 10 * time.Second
	default:
		return time.Second
	}
}
