package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWait_PastSlotReturnsImmediately(t *testing.T) {
	ticks := 0
	w := Waiter{Tick: func(time.Duration) { ticks++ }}

	start := time.Now()
	require.NoError(t, w.Wait(context.Background(), start.Add(-time.Hour)))
	assert.Less(t, time.Since(start), 100*time.Millisecond)
	assert.Zero(t, ticks)
}

func TestWait_ShortSlot(t *testing.T) {
	var ticks []time.Duration
	w := Waiter{Tick: func(d time.Duration) { ticks = append(ticks, d) }}

	start := time.Now()
	require.NoError(t, w.Wait(context.Background(), start.Add(300*time.Millisecond)))
	elapsed := time.Since(start)

	assert.GreaterOrEqual(t, elapsed, 250*time.Millisecond)
	assert.Less(t, elapsed, 1500*time.Millisecond)
	assert.NotEmpty(t, ticks)
}

func TestWait_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	err := Waiter{}.Wait(ctx, time.Now().Add(time.Hour))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}

func TestWait_UsesInjectedClock(t *testing.T) {
	// A clock already past the slot never waits, whatever the wall time says.
	slot := time.Now().Add(time.Hour)
	w := Waiter{Now: func() time.Time { return slot.Add(time.Second) }}
	require.NoError(t, w.Wait(context.Background(), slot))
}

func TestTickInterval(t *testing.T) {
	tests := []struct {
		remaining time.Duration
		want      time.Duration
	}{
		{2 * time.Hour, time.Minute},
		{time.Hour, 30 * time.Second},
		{11 * time.Minute, 30 * time.Second},
		{10 * time.Minute, 10 * time.Second},
		{2 * time.Minute, 10 * time.Second},
		{time.Minute, time.Second},
		{5 * time.Second, time.Second},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tickInterval(tt.remaining), tt.remaining.String())
	}
}
