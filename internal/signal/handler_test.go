package signal

import (
	"context"
	"os"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupSignalHandler_SignalCancelsContext(t *testing.T) {
	for _, sig := range []syscall.Signal{syscall.SIGINT, syscall.SIGTERM} {
		t.Run(sig.String(), func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			var called atomic.Bool
			stop := SetupSignalHandler(ctx, cancel, func() { called.Store(true) })
			defer stop()

			require.NoError(t, syscall.Kill(os.Getpid(), sig))

			select {
			case <-ctx.Done():
			case <-time.After(2 * time.Second):
				t.Fatal("context was not cancelled after signal")
			}
			assert.True(t, called.Load(), "onInterrupt runs before cancellation")
		})
	}
}

func TestSetupSignalHandler_NilCallback(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stop := SetupSignalHandler(ctx, cancel, nil)
	defer stop()

	require.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGINT))
	select {
	case <-ctx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("context was not cancelled after signal")
	}
}

func TestSetupSignalHandler_StopIsIdempotent(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var called atomic.Bool
	stop := SetupSignalHandler(ctx, cancel, func() { called.Store(true) })
	stop()
	stop()
	assert.False(t, called.Load())
	assert.NoError(t, ctx.Err())
}
