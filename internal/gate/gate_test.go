package gate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGate_OpenByDefault verifies a new gate does not block.
func TestGate_OpenByDefault(t *testing.T) {
	g := New()
	require.False(t, g.IsClosed())
	require.NoError(t, g.Wait(context.Background()))
}

// TestGate_CloseBlocksUntilOpen verifies waiters park until Open.
func TestGate_CloseBlocksUntilOpen(t *testing.T) {
	g := New()
	require.True(t, g.Close())
	require.False(t, g.Close(), "second close should be a no-op")

	done := make(chan error, 1)
	go func() { done <- g.Wait(context.Background()) }()

	select {
	case <-done:
		t.Fatalf("wait returned while gate was closed")
	case <-time.After(30 * time.Millisecond):
	}

	require.True(t, g.Open())
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatalf("wait did not return after open")
	}
	require.False(t, g.Open(), "second open should be a no-op")
}

// TestGate_WaitHonoursCancel verifies cancellation releases a parked waiter.
func TestGate_WaitHonoursCancel(t *testing.T) {
	g := New()
	g.Close()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- g.Wait(ctx) }()
	cancel()
	select {
	case err := <-done:
		assert.True(t, errors.Is(err, context.Canceled))
	case <-time.After(time.Second):
		t.Fatalf("wait ignored cancellation")
	}
}

// TestGate_Reusable verifies the gate can cycle many times.
func TestGate_Reusable(t *testing.T) {
	g := New()
	for i := 0; i < 5; i++ {
		g.Close()
		g.Open()
		require.NoError(t, g.Wait(context.Background()))
	}
}

// TestSleep_AbortsOnCancel verifies a long sleep returns as soon as ctx ends.
func TestSleep_AbortsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	start := time.Now()
	err := Sleep(ctx, 5*time.Second)
	require.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}

// TestSleep_Elapses verifies an uncancelled sleep returns nil.
func TestSleep_Elapses(t *testing.T) {
	require.NoError(t, Sleep(context.Background(), 5*time.Millisecond))
	require.NoError(t, Sleep(context.Background(), 0))
}
