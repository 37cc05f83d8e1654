package timer

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimer_SleepWaitsForClock(t *testing.T) {
	clock := clockwork.NewFakeClock()
	timer := New(clock)

	done := make(chan error, 1)
	go func() {
		done <- timer.Sleep(context.Background(), 3*time.Second)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, clock.BlockUntilContext(ctx, 1))

	clock.Advance(2 * time.Second)
	select {
	case <-done:
		t.Fatal("sleep returned before the duration elapsed")
	default:
	}

	clock.Advance(time.Second)
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("sleep did not return after the clock advanced")
	}
}

func TestTimer_SleepCancelled(t *testing.T) {
	timer := New(clockwork.NewFakeClock())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, timer.Sleep(ctx, time.Hour), context.Canceled)
}

func TestTimer_NonPositiveDuration(t *testing.T) {
	assert.NoError(t, NewReal().Sleep(context.Background(), 0))
}
