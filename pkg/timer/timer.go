// Package timer suspends flow runs on a clock that tests can replace.
package timer

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
)

// Timer implements protocol.Timer on top of a clockwork.Clock.
type Timer struct {
	clock clockwork.Clock
}

// New creates a timer driven by clock.
func New(clock clockwork.Clock) *Timer {
	return &Timer{clock: clock}
}

// NewReal creates a timer driven by the wall clock.
func NewReal() *Timer {
	return New(clockwork.NewRealClock())
}

// Sleep waits for d or until ctx ends. Non-positive durations return at once.
func (t *Timer) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := t.clock.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.Chan():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
