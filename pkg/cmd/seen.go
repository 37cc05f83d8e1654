package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Matheusbritto77/WBot/pkg/seen"
)

// NewSeenTracker returns a redis tracker for redis:// and rediss:// URLs, and
// an in-memory tracker otherwise.
func NewSeenTracker(ctx context.Context, store string, ttl time.Duration) (seen.Tracker, error) {
	if strings.HasPrefix(store, "redis://") || strings.HasPrefix(store, "rediss://") {
		tracker, err := seen.NewRedisTracker(ctx, store, ttl)
		if err != nil {
			return nil, fmt.Errorf("failed to connect seen tracker: %w", err)
		}

		return tracker, nil
	}

	return seen.NewMemoryTracker(ttl), nil
}
