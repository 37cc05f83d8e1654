package services

import (
	"context"
	"fmt"

	"github.com/Matheusbritto77/WBot/pkg/models"
	"github.com/Matheusbritto77/WBot/pkg/persistence"
)

// Stats increments and reads the bot counters.
type Stats struct {
	persistence persistence.Persistence
}

// NewStats creates a new stats service.
func NewStats(persistence persistence.Persistence) *Stats {
	return &Stats{persistence: persistence}
}

// Increment adds one to each of keys.
func (s *Stats) Increment(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		err := s.persistence.StatsRepository().Increment(ctx, key, 1)
		if err != nil {
			return fmt.Errorf("failed to increment %s: %w", key, err)
		}
	}

	return nil
}

// Get returns every counter, with the well known ones present even when zero.
func (s *Stats) Get(ctx context.Context) (models.Stats, error) {
	stats, err := s.persistence.StatsRepository().Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read stats: %w", err)
	}

	for _, key := range []string{models.StatTotalMessages, models.StatMonthlyMessages, models.StatFlowRuns, models.StatAIReplies} {
		if _, ok := stats[key]; !ok {
			stats[key] = 0
		}
	}

	return stats, nil
}
