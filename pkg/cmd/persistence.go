package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Matheusbritto77/WBot/pkg/persistence"
	"github.com/Matheusbritto77/WBot/pkg/persistence/file"
	"github.com/Matheusbritto77/WBot/pkg/persistence/postgresql"
	"github.com/Matheusbritto77/WBot/pkg/persistence/sqlite"
)

var supportedPersistenceProviders = []string{"file", "sqlite", "postgres", "postgresql"}

// NewPersistence opens the store named by databaseURL's scheme. URLs without a
// known scheme are treated as a file store directory.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) (persistence.Persistence, error) {
	switch parsePersistenceProvider(databaseURL) {
	case "sqlite":
		p, err := sqlite.NewPersistence(ctx, logger, databaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite persistence: %w", err)
		}

		return p, nil
	case "postgres", "postgresql":
		p, err := postgresql.NewPersistence(ctx, logger, databaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres persistence: %w", err)
		}

		return p, nil
	default:
		return file.NewPersistence(databaseURL), nil
	}
}

func parsePersistenceProvider(databaseURL string) string {
	provider, _, found := strings.Cut(databaseURL, "://")
	if !found {
		return "file"
	}

	for _, supported := range supportedPersistenceProviders {
		if provider == supported {
			return provider
		}
	}

	return "file"
}
