package sqlbase

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/Matheusbritto77/WBot/pkg/persistence"
)

// Persistence implements persistence.Persistence on top of a migrated *sql.DB.
type Persistence struct {
	db           *sql.DB
	logger       *slog.Logger
	flowRepo     *FlowRepository
	settingsRepo *SettingsRepository
	statsRepo    *StatsRepository
	cronJobRepo  *CronJobRepository
}

// NewPersistence wires the shared repositories to db.
func NewPersistence(logger *slog.Logger, db *sql.DB, dialect Dialect) *Persistence {
	return &Persistence{
		db:           db,
		logger:       logger,
		flowRepo:     NewFlowRepository(db, dialect, logger),
		settingsRepo: NewSettingsRepository(db, dialect, logger),
		statsRepo:    NewStatsRepository(db, dialect, logger),
		cronJobRepo:  NewCronJobRepository(db, dialect, logger),
	}
}

// DB exposes the underlying connection pool.
func (p *Persistence) DB() *sql.DB {
	return p.db
}

func (p *Persistence) FlowRepository() persistence.FlowRepository {
	return p.flowRepo
}

func (p *Persistence) SettingsRepository() persistence.SettingsRepository {
	return p.settingsRepo
}

func (p *Persistence) StatsRepository() persistence.StatsRepository {
	return p.statsRepo
}

func (p *Persistence) CronJobRepository() persistence.CronJobRepository {
	return p.cronJobRepo
}

// HealthCheck verifies the database connection is healthy.
func (p *Persistence) HealthCheck(ctx context.Context) error {
	err := p.db.PingContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (p *Persistence) Close(_ context.Context) error {
	if p.db != nil {
		err := p.db.Close()
		if err != nil {
			return fmt.Errorf("failed to close database connection: %w", err)
		}
	}

	return nil
}
