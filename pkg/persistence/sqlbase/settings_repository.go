package sqlbase

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Matheusbritto77/WBot/pkg/models"
)

// SettingsRepository handles the settings key/value table.
type SettingsRepository struct {
	db      *sql.DB
	dialect Dialect
	logger  *slog.Logger
}

// NewSettingsRepository creates a new settings repository.
func NewSettingsRepository(db *sql.DB, dialect Dialect, logger *slog.Logger) *SettingsRepository {
	return &SettingsRepository{db: db, dialect: dialect, logger: logger}
}

// Get returns the value stored for key and whether it exists.
func (r *SettingsRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var value string

	err := r.db.QueryRowContext(ctx, r.dialect.Rebind("SELECT value FROM settings WHERE key = ?"), key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}

		return "", false, fmt.Errorf("failed to get setting %s: %w", key, err)
	}

	return value, true, nil
}

// Set stores value under key.
func (r *SettingsRepository) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`

	_, err := r.db.ExecContext(ctx, r.dialect.Rebind(query), key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to set setting %s: %w", key, err)
	}

	return nil
}

// GetAll returns every stored setting.
func (r *SettingsRepository) GetAll(ctx context.Context) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT key, value FROM settings")
	if err != nil {
		return nil, fmt.Errorf("failed to query settings: %w", err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	settings := make(map[string]string)

	for rows.Next() {
		var key, value string

		err := rows.Scan(&key, &value)
		if err != nil {
			return nil, fmt.Errorf("failed to scan setting: %w", err)
		}

		settings[key] = value
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating settings: %w", err)
	}

	return settings, nil
}

// StatsRepository handles the bot_stats counters.
type StatsRepository struct {
	db      *sql.DB
	dialect Dialect
	logger  *slog.Logger
}

// NewStatsRepository creates a new stats repository.
func NewStatsRepository(db *sql.DB, dialect Dialect, logger *slog.Logger) *StatsRepository {
	return &StatsRepository{db: db, dialect: dialect, logger: logger}
}

// Increment adds delta to the counter, creating it at delta when absent.
func (r *StatsRepository) Increment(ctx context.Context, key string, delta int64) error {
	query := `
		INSERT INTO bot_stats (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = bot_stats.value + excluded.value
	`

	_, err := r.db.ExecContext(ctx, r.dialect.Rebind(query), key, delta)
	if err != nil {
		return fmt.Errorf("failed to increment stat %s: %w", key, err)
	}

	return nil
}

// Get returns every counter.
func (r *StatsRepository) Get(ctx context.Context) (models.Stats, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT key, value FROM bot_stats")
	if err != nil {
		return nil, fmt.Errorf("failed to query stats: %w", err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	stats := make(models.Stats)

	for rows.Next() {
		var (
			key   string
			value int64
		)

		err := rows.Scan(&key, &value)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stat: %w", err)
		}

		stats[key] = value
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating stats: %w", err)
	}

	return stats, nil
}
