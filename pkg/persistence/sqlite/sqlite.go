// Package sqlite provides the SQLite persistence backend, the bot's default single-file store.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Matheusbritto77/WBot/pkg/persistence/sqlbase"
	_ "github.com/mattn/go-sqlite3"
)

const busyTimeout = 5 * time.Second

// Persistence implements the persistence layer for SQLite.
type Persistence struct {
	*sqlbase.Persistence

	path string
}

// NewPersistence opens (creating when needed) the database at databaseURL,
// which may carry a sqlite:// prefix, and applies pending migrations.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) (*Persistence, error) {
	path := strings.TrimPrefix(databaseURL, "sqlite://")

	if dir := filepath.Dir(path); dir != "." {
		err := os.MkdirAll(dir, 0750)
		if err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=%d",
		path,
		busyTimeout.Milliseconds(),
	)

	database, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// SQLite allows a single writer.
	database.SetMaxOpenConns(1)

	err = database.PingContext(ctx)
	if err != nil {
		_ = database.Close()

		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	migrationManager := sqlbase.NewMigrationManager(logger, database, sqlbase.DialectSQLite, migrations())

	err = migrationManager.RunMigrations(ctx)
	if err != nil {
		_ = database.Close()

		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Persistence{
		Persistence: sqlbase.NewPersistence(logger, database, sqlbase.DialectSQLite),
		path:        path,
	}, nil
}

// Path returns the database file path.
func (p *Persistence) Path() string {
	return p.path
}
