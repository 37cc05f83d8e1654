package sqlite_test

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/Matheusbritto77/WBot/pkg/persistence"
	"github.com/Matheusbritto77/WBot/pkg/persistence/persistencetest"
	"github.com/Matheusbritto77/WBot/pkg/persistence/sqlbase"
	"github.com/Matheusbritto77/WBot/pkg/persistence/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPersistence(t *testing.T) *sqlite.Persistence {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	p, err := sqlite.NewPersistence(context.Background(), logger, "sqlite://"+filepath.Join(t.TempDir(), "data", "wbot.db"))
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, p.Close(context.Background()))
	})

	return p
}

func TestPersistence_Contract(t *testing.T) {
	persistencetest.RunContract(t, func(t *testing.T) persistence.Persistence {
		return newTestPersistence(t)
	})
}

func TestNewPersistence_Migrations(t *testing.T) {
	p := newTestPersistence(t)
	ctx := context.Background()

	assert.FileExists(t, p.Path())

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	manager := sqlbase.NewMigrationManager(logger, p.DB(), sqlbase.DialectSQLite, map[int]string{
		1: "SELECT 1",
		2: "SELECT 1",
	})

	version, err := manager.CurrentVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, version)

	// already applied migrations are not re-run
	require.NoError(t, manager.RunMigrations(ctx))

	var count int

	require.NoError(t, p.DB().QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&count))
	assert.Equal(t, 2, count)
}

func TestNewPersistence_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "wbot.db")
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	first, err := sqlite.NewPersistence(ctx, logger, path)
	require.NoError(t, err)
	require.NoError(t, first.SettingsRepository().Set(ctx, "agent_prompt", "Seja breve."))
	require.NoError(t, first.Close(ctx))

	second, err := sqlite.NewPersistence(ctx, logger, path)
	require.NoError(t, err)

	defer second.Close(ctx)

	value, found, err := second.SettingsRepository().Get(ctx, "agent_prompt")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Seja breve.", value)
}
