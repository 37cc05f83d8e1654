// Package file provides file-based persistence for flows, settings, counters and cron jobs.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Matheusbritto77/WBot/pkg/persistence"
)

// Persistence implements the persistence.Persistence interface using the file system.
type Persistence struct {
	root         string
	flowRepo     *FlowRepository
	settingsRepo *SettingsRepository
	statsRepo    *StatsRepository
	cronJobRepo  *CronJobRepository
}

// NewPersistence creates a new instance of Persistence with the specified root directory.
func NewPersistence(root string) persistence.Persistence {
	cleanRoot := strings.Replace(root, "file://", "", 1)

	return &Persistence{
		root:         cleanRoot,
		flowRepo:     NewFlowRepository(cleanRoot),
		settingsRepo: NewSettingsRepository(cleanRoot),
		statsRepo:    NewStatsRepository(cleanRoot),
		cronJobRepo:  NewCronJobRepository(cleanRoot),
	}
}

// Close performs any necessary cleanup. For file-based persistence, there is nothing to clean up.
func (fp *Persistence) Close(_ context.Context) error {
	return nil
}

// HealthCheck checks if the file persistence layer is healthy by verifying the root directory exists.
func (fp *Persistence) HealthCheck(_ context.Context) error {
	err := os.MkdirAll(fp.root, 0750)
	if err != nil {
		return fmt.Errorf("failed to create root directory: %w", err)
	}

	if _, err := os.Stat(fp.root); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	return nil
}

func (fp *Persistence) FlowRepository() persistence.FlowRepository {
	return fp.flowRepo
}

func (fp *Persistence) SettingsRepository() persistence.SettingsRepository {
	return fp.settingsRepo
}

func (fp *Persistence) StatsRepository() persistence.StatsRepository {
	return fp.statsRepo
}

func (fp *Persistence) CronJobRepository() persistence.CronJobRepository {
	return fp.cronJobRepo
}

// jsonDocument is a single JSON file guarded by a mutex.
type jsonDocument struct {
	mu   sync.Mutex
	path string
}

// update loads the document into out, lets fn mutate it and writes it back.
func (d *jsonDocument) update(out any, fn func() error) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	err := d.readLocked(out)
	if err != nil {
		return err
	}

	err = fn()
	if err != nil {
		return err
	}

	return writeJSON(d.path, out)
}

func (d *jsonDocument) read(out any) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.readLocked(out)
}

func (d *jsonDocument) readLocked(out any) error {
	body, err := os.ReadFile(d.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}

		return fmt.Errorf("failed to read %s: %w", d.path, err)
	}

	err = json.Unmarshal(body, out)
	if err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", d.path, err)
	}

	return nil
}

// writeJSON writes through a temporary file so readers never observe a partial document.
func writeJSON(path string, value any) error {
	err := os.MkdirAll(filepath.Dir(path), 0750)
	if err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", path, err)
	}

	tmp := path + ".tmp"

	err = os.WriteFile(tmp, data, 0600)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}

	err = os.Rename(tmp, path)
	if err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}

	return nil
}
