package file

import (
	"context"
	"maps"
	"path/filepath"

	"github.com/Matheusbritto77/WBot/pkg/models"
)

// SettingsRepository keeps every setting in <root>/settings.json.
type SettingsRepository struct {
	doc jsonDocument
}

// NewSettingsRepository creates a new settings repository.
func NewSettingsRepository(root string) *SettingsRepository {
	return &SettingsRepository{doc: jsonDocument{path: filepath.Join(root, "settings.json")}}
}

func (r *SettingsRepository) Get(_ context.Context, key string) (string, bool, error) {
	settings := map[string]string{}

	err := r.doc.read(&settings)
	if err != nil {
		return "", false, err
	}

	value, found := settings[key]

	return value, found, nil
}

func (r *SettingsRepository) Set(_ context.Context, key, value string) error {
	settings := map[string]string{}

	return r.doc.update(&settings, func() error {
		settings[key] = value

		return nil
	})
}

func (r *SettingsRepository) GetAll(_ context.Context) (map[string]string, error) {
	settings := map[string]string{}

	err := r.doc.read(&settings)
	if err != nil {
		return nil, err
	}

	return maps.Clone(settings), nil
}

// StatsRepository keeps the counters in <root>/stats.json.
type StatsRepository struct {
	doc jsonDocument
}

// NewStatsRepository creates a new stats repository.
func NewStatsRepository(root string) *StatsRepository {
	return &StatsRepository{doc: jsonDocument{path: filepath.Join(root, "stats.json")}}
}

func (r *StatsRepository) Increment(_ context.Context, key string, delta int64) error {
	stats := models.Stats{}

	return r.doc.update(&stats, func() error {
		stats[key] += delta

		return nil
	})
}

func (r *StatsRepository) Get(_ context.Context) (models.Stats, error) {
	stats := models.Stats{}

	err := r.doc.read(&stats)
	if err != nil {
		return nil, err
	}

	return stats, nil
}
