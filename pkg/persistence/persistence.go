// Package persistence provides the storage abstraction for flows, settings, counters and cron jobs.
package persistence

import (
	"context"

	"github.com/Matheusbritto77/WBot/pkg/models"
)

// Persistence groups the repositories of one storage backend.
type Persistence interface {
	FlowRepository() FlowRepository
	SettingsRepository() SettingsRepository
	StatsRepository() StatsRepository
	CronJobRepository() CronJobRepository

	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}

// FlowRepository stores automation flows.
type FlowRepository interface {
	// GetAll returns every flow, most recently created first.
	GetAll(ctx context.Context) ([]*models.AutomationFlow, error)
	// GetEnabled returns enabled flows, most recently created first.
	GetEnabled(ctx context.Context) ([]*models.AutomationFlow, error)
	GetByID(ctx context.Context, id string) (*models.AutomationFlow, error)
	// Save inserts or replaces the flow. CreatedAt is kept once set.
	Save(ctx context.Context, flow *models.AutomationFlow) error
	SetEnabled(ctx context.Context, id string, enabled bool) error
	Delete(ctx context.Context, id string) error
}

// SettingsRepository stores string settings by key.
type SettingsRepository interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	GetAll(ctx context.Context) (map[string]string, error)
}

// StatsRepository stores named counters.
type StatsRepository interface {
	Increment(ctx context.Context, key string, delta int64) error
	Get(ctx context.Context) (models.Stats, error)
}

// CronJobRepository stores scheduled jobs.
type CronJobRepository interface {
	// GetAll returns every job, most recently created first.
	GetAll(ctx context.Context) ([]*models.CronJob, error)
	GetByID(ctx context.Context, id string) (*models.CronJob, error)
	Save(ctx context.Context, job *models.CronJob) error
	SetEnabled(ctx context.Context, id string, enabled bool) error
	Delete(ctx context.Context, id string) error
}
