package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Matheusbritto77/WBot/pkg/models"
	"github.com/Matheusbritto77/WBot/pkg/persistence"
	"github.com/go-playground/validator/v10"
)

// ScheduleReloader re-reads the enabled jobs after a change.
type ScheduleReloader interface {
	Reload(ctx context.Context) error
}

// CronJobs manages scheduled jobs and keeps the scheduler in sync.
type CronJobs struct {
	persistence persistence.Persistence
	reloader    ScheduleReloader
	validate    *validator.Validate
}

// NewCronJobs creates a new cron job service. reloader may be nil.
func NewCronJobs(persistence persistence.Persistence, reloader ScheduleReloader) *CronJobs {
	return &CronJobs{
		persistence: persistence,
		reloader:    reloader,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

// SetReloader attaches the scheduler once it has been built.
func (c *CronJobs) SetReloader(reloader ScheduleReloader) {
	c.reloader = reloader
}

// List returns every job, newest first.
func (c *CronJobs) List(ctx context.Context) ([]*models.CronJob, error) {
	return c.persistence.CronJobRepository().GetAll(ctx)
}

// Enabled returns the enabled jobs.
func (c *CronJobs) Enabled(ctx context.Context) ([]*models.CronJob, error) {
	jobs, err := c.List(ctx)
	if err != nil {
		return nil, err
	}

	enabled := make([]*models.CronJob, 0, len(jobs))

	for _, job := range jobs {
		if job.Enabled {
			enabled = append(enabled, job)
		}
	}

	return enabled, nil
}

// FetchByID returns a job by its ID.
func (c *CronJobs) FetchByID(ctx context.Context, id string) (*models.CronJob, error) {
	return c.persistence.CronJobRepository().GetByID(ctx, id)
}

// Add validates and stores a new enabled job, then reloads the schedule.
func (c *CronJobs) Add(ctx context.Context, job *models.CronJob) (*models.CronJob, error) {
	if job == nil {
		return nil, ErrInvalidRequest
	}

	job.TargetJID = NormalizeJID(job.TargetJID)
	job.Enabled = true

	err := c.validate.Struct(job)
	if err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return nil, NewValidationError("Add", "INVALID_CRON_JOB", validationErrors.Error(), ErrInvalidRequest)
		}

		return nil, NewValidationError("Add", "INVALID_CRON_JOB", err.Error(), ErrInvalidRequest)
	}

	_, err = job.ParseSchedule()
	if err != nil {
		return nil, NewValidationError("Add", "INVALID_SCHEDULE", err.Error(), ErrInvalidSchedule)
	}

	err = c.persistence.CronJobRepository().Save(ctx, job)
	if err != nil {
		return nil, fmt.Errorf("failed to save cron job: %w", err)
	}

	return job, c.reload(ctx)
}

// Remove deletes a job and reloads the schedule.
func (c *CronJobs) Remove(ctx context.Context, id string) error {
	err := c.persistence.CronJobRepository().Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete cron job: %w", err)
	}

	return c.reload(ctx)
}

// Toggle enables or disables a job and reloads the schedule.
func (c *CronJobs) Toggle(ctx context.Context, id string, enabled bool) error {
	err := c.persistence.CronJobRepository().SetEnabled(ctx, id, enabled)
	if err != nil {
		return fmt.Errorf("failed to toggle cron job: %w", err)
	}

	return c.reload(ctx)
}

func (c *CronJobs) reload(ctx context.Context) error {
	if c.reloader == nil {
		return nil
	}

	err := c.reloader.Reload(ctx)
	if err != nil {
		return fmt.Errorf("failed to reload schedule: %w", err)
	}

	return nil
}
