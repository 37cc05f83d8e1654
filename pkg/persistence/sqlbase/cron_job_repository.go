package sqlbase

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Matheusbritto77/WBot/pkg/models"
	"github.com/Matheusbritto77/WBot/pkg/persistence"
	"github.com/google/uuid"
)

const cronJobColumns = `
	id
  , name
  , schedule
  , prompt
  , target_jid
  , flow_id
  , enabled
  , created_at
  , updated_at
`

// CronJobRepository handles cron_jobs operations.
type CronJobRepository struct {
	db      *sql.DB
	dialect Dialect
	logger  *slog.Logger
}

// NewCronJobRepository creates a new cron job repository.
func NewCronJobRepository(db *sql.DB, dialect Dialect, logger *slog.Logger) *CronJobRepository {
	return &CronJobRepository{db: db, dialect: dialect, logger: logger}
}

// GetAll returns every job, newest first.
func (r *CronJobRepository) GetAll(ctx context.Context) ([]*models.CronJob, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+cronJobColumns+" FROM cron_jobs ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to query cron jobs: %w", err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	jobs := make([]*models.CronJob, 0)

	for rows.Next() {
		job, err := scanCronJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cron job: %w", err)
		}

		jobs = append(jobs, job)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating cron jobs: %w", err)
	}

	return jobs, nil
}

// GetByID returns the job or a CronJobError wrapping persistence.ErrCronJobNotFound.
func (r *CronJobRepository) GetByID(ctx context.Context, id string) (*models.CronJob, error) {
	row := r.db.QueryRowContext(ctx, r.dialect.Rebind("SELECT "+cronJobColumns+" FROM cron_jobs WHERE id = ?"), id)

	job, err := scanCronJob(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.NewCronJobError("GetByID", id, persistence.ErrCronJobNotFound)
		}

		return nil, persistence.NewCronJobError("GetByID", id, err)
	}

	return job, nil
}

// Save upserts the job.
func (r *CronJobRepository) Save(ctx context.Context, job *models.CronJob) error {
	now := time.Now().UTC()

	if job.ID == "" {
		job.ID = uuid.NewString()
	}

	if job.CreatedAt.IsZero() {
		job.CreatedAt = now
	}

	job.UpdatedAt = now

	query := `
		INSERT INTO cron_jobs (` + cronJobColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name
		  , schedule = excluded.schedule
		  , prompt = excluded.prompt
		  , target_jid = excluded.target_jid
		  , flow_id = excluded.flow_id
		  , enabled = excluded.enabled
		  , updated_at = excluded.updated_at
	`

	_, err := r.db.ExecContext(ctx, r.dialect.Rebind(query),
		job.ID,
		job.Name,
		job.Schedule,
		job.Prompt,
		job.TargetJID,
		job.FlowID,
		job.Enabled,
		job.CreatedAt.UTC(),
		job.UpdatedAt,
	)
	if err != nil {
		return persistence.NewCronJobError("Save", job.ID, err)
	}

	return nil
}

// SetEnabled toggles the job.
func (r *CronJobRepository) SetEnabled(ctx context.Context, id string, enabled bool) error {
	result, err := r.db.ExecContext(ctx,
		r.dialect.Rebind("UPDATE cron_jobs SET enabled = ?, updated_at = ? WHERE id = ?"),
		enabled, time.Now().UTC(), id,
	)

	return checkAffected(result, err, func(err error) error {
		return persistence.NewCronJobError("SetEnabled", id, err)
	}, persistence.ErrCronJobNotFound)
}

// Delete removes the job.
func (r *CronJobRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, r.dialect.Rebind("DELETE FROM cron_jobs WHERE id = ?"), id)

	return checkAffected(result, err, func(err error) error {
		return persistence.NewCronJobError("Delete", id, err)
	}, persistence.ErrCronJobNotFound)
}

func scanCronJob(row scanner) (*models.CronJob, error) {
	var (
		job    models.CronJob
		prompt sql.NullString
		flowID sql.NullString
	)

	err := row.Scan(
		&job.ID,
		&job.Name,
		&job.Schedule,
		&prompt,
		&job.TargetJID,
		&flowID,
		&job.Enabled,
		&job.CreatedAt,
		&job.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	job.Prompt = prompt.String
	job.FlowID = flowID.String
	job.CreatedAt = job.CreatedAt.UTC()
	job.UpdatedAt = job.UpdatedAt.UTC()

	return &job, nil
}
