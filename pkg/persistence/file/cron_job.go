package file

import (
	"context"
	"path/filepath"
	"sort"
	"time"

	"github.com/Matheusbritto77/WBot/pkg/models"
	"github.com/Matheusbritto77/WBot/pkg/persistence"
	"github.com/google/uuid"
)

// CronJobRepository keeps every job in <root>/cron_jobs.json.
type CronJobRepository struct {
	doc jsonDocument
}

// NewCronJobRepository creates a new cron job repository.
func NewCronJobRepository(root string) *CronJobRepository {
	return &CronJobRepository{doc: jsonDocument{path: filepath.Join(root, "cron_jobs.json")}}
}

// GetAll returns every job, newest first.
func (r *CronJobRepository) GetAll(_ context.Context) ([]*models.CronJob, error) {
	jobs := map[string]*models.CronJob{}

	err := r.doc.read(&jobs)
	if err != nil {
		return nil, err
	}

	list := make([]*models.CronJob, 0, len(jobs))
	for _, job := range jobs {
		list = append(list, job)
	}

	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].ID > list[j].ID
		}

		return list[i].CreatedAt.After(list[j].CreatedAt)
	})

	return list, nil
}

func (r *CronJobRepository) GetByID(_ context.Context, id string) (*models.CronJob, error) {
	jobs := map[string]*models.CronJob{}

	err := r.doc.read(&jobs)
	if err != nil {
		return nil, persistence.NewCronJobError("GetByID", id, err)
	}

	job, found := jobs[id]
	if !found {
		return nil, persistence.NewCronJobError("GetByID", id, persistence.ErrCronJobNotFound)
	}

	return job, nil
}

func (r *CronJobRepository) Save(_ context.Context, job *models.CronJob) error {
	jobs := map[string]*models.CronJob{}

	if job.ID == "" {
		job.ID = uuid.NewString()
	}

	now := time.Now().UTC()

	return r.doc.update(&jobs, func() error {
		if existing, found := jobs[job.ID]; found {
			job.CreatedAt = existing.CreatedAt
		} else if job.CreatedAt.IsZero() {
			job.CreatedAt = now
		}

		job.UpdatedAt = now

		stored := *job
		jobs[job.ID] = &stored

		return nil
	})
}

func (r *CronJobRepository) SetEnabled(_ context.Context, id string, enabled bool) error {
	jobs := map[string]*models.CronJob{}

	return r.doc.update(&jobs, func() error {
		job, found := jobs[id]
		if !found {
			return persistence.NewCronJobError("SetEnabled", id, persistence.ErrCronJobNotFound)
		}

		job.Enabled = enabled
		job.UpdatedAt = time.Now().UTC()

		return nil
	})
}

func (r *CronJobRepository) Delete(_ context.Context, id string) error {
	jobs := map[string]*models.CronJob{}

	return r.doc.update(&jobs, func() error {
		if _, found := jobs[id]; !found {
			return persistence.NewCronJobError("Delete", id, persistence.ErrCronJobNotFound)
		}

		delete(jobs, id)

		return nil
	})
}
