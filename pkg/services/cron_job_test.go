package services

import (
	"context"
	"testing"

	"github.com/Matheusbritto77/WBot/pkg/models"
	"github.com/Matheusbritto77/WBot/pkg/persistence"
	"github.com/Matheusbritto77/WBot/pkg/persistence/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingReloader struct {
	calls int
}

func (r *countingReloader) Reload(context.Context) error {
	r.calls++

	return nil
}

func TestCronJobs_Lifecycle(t *testing.T) {
	ctx := context.Background()
	reloader := &countingReloader{}
	service := NewCronJobs(file.NewPersistence(t.TempDir()), reloader)

	job, err := service.Add(ctx, &models.CronJob{
		Name:      "bom dia",
		Schedule:  "0 9 * * 1-5",
		Prompt:    "Deseje bom dia",
		TargetJID: "5511999999999",
	})
	require.NoError(t, err)
	assert.Equal(t, "5511999999999@s.whatsapp.net", job.TargetJID)
	assert.True(t, job.Enabled)
	assert.Equal(t, 1, reloader.calls)

	require.NoError(t, service.Toggle(ctx, job.ID, false))
	assert.Equal(t, 2, reloader.calls)

	enabled, err := service.Enabled(ctx)
	require.NoError(t, err)
	assert.Empty(t, enabled)

	require.NoError(t, service.Remove(ctx, job.ID))
	assert.Equal(t, 3, reloader.calls)

	err = service.Remove(ctx, job.ID)
	assert.True(t, persistence.IsCronJobNotFound(err))
	assert.Equal(t, 3, reloader.calls)
}

func TestCronJobs_AddValidation(t *testing.T) {
	ctx := context.Background()
	service := NewCronJobs(file.NewPersistence(t.TempDir()), nil)

	_, err := service.Add(ctx, &models.CronJob{Name: "x", Schedule: "every day", Prompt: "p"})
	assert.ErrorIs(t, err, ErrInvalidSchedule)

	_, err = service.Add(ctx, &models.CronJob{Name: "x", Schedule: "@daily"})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = service.Add(ctx, &models.CronJob{Name: "x", Schedule: "@daily", FlowID: "flow-1"})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	job, err := service.Add(ctx, &models.CronJob{Name: "x", Schedule: "@daily", FlowID: "flow-1", TargetJID: "1@s.whatsapp.net"})
	require.NoError(t, err)
	assert.Empty(t, job.Prompt)

	jobs, err := service.List(ctx)
	require.NoError(t, err)
	assert.Len(t, jobs, 1)
}
