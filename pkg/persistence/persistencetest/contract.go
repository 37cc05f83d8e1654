// Package persistencetest holds the behaviour every persistence backend must share.
package persistencetest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Matheusbritto77/WBot/pkg/models"
	"github.com/Matheusbritto77/WBot/pkg/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunContract exercises every repository of p. newPersistence must return an empty store.
func RunContract(t *testing.T, newPersistence func(t *testing.T) persistence.Persistence) {
	t.Helper()

	t.Run("flows", func(t *testing.T) { testFlows(t, newPersistence(t)) })
	t.Run("flow not found", func(t *testing.T) { testFlowNotFound(t, newPersistence(t)) })
	t.Run("settings", func(t *testing.T) { testSettings(t, newPersistence(t)) })
	t.Run("stats", func(t *testing.T) { testStats(t, newPersistence(t)) })
	t.Run("cron jobs", func(t *testing.T) { testCronJobs(t, newPersistence(t)) })
	t.Run("health", func(t *testing.T) {
		require.NoError(t, newPersistence(t).HealthCheck(context.Background()))
	})
}

func sampleFlow(id string, createdAt time.Time, enabled bool) *models.AutomationFlow {
	return &models.AutomationFlow{
		ID:           id,
		Name:         "Fluxo " + id,
		Description:  "desc",
		TriggerType:  models.TriggerTypeKeyword,
		TriggerValue: "preço",
		Enabled:      enabled,
		CreatedAt:    createdAt,
		Nodes: []*models.FlowNode{
			{ID: "t1", Type: models.NodeTypeTrigger, Data: map[string]any{"trigger_type": "exact", "trigger_value": "oi"}, Position: map[string]any{"x": float64(10), "y": float64(20)}},
			{ID: "c1", Type: models.NodeTypeCondition, Data: map[string]any{"left": "{{_message}}", "operator": "contains", "right": "ajuda"}},
			{ID: "s1", Type: models.NodeTypeSendText, Data: map[string]any{"text": "Olá {{nome}}"}},
		},
		Edges: []*models.FlowEdge{
			{ID: "e1", Source: "t1", Target: "c1"},
			{ID: "e2", Source: "c1", Target: "s1", SourceHandle: "true", Label: "sim"},
		},
	}
}

func testFlows(t *testing.T, p persistence.Persistence) {
	ctx := context.Background()
	repo := p.FlowRepository()
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Save(ctx, sampleFlow("old", base, true)))
	require.NoError(t, repo.Save(ctx, sampleFlow("mid", base.Add(time.Hour), false)))
	require.NoError(t, repo.Save(ctx, sampleFlow("new", base.Add(2*time.Hour), true)))

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"new", "mid", "old"}, flowIDs(all))

	enabled, err := repo.GetEnabled(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"new", "old"}, flowIDs(enabled))

	loaded, err := repo.GetByID(ctx, "old")
	require.NoError(t, err)
	assert.Equal(t, "Fluxo old", loaded.Name)
	assert.Equal(t, "preço", loaded.TriggerValue)
	assert.Equal(t, models.TriggerTypeKeyword, loaded.TriggerType)
	assert.WithinDuration(t, base, loaded.CreatedAt, time.Millisecond)
	require.Len(t, loaded.Nodes, 3)
	assert.Equal(t, "exact", loaded.Nodes[0].Data["trigger_type"])
	assert.Equal(t, float64(10), loaded.Nodes[0].Position["x"])
	require.Len(t, loaded.Edges, 2)
	assert.Equal(t, "true", loaded.Edges[1].SourceHandle)
	assert.Equal(t, "sim", loaded.Edges[1].Label)

	// an update keeps the original creation time
	loaded.Name = "Renomeado"
	loaded.CreatedAt = time.Time{}
	require.NoError(t, repo.Save(ctx, loaded))
	assert.WithinDuration(t, base, loaded.CreatedAt, time.Millisecond)

	reloaded, err := repo.GetByID(ctx, "old")
	require.NoError(t, err)
	assert.Equal(t, "Renomeado", reloaded.Name)
	assert.WithinDuration(t, base, reloaded.CreatedAt, time.Millisecond)

	require.NoError(t, repo.SetEnabled(ctx, "mid", true))
	enabled, err = repo.GetEnabled(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"new", "mid", "old"}, flowIDs(enabled))

	require.NoError(t, repo.Delete(ctx, "new"))
	all, err = repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"mid", "old"}, flowIDs(all))

	fresh := &models.AutomationFlow{Name: "sem id", Enabled: true}
	require.NoError(t, repo.Save(ctx, fresh))
	assert.NotEmpty(t, fresh.ID)
	assert.False(t, fresh.CreatedAt.IsZero())

	stored, err := repo.GetByID(ctx, fresh.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Nodes)
	assert.Empty(t, stored.Edges)
}

func testFlowNotFound(t *testing.T, p persistence.Persistence) {
	ctx := context.Background()
	repo := p.FlowRepository()

	_, err := repo.GetByID(ctx, "missing")
	assert.True(t, persistence.IsFlowNotFound(err))

	assert.True(t, persistence.IsFlowNotFound(repo.SetEnabled(ctx, "missing", true)))
	assert.True(t, persistence.IsFlowNotFound(repo.Delete(ctx, "missing")))

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func testSettings(t *testing.T, p persistence.Persistence) {
	ctx := context.Background()
	repo := p.SettingsRepository()

	_, found, err := repo.Get(ctx, models.SettingAutoReply)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, repo.Set(ctx, models.SettingAutoReply, "false"))
	require.NoError(t, repo.Set(ctx, models.SettingBlockWord, "stop"))
	require.NoError(t, repo.Set(ctx, models.SettingAutoReply, "true"))

	value, found, err := repo.Get(ctx, models.SettingAutoReply)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "true", value)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"auto_reply": "true", "block_word": "stop"}, all)
}

func testStats(t *testing.T, p persistence.Persistence) {
	ctx := context.Background()
	repo := p.StatsRepository()

	var wg sync.WaitGroup

	for range 10 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			assert.NoError(t, repo.Increment(ctx, models.StatTotalMessages, 1))
		}()
	}

	wg.Wait()

	require.NoError(t, repo.Increment(ctx, models.StatFlowRuns, 3))

	stats, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(10), stats[models.StatTotalMessages])
	assert.Equal(t, int64(3), stats[models.StatFlowRuns])
	assert.Zero(t, stats[models.StatAIReplies])
}

func testCronJobs(t *testing.T, p persistence.Persistence) {
	ctx := context.Background()
	repo := p.CronJobRepository()

	job := &models.CronJob{
		Name:      "bom dia",
		Schedule:  "0 9 * * *",
		Prompt:    "Deseje bom dia",
		TargetJID: "5511999999999@s.whatsapp.net",
		Enabled:   true,
	}

	require.NoError(t, repo.Save(ctx, job))
	require.NotEmpty(t, job.ID)

	loaded, err := repo.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, "Deseje bom dia", loaded.Prompt)
	assert.Empty(t, loaded.FlowID)
	assert.True(t, loaded.Enabled)

	require.NoError(t, repo.SetEnabled(ctx, job.ID, false))
	loaded, err = repo.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.False(t, loaded.Enabled)

	jobs, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, jobs, 1)

	require.NoError(t, repo.Delete(ctx, job.ID))

	_, err = repo.GetByID(ctx, job.ID)
	assert.True(t, persistence.IsCronJobNotFound(err))
	assert.True(t, persistence.IsCronJobNotFound(repo.Delete(ctx, job.ID)))
	assert.True(t, persistence.IsCronJobNotFound(repo.SetEnabled(ctx, job.ID, true)))
}

func flowIDs(flows []*models.AutomationFlow) []string {
	ids := make([]string, 0, len(flows))
	for _, flow := range flows {
		ids = append(ids, flow.ID)
	}

	return ids
}
