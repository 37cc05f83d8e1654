package services

import (
	"log/slog"
	"testing"
	"time"

	"github.com/Matheusbritto77/WBot/pkg/models"
	"github.com/Matheusbritto77/WBot/pkg/persistence"
	"github.com/Matheusbritto77/WBot/pkg/persistence/file"
	"github.com/Matheusbritto77/WBot/pkg/protocol"
	"github.com/Matheusbritto77/WBot/pkg/registry"
	"github.com/Matheusbritto77/WBot/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlowService(t *testing.T) *Flow {
	t.Helper()

	r := registry.NewRegistry(slog.Default())
	r.RegisterDefaultNodes(protocol.Dependencies{Sink: &testutil.RecordingSink{}})

	return NewFlow(file.NewPersistence(t.TempDir()), r)
}

func ptr(s string) *string {
	return &s
}

func TestFlow_SaveCreatesWithDefaults(t *testing.T) {
	service := newFlowService(t)

	created, err := service.Save(t.Context(), &SaveFlowRequest{
		Nodes: []*models.FlowNode{testutil.Trigger("t1", "keyword", "oi")},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, DefaultFlowName, created.Name)
	assert.Equal(t, models.TriggerTypeKeyword, created.TriggerType)
	assert.False(t, created.Enabled)
	assert.NotNil(t, created.Edges)
	assert.False(t, created.CreatedAt.IsZero())
}

func TestFlow_SaveUpdateKeepsOmittedFields(t *testing.T) {
	service := newFlowService(t)

	created, err := service.Save(t.Context(), &SaveFlowRequest{
		ID:           "flow-1",
		Name:         "Preços",
		Description:  ptr("tabela"),
		TriggerType:  models.TriggerTypeStartsWith,
		TriggerValue: ptr("preço"),
		Enabled:      true,
	})
	require.NoError(t, err)

	time.Sleep(2 * time.Millisecond)

	updated, err := service.Save(t.Context(), &SaveFlowRequest{
		ID:      "flow-1",
		Nodes:   []*models.FlowNode{testutil.SendText("s1", "Olá")},
		Enabled: true,
	})
	require.NoError(t, err)

	assert.Equal(t, "Preços", updated.Name)
	assert.Equal(t, "tabela", updated.Description)
	assert.Equal(t, models.TriggerTypeStartsWith, updated.TriggerType)
	assert.Equal(t, "preço", updated.TriggerValue)
	assert.Len(t, updated.Nodes, 1)
	assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))

	cleared, err := service.Save(t.Context(), &SaveFlowRequest{ID: "flow-1", Description: ptr("")})
	require.NoError(t, err)
	assert.Empty(t, cleared.Description)
	assert.False(t, cleared.Enabled)
	assert.Empty(t, cleared.Nodes)
}

func TestFlow_SaveRejectsInvalidNodeData(t *testing.T) {
	service := newFlowService(t)

	_, err := service.Save(t.Context(), &SaveFlowRequest{
		Nodes: []*models.FlowNode{
			{ID: "c1", Type: models.NodeTypeCondition, Data: map[string]any{"operator": "between"}},
		},
	})
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	assert.ErrorIs(t, err, ErrInvalidNodeData)
	assert.Contains(t, err.Error(), "c1")

	flows, err := service.List(t.Context())
	require.NoError(t, err)
	assert.Empty(t, flows)
}

func TestFlow_SaveRejectsStructuralProblems(t *testing.T) {
	service := newFlowService(t)

	_, err := service.Save(t.Context(), &SaveFlowRequest{
		Nodes: []*models.FlowNode{testutil.SendText("a", "1"), testutil.SendText("a", "2")},
	})
	assert.ErrorIs(t, err, ErrDuplicateNodeID)

	_, err = service.Save(t.Context(), &SaveFlowRequest{
		Edges: []*models.FlowEdge{{ID: "e1", Source: "a"}},
	})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = service.Save(t.Context(), nil)
	assert.ErrorIs(t, err, ErrFlowNil)
}

func TestFlow_UnknownNodeTypesAreAccepted(t *testing.T) {
	service := newFlowService(t)

	_, err := service.Save(t.Context(), &SaveFlowRequest{
		Nodes: []*models.FlowNode{{ID: "x", Type: "send_sticker", Data: map[string]any{"anything": 1}}},
	})
	require.NoError(t, err)
}

func TestFlow_ToggleAndEnabledFlows(t *testing.T) {
	service := newFlowService(t)

	first, err := service.Save(t.Context(), &SaveFlowRequest{Name: "a", Enabled: true})
	require.NoError(t, err)

	second, err := service.Save(t.Context(), &SaveFlowRequest{Name: "b"})
	require.NoError(t, err)

	enabled, err := service.EnabledFlows(t.Context())
	require.NoError(t, err)
	require.Len(t, enabled, 1)
	assert.Equal(t, first.ID, enabled[0].ID)

	toggled, err := service.Toggle(t.Context(), second.ID, true)
	require.NoError(t, err)
	assert.True(t, toggled.Enabled)

	_, err = service.Toggle(t.Context(), "missing", true)
	assert.True(t, persistence.IsFlowNotFound(err))

	require.NoError(t, service.Delete(t.Context(), first.ID))

	_, err = service.FetchByID(t.Context(), first.ID)
	assert.True(t, persistence.IsFlowNotFound(err))
}

func TestFlow_Import(t *testing.T) {
	service := newFlowService(t)

	flow := testutil.CreateTestFlow(testutil.WithFlowName(""), testutil.WithNodes(testutil.Trigger("t1", "exact", "oi")))
	flow.TriggerType = ""

	require.NoError(t, service.Import(t.Context(), flow))

	stored, err := service.FetchByID(t.Context(), flow.ID)
	require.NoError(t, err)
	assert.Equal(t, DefaultFlowName, stored.Name)
	assert.Equal(t, models.TriggerTypeKeyword, stored.TriggerType)
	assert.Len(t, stored.Nodes, 1)
}

func TestFlow_HealthCheck(t *testing.T) {
	message, ok := newFlowService(t).HealthCheck(t.Context())
	assert.True(t, ok)
	assert.Equal(t, "Persistence layer is healthy", message)

	message, ok = NewFlow(nil, nil).HealthCheck(t.Context())
	assert.False(t, ok)
	assert.Equal(t, "Persistence layer not initialized", message)
}
