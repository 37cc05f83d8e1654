package registry

import (
	"context"
	"log/slog"
	"testing"

	"github.com/Matheusbritto77/WBot/pkg/models"
	"github.com/Matheusbritto77/WBot/pkg/protocol"
	"github.com/Matheusbritto77/WBot/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDefaultRegistry() *Registry {
	r := NewRegistry(slog.Default())
	r.RegisterDefaultNodes(protocol.Dependencies{Sink: &testutil.RecordingSink{}})

	return r
}

func TestRegisterDefaultNodes(t *testing.T) {
	r := newDefaultRegistry()

	expected := []models.NodeType{
		models.NodeTypeAIResponse,
		models.NodeTypeCondition,
		models.NodeTypeDelay,
		models.NodeTypeHTTPRequest,
		models.NodeTypeSendAudio,
		models.NodeTypeSendButtons,
		models.NodeTypeSendImage,
		models.NodeTypeSendPoll,
		models.NodeTypeSendText,
		models.NodeTypeSendVideo,
		models.NodeTypeSetVariable,
		models.NodeTypeTrigger,
	}

	available := r.GetAvailableNodes()
	types := make([]models.NodeType, len(available))

	for i, factory := range available {
		types[i] = factory.Type()
	}

	assert.Equal(t, expected, types)

	status, ok := r.HealthCheck()
	assert.True(t, ok)
	assert.Equal(t, "12 node types registered", status)
}

func TestCreateNode(t *testing.T) {
	r := newDefaultRegistry()

	node, err := r.CreateNode(context.Background(), models.NodeTypeSendText, "n1", map[string]any{"text": "oi"})
	require.NoError(t, err)
	assert.Equal(t, "n1", node.ID())
	assert.Equal(t, models.NodeTypeSendText, node.Type())

	_, err = r.CreateNode(context.Background(), "webhook", "n2", nil)
	require.ErrorIs(t, err, ErrNodeTypeNotRegistered)
	assert.False(t, r.IsRegistered("webhook"))
}

func TestHealthCheck_Empty(t *testing.T) {
	_, ok := NewRegistry(slog.Default()).HealthCheck()
	assert.False(t, ok)
}

func TestValidateNodeData(t *testing.T) {
	r := newDefaultRegistry()

	violations, err := r.ValidateNodeData(models.NodeTypeSendText, map[string]any{"text": "Olá {{nome}}"})
	require.NoError(t, err)
	assert.Empty(t, violations)

	violations, err = r.ValidateNodeData(models.NodeTypeTrigger, map[string]any{"trigger_type": "sometimes"})
	require.NoError(t, err)
	require.Len(t, violations, 1)
	assert.Contains(t, violations[0], "trigger_type")

	violations, err = r.ValidateNodeData(models.NodeTypeDelay, map[string]any{"seconds": []any{1}})
	require.NoError(t, err)
	assert.NotEmpty(t, violations)

	violations, err = r.ValidateNodeData("unknown", map[string]any{"anything": true})
	require.NoError(t, err)
	assert.Empty(t, violations)
}

func TestLoadNodePlugins_MissingDirectory(t *testing.T) {
	plugins, err := NewRegistry(slog.Default()).LoadNodePlugins(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, plugins)
}
