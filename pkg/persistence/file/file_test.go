package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Matheusbritto77/WBot/pkg/models"
	"github.com/Matheusbritto77/WBot/pkg/persistence"
	"github.com/Matheusbritto77/WBot/pkg/persistence/persistencetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPersistence(t *testing.T) {
	fp := NewPersistence("/tmp/test").(*Persistence)
	assert.Equal(t, "/tmp/test", fp.root)

	fp = NewPersistence("file:///tmp/test").(*Persistence)
	assert.Equal(t, "/tmp/test", fp.root)
}

func TestPersistence_Contract(t *testing.T) {
	persistencetest.RunContract(t, func(t *testing.T) persistence.Persistence {
		return NewPersistence(t.TempDir())
	})
}

func TestFlowRepository_FileLayout(t *testing.T) {
	root := t.TempDir()
	p := NewPersistence("file://" + root)

	flow := &models.AutomationFlow{ID: "boas-vindas", Name: "Boas-vindas", TriggerType: models.TriggerTypeFirstMessage, Enabled: true}
	require.NoError(t, p.FlowRepository().Save(context.Background(), flow))

	body, err := os.ReadFile(filepath.Join(root, "flows", "boas-vindas.json"))
	require.NoError(t, err)
	assert.Contains(t, string(body), `"trigger_type": "first_message"`)
	assert.NotContains(t, string(body), "trigger_value")

	_, err = os.Stat(filepath.Join(root, "flows", "boas-vindas.json.tmp"))
	assert.True(t, os.IsNotExist(err))
}

func TestFlowRepository_IgnoresPathTraversal(t *testing.T) {
	root := t.TempDir()
	repo := NewFlowRepository(root)

	require.NoError(t, repo.Save(context.Background(), &models.AutomationFlow{ID: "../escape", Name: "x"}))

	_, err := os.Stat(filepath.Join(root, "flows", "escape.json"))
	require.NoError(t, err)
}

func TestFlowRepository_CorruptFile(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "flows"), 0750))
	require.NoError(t, os.WriteFile(filepath.Join(root, "flows", "bad.json"), []byte("{"), 0600))

	_, err := NewFlowRepository(root).GetAll(context.Background())
	require.Error(t, err)
	assert.False(t, persistence.IsFlowNotFound(err))
}
