package file

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Matheusbritto77/WBot/pkg/models"
	"github.com/Matheusbritto77/WBot/pkg/persistence"
	"github.com/google/uuid"
)

// FlowRepository stores one JSON file per flow under <root>/flows.
type FlowRepository struct {
	mu   sync.RWMutex
	root string
}

// NewFlowRepository creates a new flow repository.
func NewFlowRepository(root string) *FlowRepository {
	return &FlowRepository{root: root}
}

func (r *FlowRepository) dir() string {
	return filepath.Join(r.root, "flows")
}

func (r *FlowRepository) path(id string) string {
	return filepath.Join(r.dir(), filepath.Base(id)+".json")
}

// GetAll returns every flow, newest first.
func (r *FlowRepository) GetAll(_ context.Context) ([]*models.AutomationFlow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.loadAll()
}

// GetEnabled returns enabled flows, newest first.
func (r *FlowRepository) GetEnabled(_ context.Context) ([]*models.AutomationFlow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all, err := r.loadAll()
	if err != nil {
		return nil, err
	}

	enabled := make([]*models.AutomationFlow, 0, len(all))

	for _, flow := range all {
		if flow.Enabled {
			enabled = append(enabled, flow)
		}
	}

	return enabled, nil
}

func (r *FlowRepository) loadAll() ([]*models.AutomationFlow, error) {
	jsonFiles, err := fs.Glob(os.DirFS(r.dir()), "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list flow files: %w", err)
	}

	flows := make([]*models.AutomationFlow, 0, len(jsonFiles))

	for _, file := range jsonFiles {
		flow, err := r.load(strings.TrimSuffix(file, ".json"))
		if err != nil {
			return nil, err
		}

		flows = append(flows, flow)
	}

	sort.SliceStable(flows, func(i, j int) bool {
		if flows[i].CreatedAt.Equal(flows[j].CreatedAt) {
			return flows[i].ID > flows[j].ID
		}

		return flows[i].CreatedAt.After(flows[j].CreatedAt)
	})

	return flows, nil
}

func (r *FlowRepository) load(id string) (*models.AutomationFlow, error) {
	body, err := os.ReadFile(r.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, persistence.NewFlowError("GetByID", id, persistence.ErrFlowNotFound)
		}

		return nil, persistence.NewFlowError("GetByID", id, err)
	}

	var flow models.AutomationFlow

	err = json.Unmarshal(body, &flow)
	if err != nil {
		return nil, persistence.NewFlowError("GetByID", id, fmt.Errorf("failed to unmarshal flow: %w", err))
	}

	if flow.Nodes == nil {
		flow.Nodes = []*models.FlowNode{}
	}

	if flow.Edges == nil {
		flow.Edges = []*models.FlowEdge{}
	}

	return &flow, nil
}

// GetByID retrieves a flow by its ID from the file system.
func (r *FlowRepository) GetByID(_ context.Context, id string) (*models.AutomationFlow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.load(id)
}

// Save writes the flow, keeping the created_at of an existing file.
func (r *FlowRepository) Save(_ context.Context, flow *models.AutomationFlow) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if flow.ID == "" {
		flow.ID = uuid.NewString()
	}

	now := time.Now().UTC()

	existing, err := r.load(flow.ID)
	switch {
	case err == nil:
		flow.CreatedAt = existing.CreatedAt
	case persistence.IsFlowNotFound(err):
		if flow.CreatedAt.IsZero() {
			flow.CreatedAt = now
		}
	default:
		return err
	}

	flow.UpdatedAt = now

	err = writeJSON(r.path(flow.ID), flow)
	if err != nil {
		return persistence.NewFlowError("Save", flow.ID, err)
	}

	return nil
}

// SetEnabled toggles the flow.
func (r *FlowRepository) SetEnabled(_ context.Context, id string, enabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	flow, err := r.load(id)
	if err != nil {
		return persistence.NewFlowError("SetEnabled", id, err)
	}

	flow.Enabled = enabled
	flow.UpdatedAt = time.Now().UTC()

	err = writeJSON(r.path(id), flow)
	if err != nil {
		return persistence.NewFlowError("SetEnabled", id, err)
	}

	return nil
}

// Delete removes the flow file.
func (r *FlowRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	err := os.Remove(r.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return persistence.NewFlowError("Delete", id, persistence.ErrFlowNotFound)
		}

		return persistence.NewFlowError("Delete", id, err)
	}

	return nil
}
