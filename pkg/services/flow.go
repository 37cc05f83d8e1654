package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Matheusbritto77/WBot/pkg/models"
	"github.com/Matheusbritto77/WBot/pkg/persistence"
	"github.com/go-playground/validator/v10"
)

// DefaultFlowName names flows created without one.
const DefaultFlowName = "Novo Fluxo"

// NodeDataValidator checks a node's data against the schema of its type.
type NodeDataValidator interface {
	ValidateNodeData(nodeType models.NodeType, data map[string]any) ([]string, error)
}

// SaveFlowRequest creates or updates a flow. On update, an empty Name or
// TriggerType and a nil Description or TriggerValue keep the stored value.
type SaveFlowRequest struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	Description  *string            `json:"description"`
	Nodes        []*models.FlowNode `json:"nodes"`
	Edges        []*models.FlowEdge `json:"edges"`
	TriggerType  models.TriggerType `json:"trigger_type"`
	TriggerValue *string            `json:"trigger_value"`
	Enabled      bool               `json:"enabled"`
}

// Flow manages automation flows.
type Flow struct {
	persistence persistence.Persistence
	nodes       NodeDataValidator
	validate    *validator.Validate
}

// NewFlow creates a new flow service. nodes may be nil to skip node data validation.
func NewFlow(persistence persistence.Persistence, nodes NodeDataValidator) *Flow {
	return &Flow{
		persistence: persistence,
		nodes:       nodes,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

// HealthCheck checks the health of the persistence layer.
func (f *Flow) HealthCheck(ctx context.Context) (string, bool) {
	if f.persistence == nil {
		return "Persistence layer not initialized", false
	}

	err := f.persistence.HealthCheck(ctx)
	if err != nil {
		return "Persistence layer is unhealthy: " + err.Error(), false
	}

	return "Persistence layer is healthy", true
}

// List returns every flow, newest first.
func (f *Flow) List(ctx context.Context) ([]*models.AutomationFlow, error) {
	flows, err := f.persistence.FlowRepository().GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list flows: %w", err)
	}

	return flows, nil
}

// EnabledFlows returns the flows eligible for trigger matching, newest first.
func (f *Flow) EnabledFlows(ctx context.Context) ([]*models.AutomationFlow, error) {
	return f.persistence.FlowRepository().GetEnabled(ctx)
}

// FetchByID retrieves a flow by its ID.
func (f *Flow) FetchByID(ctx context.Context, id string) (*models.AutomationFlow, error) {
	return f.persistence.FlowRepository().GetByID(ctx, id)
}

// Save creates the flow when req.ID is unknown (or empty) and updates it otherwise.
func (f *Flow) Save(ctx context.Context, req *SaveFlowRequest) (*models.AutomationFlow, error) {
	if req == nil {
		return nil, ErrFlowNil
	}

	var existing *models.AutomationFlow

	if req.ID != "" {
		found, err := f.persistence.FlowRepository().GetByID(ctx, req.ID)
		switch {
		case err == nil:
			existing = found
		case !persistence.IsFlowNotFound(err):
			return nil, fmt.Errorf("failed to load flow: %w", err)
		}
	}

	flow := mergeFlow(existing, req)

	err := f.Validate(flow)
	if err != nil {
		return nil, err
	}

	err = f.persistence.FlowRepository().Save(ctx, flow)
	if err != nil {
		return nil, fmt.Errorf("failed to save flow: %w", err)
	}

	return flow, nil
}

// Import stores flow as given, replacing any flow with the same ID.
func (f *Flow) Import(ctx context.Context, flow *models.AutomationFlow) error {
	if flow == nil {
		return ErrFlowNil
	}

	if flow.Name == "" {
		flow.Name = DefaultFlowName
	}

	if flow.TriggerType == "" {
		flow.TriggerType = models.TriggerTypeKeyword
	}

	err := f.Validate(flow)
	if err != nil {
		return err
	}

	err = f.persistence.FlowRepository().Save(ctx, flow)
	if err != nil {
		return fmt.Errorf("failed to import flow: %w", err)
	}

	return nil
}

func mergeFlow(existing *models.AutomationFlow, req *SaveFlowRequest) *models.AutomationFlow {
	flow := &models.AutomationFlow{
		ID:      req.ID,
		Name:    req.Name,
		Nodes:   req.Nodes,
		Edges:   req.Edges,
		Enabled: req.Enabled,
	}

	if flow.Nodes == nil {
		flow.Nodes = []*models.FlowNode{}
	}

	if flow.Edges == nil {
		flow.Edges = []*models.FlowEdge{}
	}

	if req.Description != nil {
		flow.Description = *req.Description
	}

	if req.TriggerValue != nil {
		flow.TriggerValue = *req.TriggerValue
	}

	flow.TriggerType = req.TriggerType

	if existing == nil {
		if flow.Name == "" {
			flow.Name = DefaultFlowName
		}

		if flow.TriggerType == "" {
			flow.TriggerType = models.TriggerTypeKeyword
		}

		return flow
	}

	flow.CreatedAt = existing.CreatedAt

	if flow.Name == "" {
		flow.Name = existing.Name
	}

	if req.Description == nil {
		flow.Description = existing.Description
	}

	if flow.TriggerType == "" {
		flow.TriggerType = existing.TriggerType
	}

	if req.TriggerValue == nil {
		flow.TriggerValue = existing.TriggerValue
	}

	return flow
}

// Validate checks the flow structure and every node's data against its type schema.
func (f *Flow) Validate(flow *models.AutomationFlow) error {
	if flow == nil {
		return ErrFlowNil
	}

	err := f.validate.Struct(flow)
	if err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return NewValidationError("Validate", "INVALID_FLOW", validationErrors.Error(), ErrInvalidRequest)
		}

		return NewValidationError("Validate", "INVALID_FLOW", err.Error(), ErrInvalidRequest)
	}

	seen := make(map[string]struct{}, len(flow.Nodes))

	for _, node := range flow.Nodes {
		if node == nil {
			continue
		}

		if _, duplicate := seen[node.ID]; duplicate {
			return NewValidationError("Validate", "DUPLICATE_NODE_ID", "duplicate node id "+node.ID, ErrDuplicateNodeID)
		}

		seen[node.ID] = struct{}{}

		if f.nodes == nil {
			continue
		}

		violations, err := f.nodes.ValidateNodeData(node.Type, node.Data)
		if err != nil {
			return fmt.Errorf("failed to validate node %s: %w", node.ID, err)
		}

		if len(violations) > 0 {
			return NewValidationError(
				"Validate",
				"INVALID_NODE_DATA",
				fmt.Sprintf("node %s (%s): %s", node.ID, node.Type, strings.Join(violations, "; ")),
				ErrInvalidNodeData,
			)
		}
	}

	return nil
}

// Delete removes a flow by its ID.
func (f *Flow) Delete(ctx context.Context, id string) error {
	err := f.persistence.FlowRepository().Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete flow: %w", err)
	}

	return nil
}

// Toggle enables or disables a flow and returns it.
func (f *Flow) Toggle(ctx context.Context, id string, enabled bool) (*models.AutomationFlow, error) {
	err := f.persistence.FlowRepository().SetEnabled(ctx, id, enabled)
	if err != nil {
		return nil, fmt.Errorf("failed to toggle flow: %w", err)
	}

	return f.persistence.FlowRepository().GetByID(ctx, id)
}
