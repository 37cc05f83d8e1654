package sqlbase

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Matheusbritto77/WBot/pkg/models"
	"github.com/Matheusbritto77/WBot/pkg/persistence"
	"github.com/google/uuid"
)

const flowColumns = `
	id
  , name
  , description
  , nodes
  , edges
  , trigger_type
  , trigger_value
  , enabled
  , created_at
  , updated_at
`

// FlowRepository handles automation_flows operations.
type FlowRepository struct {
	db      *sql.DB
	dialect Dialect
	logger  *slog.Logger
}

// NewFlowRepository creates a new flow repository.
func NewFlowRepository(db *sql.DB, dialect Dialect, logger *slog.Logger) *FlowRepository {
	return &FlowRepository{db: db, dialect: dialect, logger: logger}
}

// GetAll returns all flows, newest first.
func (r *FlowRepository) GetAll(ctx context.Context) ([]*models.AutomationFlow, error) {
	return r.query(ctx, "SELECT "+flowColumns+" FROM automation_flows ORDER BY created_at DESC, id DESC")
}

// GetEnabled returns enabled flows, newest first.
func (r *FlowRepository) GetEnabled(ctx context.Context) ([]*models.AutomationFlow, error) {
	return r.query(ctx, "SELECT "+flowColumns+" FROM automation_flows WHERE enabled = ? ORDER BY created_at DESC, id DESC", true)
}

func (r *FlowRepository) query(ctx context.Context, query string, args ...any) ([]*models.AutomationFlow, error) {
	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query flows: %w", err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	flows := make([]*models.AutomationFlow, 0)

	for rows.Next() {
		flow, err := scanFlow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan flow: %w", err)
		}

		flows = append(flows, flow)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating flows: %w", err)
	}

	return flows, nil
}

// GetByID returns the flow or a FlowError wrapping persistence.ErrFlowNotFound.
func (r *FlowRepository) GetByID(ctx context.Context, id string) (*models.AutomationFlow, error) {
	row := r.db.QueryRowContext(ctx, r.dialect.Rebind("SELECT "+flowColumns+" FROM automation_flows WHERE id = ?"), id)

	flow, err := scanFlow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.NewFlowError("GetByID", id, persistence.ErrFlowNotFound)
		}

		return nil, persistence.NewFlowError("GetByID", id, err)
	}

	return flow, nil
}

// Save upserts the flow. An existing row keeps its created_at.
func (r *FlowRepository) Save(ctx context.Context, flow *models.AutomationFlow) error {
	now := time.Now().UTC()

	if flow.ID == "" {
		flow.ID = uuid.NewString()
	}

	if flow.CreatedAt.IsZero() {
		flow.CreatedAt = now
	}

	flow.UpdatedAt = now

	nodes, err := json.Marshal(nonNilNodes(flow.Nodes))
	if err != nil {
		return persistence.NewFlowError("Save", flow.ID, fmt.Errorf("failed to marshal nodes: %w", err))
	}

	edges, err := json.Marshal(nonNilEdges(flow.Edges))
	if err != nil {
		return persistence.NewFlowError("Save", flow.ID, fmt.Errorf("failed to marshal edges: %w", err))
	}

	query := `
		INSERT INTO automation_flows (` + flowColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name
		  , description = excluded.description
		  , nodes = excluded.nodes
		  , edges = excluded.edges
		  , trigger_type = excluded.trigger_type
		  , trigger_value = excluded.trigger_value
		  , enabled = excluded.enabled
		  , updated_at = excluded.updated_at
	`

	_, err = r.db.ExecContext(ctx, r.dialect.Rebind(query),
		flow.ID,
		flow.Name,
		flow.Description,
		string(nodes),
		string(edges),
		string(flow.TriggerType),
		flow.TriggerValue,
		flow.Enabled,
		flow.CreatedAt.UTC(),
		flow.UpdatedAt,
	)
	if err != nil {
		return persistence.NewFlowError("Save", flow.ID, err)
	}

	var createdAt time.Time

	err = r.db.QueryRowContext(ctx, r.dialect.Rebind("SELECT created_at FROM automation_flows WHERE id = ?"), flow.ID).Scan(&createdAt)
	if err != nil {
		return persistence.NewFlowError("Save", flow.ID, fmt.Errorf("failed to read created_at: %w", err))
	}

	flow.CreatedAt = createdAt.UTC()

	return nil
}

// SetEnabled toggles the flow without touching its graph.
func (r *FlowRepository) SetEnabled(ctx context.Context, id string, enabled bool) error {
	result, err := r.db.ExecContext(ctx,
		r.dialect.Rebind("UPDATE automation_flows SET enabled = ?, updated_at = ? WHERE id = ?"),
		enabled, time.Now().UTC(), id,
	)

	return checkAffected(result, err, func(err error) error {
		return persistence.NewFlowError("SetEnabled", id, err)
	}, persistence.ErrFlowNotFound)
}

// Delete removes the flow.
func (r *FlowRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, r.dialect.Rebind("DELETE FROM automation_flows WHERE id = ?"), id)

	return checkAffected(result, err, func(err error) error {
		return persistence.NewFlowError("Delete", id, err)
	}, persistence.ErrFlowNotFound)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanFlow(row scanner) (*models.AutomationFlow, error) {
	var (
		flow         models.AutomationFlow
		nodes, edges []byte
		triggerType  string
		description  sql.NullString
		triggerValue sql.NullString
	)

	err := row.Scan(
		&flow.ID,
		&flow.Name,
		&description,
		&nodes,
		&edges,
		&triggerType,
		&triggerValue,
		&flow.Enabled,
		&flow.CreatedAt,
		&flow.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	flow.Description = description.String
	flow.TriggerType = models.TriggerType(triggerType)
	flow.TriggerValue = triggerValue.String
	flow.CreatedAt = flow.CreatedAt.UTC()
	flow.UpdatedAt = flow.UpdatedAt.UTC()

	flow.Nodes = []*models.FlowNode{}
	if len(nodes) > 0 {
		err = json.Unmarshal(nodes, &flow.Nodes)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal nodes of flow %s: %w", flow.ID, err)
		}
	}

	flow.Edges = []*models.FlowEdge{}
	if len(edges) > 0 {
		err = json.Unmarshal(edges, &flow.Edges)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal edges of flow %s: %w", flow.ID, err)
		}
	}

	return &flow, nil
}

func nonNilNodes(nodes []*models.FlowNode) []*models.FlowNode {
	if nodes == nil {
		return []*models.FlowNode{}
	}

	return nodes
}

func nonNilEdges(edges []*models.FlowEdge) []*models.FlowEdge {
	if edges == nil {
		return []*models.FlowEdge{}
	}

	return edges
}

// checkAffected turns a zero row count into notFound, wrapping every error with wrap.
func checkAffected(result sql.Result, err error, wrap func(error) error, notFound error) error {
	if err != nil {
		return wrap(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return wrap(err)
	}

	if affected == 0 {
		return wrap(notFound)
	}

	return nil
}
