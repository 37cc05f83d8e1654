package workflow

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Matheusbritto77/WBot/pkg/models"
	"github.com/Matheusbritto77/WBot/pkg/registry"
)

// Dispatcher runs a single flow node through the node factory registered for its type.
type Dispatcher struct {
	registry *registry.Registry
	logger   *slog.Logger
}

func NewDispatcher(registry *registry.Registry, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		logger:   logger.With("module", "dispatcher"),
	}
}

// Dispatch builds and executes node for the chat jid. Node types without a
// registered factory are skipped. Every failure, panics included, is returned
// as a *NodeError.
func (d *Dispatcher) Dispatch(ctx context.Context, jid string, node *models.FlowNode, vars models.Variables) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &NodeError{NodeID: node.ID, NodeType: node.Type, Err: fmt.Errorf("%w: %v", ErrNodePanic, r)}
		}
	}()

	if !d.registry.IsRegistered(node.Type) {
		d.logger.DebugContext(ctx, "Skipping node of unsupported type", "node_id", node.ID, "node_type", node.Type)

		return nil
	}

	instance, err := d.registry.CreateNode(ctx, node.Type, node.ID, node.Data)
	if err != nil {
		return &NodeError{NodeID: node.ID, NodeType: node.Type, Err: err}
	}

	if err := instance.Execute(ctx, jid, vars); err != nil {
		return &NodeError{NodeID: node.ID, NodeType: node.Type, Err: err}
	}

	return nil
}
