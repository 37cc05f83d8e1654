// Package trigger provides the trigger node, the entry point of every flow.
package trigger

import (
	"context"

	"github.com/Matheusbritto77/WBot/pkg/models"
)

// TriggerNode marks where a flow starts. Matching happens before execution,
// so visiting the node has no effect.
type TriggerNode struct {
	id string
}

// NewTriggerNode creates a new trigger node.
func NewTriggerNode(id string) *TriggerNode {
	return &TriggerNode{id: id}
}

// ID returns the node ID.
func (n *TriggerNode) ID() string {
	return n.id
}

// Type returns the node type.
func (n *TriggerNode) Type() models.NodeType {
	return models.NodeTypeTrigger
}

// Execute does nothing.
func (n *TriggerNode) Execute(context.Context, string, models.Variables) error {
	return nil
}
