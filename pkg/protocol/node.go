// Package protocol defines the contracts between the flow engine, the node
// implementations it dispatches to and the collaborators those nodes call.
package protocol

import (
	"context"

	"github.com/Matheusbritto77/WBot/pkg/models"
)

// Node is a configured flow node ready to run for the chat jid against the
// variables of a flow run. Execute may mutate vars; the mutation is visible to
// every node visited afterwards.
type Node interface {
	ID() string
	Type() models.NodeType
	Execute(ctx context.Context, jid string, vars models.Variables) error
}

// NodeFactory creates node instances and provides metadata about the node type.
type NodeFactory interface {
	// Create builds a node from the data authored in the editor
	Create(ctx context.Context, id string, data map[string]any) (Node, error)

	// Type returns the node type this factory builds
	Type() models.NodeType

	// Name returns the human-readable name for this node type
	Name() string

	// Description returns a description of what this node does
	Description() string

	// Schema returns the JSON schema for the node data
	Schema() map[string]any
}
