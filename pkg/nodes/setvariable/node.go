// Package setvariable provides the node that assigns an interpolated value to a run variable.
package setvariable

import (
	"context"

	"github.com/Matheusbritto77/WBot/pkg/models"
	"github.com/Matheusbritto77/WBot/pkg/nodes"
	"github.com/Matheusbritto77/WBot/pkg/protocol"
	"github.com/Matheusbritto77/WBot/pkg/template"
)

// DefaultName is the variable written when the node has no name.
const DefaultName = "var"

type Config struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// SetVariableNode writes vars[name] = interpolate(value).
type SetVariableNode struct {
	id     string
	config Config
}

// NewSetVariableNode creates a new set_variable node.
func NewSetVariableNode(id string, data map[string]any) (*SetVariableNode, error) {
	var config Config
	if err := nodes.Decode(data, &config); err != nil {
		return nil, err
	}

	if config.Name == "" {
		config.Name = DefaultName
	}

	return &SetVariableNode{id: id, config: config}, nil
}

// ID returns the node ID.
func (n *SetVariableNode) ID() string {
	return n.id
}

// Type returns the node type.
func (n *SetVariableNode) Type() models.NodeType {
	return models.NodeTypeSetVariable
}

// Execute assigns the variable.
func (n *SetVariableNode) Execute(_ context.Context, _ string, vars models.Variables) error {
	vars[n.config.Name] = template.Interpolate(n.config.Value, vars)

	return nil
}

// SetVariableNodeFactory creates SetVariableNode instances.
type SetVariableNodeFactory struct{}

// NewSetVariableNodeFactory creates a new factory instance.
func NewSetVariableNodeFactory() protocol.NodeFactory {
	return &SetVariableNodeFactory{}
}

// Create creates a new SetVariableNode instance.
func (f *SetVariableNodeFactory) Create(_ context.Context, id string, data map[string]any) (protocol.Node, error) {
	return NewSetVariableNode(id, data)
}

func (f *SetVariableNodeFactory) Type() models.NodeType {
	return models.NodeTypeSetVariable
}

func (f *SetVariableNodeFactory) Name() string {
	return "Set Variable"
}

func (f *SetVariableNodeFactory) Description() string {
	return "Stores an interpolated value in a variable available to later nodes"
}

// Schema returns the JSON schema for set_variable node data.
func (f *SetVariableNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name": map[string]any{
				"type":        "string",
				"description": "Variable name. Defaults to var.",
				"pattern":     `^\w*$`,
			},
			"value": map[string]any{
				"type":        []string{"string", "number", "boolean"},
				"description": "Value to store. Supports {{variable}} placeholders.",
			},
		},
	}
}
