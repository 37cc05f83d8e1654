package conditional

import (
	"context"

	"github.com/Matheusbritto77/WBot/pkg/models"
	"github.com/Matheusbritto77/WBot/pkg/protocol"
)

// ConditionalNodeFactory creates ConditionalNode instances.
type ConditionalNodeFactory struct{}

// Create creates a new ConditionalNode instance.
func (f *ConditionalNodeFactory) Create(_ context.Context, id string, data map[string]any) (protocol.Node, error) {
	return NewConditionalNode(id, data)
}

// Type returns the node type built by the factory.
func (f *ConditionalNodeFactory) Type() models.NodeType {
	return models.NodeTypeCondition
}

// Name returns the factory name.
func (f *ConditionalNodeFactory) Name() string {
	return "Condition"
}

// Description returns the factory description.
func (f *ConditionalNodeFactory) Description() string {
	return "Compares two values and continues through the true or false branch."
}

// Schema returns the JSON schema for condition node data.
func (f *ConditionalNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"left": map[string]any{
				"type":        "string",
				"description": "Left operand. Supports {{variable}} placeholders. With the expr operator, a boolean expression over the variables.",
				"examples":    []string{"{{_message}}", "{{_httpStatus}}", `_httpStatus == 200 && _message contains "pix"`},
			},
			"operator": map[string]any{
				"type":    "string",
				"default": string(OperatorEquals),
				"enum": []string{
					string(OperatorEquals),
					string(OperatorNotEquals),
					string(OperatorContains),
					string(OperatorNotContains),
					string(OperatorGreater),
					string(OperatorLess),
					string(OperatorExpr),
				},
			},
			"right": map[string]any{
				"type":        "string",
				"description": "Right operand. Supports {{variable}} placeholders.",
			},
		},
		"examples": []map[string]any{
			{"left": "{{_message}}", "operator": "contains", "right": "ajuda"},
			{"left": "{{idade}}", "operator": ">", "right": "17"},
		},
	}
}

// NewConditionalNodeFactory creates a new factory instance.
func NewConditionalNodeFactory() protocol.NodeFactory {
	return &ConditionalNodeFactory{}
}
