package trigger

import (
	"context"

	"github.com/Matheusbritto77/WBot/pkg/models"
	"github.com/Matheusbritto77/WBot/pkg/protocol"
)

// TriggerNodeFactory creates TriggerNode instances.
type TriggerNodeFactory struct{}

// NewTriggerNodeFactory creates a new trigger node factory.
func NewTriggerNodeFactory() protocol.NodeFactory {
	return &TriggerNodeFactory{}
}

// Create creates a new TriggerNode instance.
func (f *TriggerNodeFactory) Create(_ context.Context, id string, _ map[string]any) (protocol.Node, error) {
	return NewTriggerNode(id), nil
}

// Type returns the node type built by the factory.
func (f *TriggerNodeFactory) Type() models.NodeType {
	return models.NodeTypeTrigger
}

// Name returns the factory name.
func (f *TriggerNodeFactory) Name() string {
	return "Trigger"
}

// Description returns the factory description.
func (f *TriggerNodeFactory) Description() string {
	return "Starts the flow when an incoming message matches the configured trigger"
}

// Schema returns the JSON schema for trigger node data.
func (f *TriggerNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"trigger_type": map[string]any{
				"type":        "string",
				"description": "How the message is matched. Falls back to the flow trigger type, then keyword.",
				"enum": []string{
					string(models.TriggerTypeKeyword),
					string(models.TriggerTypeExact),
					string(models.TriggerTypeStartsWith),
					string(models.TriggerTypeRegex),
					string(models.TriggerTypeAnyMessage),
					string(models.TriggerTypeFirstMessage),
					string(models.TriggerTypeMedia),
					"",
				},
			},
			"trigger_value": map[string]any{
				"type":        "string",
				"description": "Keyword, exact text, prefix or regular expression compared case-insensitively",
				"examples":    []string{"preço", "menu", "^(oi|olá)"},
			},
		},
	}
}
