package delay

import (
	"context"

	"github.com/Matheusbritto77/WBot/pkg/models"
	"github.com/Matheusbritto77/WBot/pkg/protocol"
)

// DelayNodeFactory creates DelayNode instances.
type DelayNodeFactory struct {
	timer protocol.Timer
}

// NewDelayNodeFactory creates a new factory instance.
func NewDelayNodeFactory(timer protocol.Timer) protocol.NodeFactory {
	return &DelayNodeFactory{timer: timer}
}

// Create creates a new DelayNode instance.
func (f *DelayNodeFactory) Create(_ context.Context, id string, data map[string]any) (protocol.Node, error) {
	return NewDelayNode(id, data, f.timer), nil
}

// Type returns the node type built by the factory.
func (f *DelayNodeFactory) Type() models.NodeType {
	return models.NodeTypeDelay
}

// Name returns the factory name.
func (f *DelayNodeFactory) Name() string {
	return "Delay"
}

// Description returns the factory description.
func (f *DelayNodeFactory) Description() string {
	return "Waits a number of seconds before the flow continues"
}

// Schema returns the JSON schema for delay node data.
func (f *DelayNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"seconds": map[string]any{
				"type":        []string{"number", "string"},
				"description": "Seconds to wait. Defaults to 1.",
				"default":     DefaultSeconds,
				"examples":    []any{2, 0.5, "10"},
			},
		},
	}
}
