package airesponse

import (
	"context"

	"github.com/Matheusbritto77/WBot/pkg/models"
	"github.com/Matheusbritto77/WBot/pkg/protocol"
)

// AIResponseNodeFactory creates AIResponseNode instances.
type AIResponseNodeFactory struct {
	responder protocol.TextResponder
	sink      protocol.MessageSink
}

// NewAIResponseNodeFactory creates a new factory instance.
func NewAIResponseNodeFactory(responder protocol.TextResponder, sink protocol.MessageSink) protocol.NodeFactory {
	return &AIResponseNodeFactory{responder: responder, sink: sink}
}

// Create creates a new AIResponseNode instance.
func (f *AIResponseNodeFactory) Create(_ context.Context, id string, data map[string]any) (protocol.Node, error) {
	return NewAIResponseNode(id, data, f.responder, f.sink)
}

// Type returns the node type built by the factory.
func (f *AIResponseNodeFactory) Type() models.NodeType {
	return models.NodeTypeAIResponse
}

// Name returns the factory name.
func (f *AIResponseNodeFactory) Name() string {
	return "AI Response"
}

// Description returns the factory description.
func (f *AIResponseNodeFactory) Description() string {
	return "Answers the incoming message with the AI model and stores the answer in {{_aiResponse}}"
}

// Schema returns the JSON schema for AI response node data.
func (f *AIResponseNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"prompt": map[string]any{
				"type":        "string",
				"description": "Instruction given to the model. Supports {{variable}} placeholders.",
				"default":     models.DefaultAIResponsePrompt,
				"examples":    []string{"Você é a atendente da loja {{loja}}. Seja breve."},
			},
		},
	}
}
