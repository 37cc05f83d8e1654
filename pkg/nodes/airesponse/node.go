// Package airesponse provides the node that replies with text generated by the AI responder.
package airesponse

import (
	"context"
	"errors"
	"fmt"

	"github.com/Matheusbritto77/WBot/pkg/models"
	"github.com/Matheusbritto77/WBot/pkg/nodes"
	"github.com/Matheusbritto77/WBot/pkg/protocol"
	"github.com/Matheusbritto77/WBot/pkg/template"
)

var ErrNotConfigured = errors.New("ai_response node requires a responder and a message sink")

type Config struct {
	Prompt string `json:"prompt"`
}

// AIResponseNode asks the responder to answer the run's message, stores the
// answer in _aiResponse and sends it as text.
type AIResponseNode struct {
	id        string
	prompt    string
	responder protocol.TextResponder
	sink      protocol.MessageSink
}

// NewAIResponseNode creates a new AI response node.
func NewAIResponseNode(id string, data map[string]any, responder protocol.TextResponder, sink protocol.MessageSink) (*AIResponseNode, error) {
	var config Config
	if err := nodes.Decode(data, &config); err != nil {
		return nil, err
	}

	if config.Prompt == "" {
		config.Prompt = models.DefaultAIResponsePrompt
	}

	return &AIResponseNode{id: id, prompt: config.Prompt, responder: responder, sink: sink}, nil
}

// ID returns the node ID.
func (n *AIResponseNode) ID() string {
	return n.id
}

// Type returns the node type.
func (n *AIResponseNode) Type() models.NodeType {
	return models.NodeTypeAIResponse
}

// Execute generates and sends the reply.
func (n *AIResponseNode) Execute(ctx context.Context, jid string, vars models.Variables) error {
	if n.responder == nil || n.sink == nil {
		return ErrNotConfigured
	}

	reply, err := n.responder.Respond(ctx, template.Interpolate(n.prompt, vars), vars.Message())
	if err != nil {
		return fmt.Errorf("generating reply: %w", err)
	}

	vars[models.VarAIResponse] = reply

	return n.sink.Send(ctx, jid, models.TextMessage(reply))
}
