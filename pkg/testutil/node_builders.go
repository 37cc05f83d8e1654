// Package testutil provides test data builders and utilities for testing.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Matheusbritto77/WBot/pkg/models"
	"github.com/google/uuid"
)

// CreateTestFlow creates an enabled AutomationFlow with default values that can be overridden.
func CreateTestFlow(overrides ...func(*models.AutomationFlow)) *models.AutomationFlow {
	now := time.Now().UTC()
	flow := &models.AutomationFlow{
		ID:          uuid.New().String(),
		Name:        "Test Flow",
		TriggerType: models.TriggerTypeKeyword,
		Nodes:       []*models.FlowNode{},
		Edges:       []*models.FlowEdge{},
		Enabled:     true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	for _, override := range overrides {
		override(flow)
	}

	return flow
}

// WithNodes appends nodes to the flow.
func WithNodes(nodes ...*models.FlowNode) func(*models.AutomationFlow) {
	return func(f *models.AutomationFlow) {
		f.Nodes = append(f.Nodes, nodes...)
	}
}

// WithEdges appends edges to the flow.
func WithEdges(edges ...*models.FlowEdge) func(*models.AutomationFlow) {
	return func(f *models.AutomationFlow) {
		f.Edges = append(f.Edges, edges...)
	}
}

// WithFlowTrigger sets the flow level trigger fallback.
func WithFlowTrigger(triggerType models.TriggerType, value string) func(*models.AutomationFlow) {
	return func(f *models.AutomationFlow) {
		f.TriggerType = triggerType
		f.TriggerValue = value
	}
}

// WithFlowName sets the flow name.
func WithFlowName(name string) func(*models.AutomationFlow) {
	return func(f *models.AutomationFlow) {
		f.Name = name
	}
}

// WithEnabled sets the flow enabled status.
func WithEnabled(enabled bool) func(*models.AutomationFlow) {
	return func(f *models.AutomationFlow) {
		f.Enabled = enabled
	}
}

// WithCreatedAt sets the flow creation time.
func WithCreatedAt(createdAt time.Time) func(*models.AutomationFlow) {
	return func(f *models.AutomationFlow) {
		f.CreatedAt = createdAt
		f.UpdatedAt = createdAt
	}
}

// Node creates a FlowNode.
func Node(id string, nodeType models.NodeType, data map[string]any) *models.FlowNode {
	return &models.FlowNode{ID: id, Type: nodeType, Data: data}
}

// Trigger creates a trigger node with the given match type and value.
func Trigger(id string, triggerType models.TriggerType, value string) *models.FlowNode {
	return Node(id, models.NodeTypeTrigger, map[string]any{
		"trigger_type":  string(triggerType),
		"trigger_value": value,
	})
}

// SendText creates a send_text node.
func SendText(id, text string) *models.FlowNode {
	return Node(id, models.NodeTypeSendText, map[string]any{"text": text})
}

// Edge creates an edge between two nodes.
func Edge(source, target string) *models.FlowEdge {
	return &models.FlowEdge{ID: fmt.Sprintf("%s-%s", source, target), Source: source, Target: target}
}

// BranchEdge creates an edge leaving a condition node through handle.
func BranchEdge(source, handle, target string) *models.FlowEdge {
	edge := Edge(source, target)
	edge.ID += "-" + handle
	edge.SourceHandle = handle

	return edge
}

// SentMessage is a message captured by RecordingSink.
type SentMessage struct {
	JID     string
	Message models.OutboundMessage
}

// RecordingSink is a protocol.MessageSink that records every message in send order.
type RecordingSink struct {
	mu       sync.Mutex
	messages []SentMessage
	Err      error
}

func (s *RecordingSink) Send(_ context.Context, jid string, message models.OutboundMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return s.Err
	}

	s.messages = append(s.messages, SentMessage{JID: jid, Message: message})

	return nil
}

// Messages returns a copy of the recorded messages.
func (s *RecordingSink) Messages() []SentMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]SentMessage(nil), s.messages...)
}

// Texts returns the text of every recorded message.
func (s *RecordingSink) Texts() []string {
	messages := s.Messages()
	texts := make([]string, len(messages))

	for i, message := range messages {
		texts[i] = message.Message.Text
	}

	return texts
}
