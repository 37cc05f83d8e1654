// Package models defines the flow graph, message and scheduling models shared by the bot automation engine.
package models

import "time"

// TriggerType selects how a trigger node decides that an incoming message starts its flow.
type TriggerType string

const (
	TriggerTypeKeyword      TriggerType = "keyword"       // lowered message contains the value
	TriggerTypeExact        TriggerType = "exact"         // lowered message equals the value
	TriggerTypeStartsWith   TriggerType = "starts_with"   // lowered message starts with the value
	TriggerTypeRegex        TriggerType = "regex"         // value compiled case-insensitively
	TriggerTypeAnyMessage   TriggerType = "any_message"   // always matches
	TriggerTypeFirstMessage TriggerType = "first_message" // first message from a contact
	TriggerTypeMedia        TriggerType = "media"         // message carries image, video or audio
)

// AutomationFlow is a user-authored directed graph of nodes started by a trigger node.
// Nodes and Edges are kept in authoring order, which drives both trigger scanning
// and the order outgoing edges are followed.
type AutomationFlow struct {
	ID           string      `json:"id"                      yaml:"id"`
	Name         string      `json:"name"                    yaml:"name"                    validate:"required"`
	Description  string      `json:"description,omitempty"   yaml:"description,omitempty"`
	Nodes        []*FlowNode `json:"nodes"                   yaml:"nodes"                   validate:"dive"`
	Edges        []*FlowEdge `json:"edges"                   yaml:"edges"                   validate:"dive"`
	TriggerType  TriggerType `json:"trigger_type,omitempty"  yaml:"trigger_type,omitempty"`
	TriggerValue string      `json:"trigger_value,omitempty" yaml:"trigger_value,omitempty"`
	Enabled      bool        `json:"enabled"                 yaml:"enabled"`
	CreatedAt    time.Time   `json:"created_at"              yaml:"created_at,omitempty"`
	UpdatedAt    time.Time   `json:"updated_at"              yaml:"updated_at,omitempty"`
}

// NodeByID returns the node with the given id, or nil.
func (f *AutomationFlow) NodeByID(id string) *FlowNode {
	for _, node := range f.Nodes {
		if node != nil && node.ID == id {
			return node
		}
	}

	return nil
}

// TriggerNodes returns the trigger nodes in node order.
func (f *AutomationFlow) TriggerNodes() []*FlowNode {
	var triggers []*FlowNode

	for _, node := range f.Nodes {
		if node != nil && node.IsTrigger() {
			triggers = append(triggers, node)
		}
	}

	return triggers
}

// FirstTrigger returns the first trigger node in node order, or nil.
func (f *AutomationFlow) FirstTrigger() *FlowNode {
	for _, node := range f.Nodes {
		if node != nil && node.IsTrigger() {
			return node
		}
	}

	return nil
}

// OutgoingEdges returns the edges leaving nodeID in edge order.
func (f *AutomationFlow) OutgoingEdges(nodeID string) []*FlowEdge {
	var edges []*FlowEdge

	for _, edge := range f.Edges {
		if edge != nil && edge.Source == nodeID {
			edges = append(edges, edge)
		}
	}

	return edges
}

// EffectiveTrigger resolves the match type and value for a trigger node,
// falling back to the flow level fields and finally to an empty keyword.
func (f *AutomationFlow) EffectiveTrigger(node *FlowNode) (TriggerType, string) {
	matchType := TriggerType(node.DataString("trigger_type"))
	if matchType == "" {
		matchType = f.TriggerType
	}

	if matchType == "" {
		matchType = TriggerTypeKeyword
	}

	value := node.DataString("trigger_value")
	if value == "" {
		value = f.TriggerValue
	}

	return matchType, value
}
