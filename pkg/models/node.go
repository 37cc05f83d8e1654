package models

import "github.com/spf13/cast"

// NodeType identifies the behavior a node performs when visited.
type NodeType string

const (
	NodeTypeTrigger     NodeType = "trigger"
	NodeTypeSendText    NodeType = "send_text"
	NodeTypeSendImage   NodeType = "send_image"
	NodeTypeSendAudio   NodeType = "send_audio"
	NodeTypeSendVideo   NodeType = "send_video"
	NodeTypeSendPoll    NodeType = "send_poll"
	NodeTypeSendButtons NodeType = "send_buttons"
	NodeTypeAIResponse  NodeType = "ai_response"
	NodeTypeDelay       NodeType = "delay"
	NodeTypeCondition   NodeType = "condition"
	NodeTypeSetVariable NodeType = "set_variable"
	NodeTypeHTTPRequest NodeType = "http_request"
)

// FlowNode is a single step in an AutomationFlow. Data holds the type specific
// configuration exactly as authored in the editor. Position is editor state
// and is stored untouched.
type FlowNode struct {
	ID       string         `json:"id"                 yaml:"id"                 validate:"required"`
	Type     NodeType       `json:"type"               yaml:"type"               validate:"required"`
	Data     map[string]any `json:"data"               yaml:"data"`
	Position map[string]any `json:"position,omitempty" yaml:"position,omitempty"`
}

// IsTrigger reports whether the node is a trigger node.
func (n *FlowNode) IsTrigger() bool {
	return n.Type == NodeTypeTrigger
}

// DataString returns Data[key] as a string. Missing keys and values that
// cannot be represented as a string yield "".
func (n *FlowNode) DataString(key string) string {
	if n.Data == nil {
		return ""
	}

	value, ok := n.Data[key]
	if !ok || value == nil {
		return ""
	}

	s, err := cast.ToStringE(value)
	if err != nil {
		return ""
	}

	return s
}

// Source handles of the two branches leaving a condition node.
const (
	HandleTrue  = "true"
	HandleFalse = "false"
)

// FlowEdge is a directed link between two nodes. SourceHandle selects the
// branch (HandleTrue or HandleFalse) when the source is a condition node.
type FlowEdge struct {
	ID           string `json:"id"                     yaml:"id"`
	Source       string `json:"source"                 yaml:"source"                 validate:"required"`
	Target       string `json:"target"                 yaml:"target"                 validate:"required"`
	SourceHandle string `json:"sourceHandle,omitempty" yaml:"sourceHandle,omitempty"`
	Label        string `json:"label,omitempty"        yaml:"label,omitempty"`
}
