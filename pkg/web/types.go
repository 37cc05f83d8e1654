// Package web provides the HTTP handlers of the bot management API.
package web

import (
	"github.com/Matheusbritto77/WBot/pkg/models"
	"github.com/Matheusbritto77/WBot/pkg/workflow"
)

// ToggleRequest enables or disables a flow or cron job.
type ToggleRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

// ExecuteFlowRequest runs a flow by hand against a chat.
type ExecuteFlowRequest struct {
	JID       string         `json:"jid"       validate:"required"`
	Message   string         `json:"message"`
	Variables map[string]any `json:"variables"`
}

// SettingRequest sets a single setting value.
type SettingRequest struct {
	Value *string `json:"value" validate:"required"`
}

// ContactRequest names a chat to block.
type ContactRequest struct {
	JID string `json:"jid" validate:"required"`
}

// CreateCronJobRequest is the body of POST /cron-jobs.
type CreateCronJobRequest struct {
	ID        string `json:"id"`
	Name      string `json:"name"       validate:"required"`
	Schedule  string `json:"schedule"   validate:"required"`
	Prompt    string `json:"prompt"`
	TargetJID string `json:"target_jid"`
	FlowID    string `json:"flow_id"`
}

// NodeFailure describes a node that failed during a manual run.
type NodeFailure struct {
	NodeID   string          `json:"node_id"`
	NodeType models.NodeType `json:"node_type"`
	Error    string          `json:"error"`
}

// ExecuteFlowResponse reports a manual run.
type ExecuteFlowResponse struct {
	FlowID   string        `json:"flow_id"`
	JID      string        `json:"jid"`
	Visited  []string      `json:"visited"`
	Failures []NodeFailure `json:"failures"`
}

// NewExecuteFlowResponse builds the response for result.
func NewExecuteFlowResponse(flowID, jid string, result *workflow.RunResult) ExecuteFlowResponse {
	response := ExecuteFlowResponse{
		FlowID:   flowID,
		JID:      jid,
		Visited:  result.Visited,
		Failures: make([]NodeFailure, 0, len(result.Failures)),
	}

	if response.Visited == nil {
		response.Visited = []string{}
	}

	for _, failure := range result.Failures {
		response.Failures = append(response.Failures, NodeFailure{
			NodeID:   failure.NodeID,
			NodeType: failure.NodeType,
			Error:    failure.Err.Error(),
		})
	}

	return response
}

// NodeTypeResponse describes a node type the editor can place.
type NodeTypeResponse struct {
	Type        models.NodeType `json:"type"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Schema      map[string]any  `json:"schema"`
}
