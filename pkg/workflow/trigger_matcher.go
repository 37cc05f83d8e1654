package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/Matheusbritto77/WBot/pkg/models"
	"github.com/Matheusbritto77/WBot/pkg/protocol"
)

// MatchResult is the flow and trigger node that accepted a message.
type MatchResult struct {
	Flow          *models.AutomationFlow
	TriggerNodeID string
	MatchType     models.TriggerType
}

// TriggerMatcher finds the first enabled flow whose trigger accepts a message.
type TriggerMatcher struct {
	store  protocol.FlowStore
	logger *slog.Logger
}

// NewTriggerMatcher creates a new trigger matcher.
func NewTriggerMatcher(store protocol.FlowStore, logger *slog.Logger) *TriggerMatcher {
	return &TriggerMatcher{
		store:  store,
		logger: logger.With("module", "trigger_matcher"),
	}
}

// FindMatchingFlow loads the enabled flows and returns the first match, or nil.
// An error is returned only when the flows cannot be listed.
func (tm *TriggerMatcher) FindMatchingFlow(ctx context.Context, body string, isFirstMessage, hasMedia bool) (*MatchResult, error) {
	flows, err := tm.store.EnabledFlows(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing enabled flows: %w", err)
	}

	return tm.MatchFlows(flows, body, isFirstMessage, hasMedia), nil
}

// MatchFlows scans flows in order, and the trigger nodes of each flow in node
// order, returning the first trigger that accepts the message.
func (tm *TriggerMatcher) MatchFlows(flows []*models.AutomationFlow, body string, isFirstMessage, hasMedia bool) *MatchResult {
	message := strings.ToLower(strings.TrimSpace(body))

	for _, flow := range flows {
		if flow == nil || !flow.Enabled {
			continue
		}

		for _, node := range flow.TriggerNodes() {
			matchType, value := flow.EffectiveTrigger(node)

			if MatchTrigger(matchType, strings.ToLower(value), message, isFirstMessage, hasMedia) {
				tm.logger.Debug("Found matching flow",
					"flow_id", flow.ID,
					"flow_name", flow.Name,
					"trigger_node_id", node.ID,
					"trigger_type", matchType,
				)

				return &MatchResult{Flow: flow, TriggerNodeID: node.ID, MatchType: matchType}
			}
		}
	}

	return nil
}

// MatchTrigger applies one trigger rule to an already lowered and trimmed
// message. Unknown match types and invalid regular expressions never match.
func MatchTrigger(matchType models.TriggerType, value, message string, isFirstMessage, hasMedia bool) bool {
	switch matchType {
	case models.TriggerTypeKeyword:
		return strings.Contains(message, value)
	case models.TriggerTypeExact:
		return message == value
	case models.TriggerTypeStartsWith:
		return strings.HasPrefix(message, value)
	case models.TriggerTypeRegex:
		pattern, err := regexp.Compile("(?i)" + value)
		if err != nil {
			return false
		}

		return pattern.MatchString(message)
	case models.TriggerTypeAnyMessage:
		return true
	case models.TriggerTypeFirstMessage:
		return isFirstMessage
	case models.TriggerTypeMedia:
		return hasMedia
	default:
		return false
	}
}
