// Package workflow matches inbound messages to automation flows and runs the flow graph.
package workflow

import (
	"context"
	"log/slog"
	"time"

	"github.com/Matheusbritto77/WBot/pkg/models"
	"github.com/Matheusbritto77/WBot/pkg/protocol"
	"github.com/Matheusbritto77/WBot/pkg/registry"
	"github.com/jonboulle/clockwork"
	"go.opentelemetry.io/otel/trace"
)

// Engine is the entry point used by the bot and the scheduler: it finds the
// flow for a message and executes it with a freshly seeded variable set.
type Engine struct {
	matcher  *TriggerMatcher
	executor *Executor
	clock    clockwork.Clock
	logger   *slog.Logger
}

// NewEngine wires a matcher over store and an executor dispatching through registry.
func NewEngine(
	store protocol.FlowStore,
	registry *registry.Registry,
	tracer trace.Tracer,
	clock clockwork.Clock,
	logger *slog.Logger,
) *Engine {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	return &Engine{
		matcher:  NewTriggerMatcher(store, logger),
		executor: NewExecutor(NewDispatcher(registry, logger), tracer, logger),
		clock:    clock,
		logger:   logger.With("module", "engine"),
	}
}

// FindMatchingFlow returns the first enabled flow whose trigger accepts body, or nil.
func (e *Engine) FindMatchingFlow(ctx context.Context, body string, isFirstMessage, hasMedia bool) (*MatchResult, error) {
	return e.matcher.FindMatchingFlow(ctx, body, isFirstMessage, hasMedia)
}

// ExecuteFlow runs flow for jid. initialVars are copied into the run before
// _jid, _message and _timestamp are set, so the reserved keys always describe
// the current message. An empty triggerNodeID starts at the first trigger node.
func (e *Engine) ExecuteFlow(
	ctx context.Context,
	flow *models.AutomationFlow,
	jid, body, triggerNodeID string,
	initialVars map[string]any,
) *RunResult {
	if flow == nil {
		return &RunResult{}
	}

	started := e.clock.Now()
	vars := models.NewVariables(initialVars, jid, body, started)

	e.logger.InfoContext(ctx, "Executing flow", "flow_id", flow.ID, "flow_name", flow.Name, "jid", jid)

	result := e.executor.Execute(ctx, flow, jid, triggerNodeID, vars)

	e.logger.InfoContext(ctx, "Flow finished",
		"flow_id", flow.ID,
		"visited", len(result.Visited),
		"failures", len(result.Failures),
		"duration", e.clock.Since(started).Round(time.Millisecond),
	)

	return result
}
