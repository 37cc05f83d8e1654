package workflow

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Matheusbritto77/WBot/pkg/models"
	"github.com/Matheusbritto77/WBot/pkg/otelhelper"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// RunResult describes what a flow run did.
type RunResult struct {
	// Visited lists node ids in the order they were executed.
	Visited  []string
	Failures []*NodeError
}

// Failed reports whether any node failed.
func (r *RunResult) Failed() bool {
	return len(r.Failures) > 0
}

// Executor walks a flow graph depth first from a start node, dispatching each
// node once and following outgoing edges in edge order.
type Executor struct {
	dispatcher *Dispatcher
	tracer     trace.Tracer
	logger     *slog.Logger
}

func NewExecutor(dispatcher *Dispatcher, tracer trace.Tracer, logger *slog.Logger) *Executor {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("wbot")
	}

	return &Executor{
		dispatcher: dispatcher,
		tracer:     tracer,
		logger:     logger.With("module", "executor"),
	}
}

// Execute runs flow for jid. An empty startNodeID starts at the first trigger
// node; a flow without one does nothing. Node failures are logged and recorded
// without stopping the traversal. The run stops early only when ctx ends.
func (e *Executor) Execute(ctx context.Context, flow *models.AutomationFlow, jid, startNodeID string, vars models.Variables) *RunResult {
	result := &RunResult{}

	if flow == nil {
		return result
	}

	if startNodeID == "" {
		trigger := flow.FirstTrigger()
		if trigger == nil {
			e.logger.DebugContext(ctx, "Flow has no trigger node", "flow_id", flow.ID)

			return result
		}

		startNodeID = trigger.ID
	}

	ctx, span := otelhelper.StartSpan(ctx, e.tracer, "flow.execute",
		attribute.String(otelhelper.FlowIDKey, flow.ID),
		attribute.String(otelhelper.FlowNameKey, flow.Name),
		attribute.String(otelhelper.TriggerNodeIDKey, startNodeID),
	)
	defer span.End()

	if vars == nil {
		vars = models.Variables{}
	}

	e.visit(ctx, flow, jid, startNodeID, vars, make(map[string]struct{}), result)

	span.SetAttributes(attribute.Int("wbot.flow.visited", len(result.Visited)))

	if result.Failed() {
		span.SetAttributes(attribute.Int("wbot.flow.failures", len(result.Failures)))
	}

	return result
}

func (e *Executor) visit(
	ctx context.Context,
	flow *models.AutomationFlow,
	jid, nodeID string,
	vars models.Variables,
	visited map[string]struct{},
	result *RunResult,
) {
	if ctx.Err() != nil {
		return
	}

	if _, seen := visited[nodeID]; seen {
		return
	}

	visited[nodeID] = struct{}{}

	node := flow.NodeByID(nodeID)
	if node == nil {
		return
	}

	result.Visited = append(result.Visited, nodeID)

	e.dispatch(ctx, flow, jid, node, vars, result)

	for _, edge := range e.nextEdges(flow, node, vars) {
		e.visit(ctx, flow, jid, edge.Target, vars, visited, result)
	}
}

func (e *Executor) dispatch(ctx context.Context, flow *models.AutomationFlow, jid string, node *models.FlowNode, vars models.Variables, result *RunResult) {
	ctx, span := otelhelper.StartSpan(ctx, e.tracer, "node."+string(node.Type),
		attribute.String(otelhelper.NodeIDKey, node.ID),
		attribute.String(otelhelper.NodeTypeKey, string(node.Type)),
	)
	defer span.End()

	err := e.dispatcher.Dispatch(ctx, jid, node, vars)
	if err == nil {
		return
	}

	var nodeErr *NodeError
	if !errors.As(err, &nodeErr) {
		nodeErr = &NodeError{NodeID: node.ID, NodeType: node.Type, Err: err}
	}

	result.Failures = append(result.Failures, nodeErr)
	otelhelper.SetError(span, err)

	e.logger.ErrorContext(ctx, "Node failed, continuing flow",
		"flow_id", flow.ID,
		"node_id", node.ID,
		"node_type", node.Type,
		"error", nodeErr.Err,
	)
}

// nextEdges selects the edges to follow after node ran. Condition nodes follow
// only the edges whose handle names the evaluated branch; edges without a
// handle are never taken from a condition node.
func (e *Executor) nextEdges(flow *models.AutomationFlow, node *models.FlowNode, vars models.Variables) []*models.FlowEdge {
	edges := flow.OutgoingEdges(node.ID)
	if node.Type != models.NodeTypeCondition {
		return edges
	}

	branch := models.HandleFalse
	if vars.Truthy(models.VarConditionResult) {
		branch = models.HandleTrue
	}

	selected := edges[:0:0]

	for _, edge := range edges {
		if edge.SourceHandle == branch {
			selected = append(selected, edge)
		}
	}

	return selected
}
