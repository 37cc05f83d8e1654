// Package bot decides how the bot answers each inbound chat message: ignore
// it, block the sender, run a matching automation flow or fall back to an AI
// reply.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/Matheusbritto77/WBot/pkg/eventbus"
	"github.com/Matheusbritto77/WBot/pkg/events"
	"github.com/Matheusbritto77/WBot/pkg/models"
	"github.com/Matheusbritto77/WBot/pkg/protocol"
	"github.com/Matheusbritto77/WBot/pkg/seen"
	"github.com/Matheusbritto77/WBot/pkg/services"
	"github.com/Matheusbritto77/WBot/pkg/workflow"
	"github.com/jonboulle/clockwork"
)

// Outcome is what HandleMessage did with a message.
type Outcome string

const (
	OutcomeIgnored Outcome = "ignored"
	OutcomeBlocked Outcome = "blocked"
	OutcomeFlow    Outcome = "flow"
	OutcomeAI      Outcome = "ai"
	OutcomeNoReply Outcome = "no_reply"
)

// FlowEngine matches messages to flows and runs them.
type FlowEngine interface {
	FindMatchingFlow(ctx context.Context, body string, isFirstMessage, hasMedia bool) (*workflow.MatchResult, error)
	ExecuteFlow(ctx context.Context, flow *models.AutomationFlow, jid, body, triggerNodeID string, initialVars map[string]any) *workflow.RunResult
}

// Dependencies are the collaborators of a Controller. Publisher and Clock are optional.
type Dependencies struct {
	Settings  *services.Settings
	Stats     *services.Stats
	Engine    FlowEngine
	Seen      seen.Tracker
	Responder protocol.TextResponder
	Sink      protocol.MessageSink
	Publisher eventbus.EventPublisher
	Clock     clockwork.Clock
}

type Controller struct {
	deps   Dependencies
	logger *slog.Logger
}

func NewController(deps Dependencies, logger *slog.Logger) *Controller {
	if deps.Clock == nil {
		deps.Clock = clockwork.NewRealClock()
	}

	return &Controller{
		deps:   deps,
		logger: logger.With("module", "bot_controller"),
	}
}

// HandleMessage runs msg through the reply pipeline. Errors are returned only
// for failures after the message was accepted for a reply.
func (c *Controller) HandleMessage(ctx context.Context, msg models.InboundMessage) (Outcome, error) {
	if msg.JID == "" || msg.IsBroadcast() {
		return OutcomeIgnored, nil
	}

	logger := c.logger.With("jid", msg.JID)
	logger.DebugContext(ctx, "Received message", "from_me", msg.FromMe)

	if !c.accepts(ctx, msg) {
		return OutcomeIgnored, nil
	}

	blocked, err := c.deps.Settings.IsBlocked(ctx, msg.JID)
	if err != nil {
		return OutcomeIgnored, fmt.Errorf("failed to read blocked contacts: %w", err)
	}

	if blocked {
		logger.DebugContext(ctx, "Ignoring blocked contact")

		return OutcomeIgnored, nil
	}

	blockWord := strings.ToLower(strings.TrimSpace(c.setting(ctx, models.SettingBlockWord, models.DefaultBlockWord)))
	body := strings.ToLower(strings.TrimSpace(msg.Body))

	if msg.FromMe {
		if body != blockWord {
			return OutcomeIgnored, nil
		}

		logger.InfoContext(ctx, "Owner sent the block word, blocking chat", "block_word", blockWord)

		return OutcomeBlocked, c.deps.Settings.BlockContact(ctx, msg.JID)
	}

	if blockWord != "" && strings.Contains(body, blockWord) {
		logger.InfoContext(ctx, "Contact sent the block word, blocking", "block_word", blockWord)

		return OutcomeBlocked, c.deps.Settings.BlockContact(ctx, msg.JID)
	}

	isFirstMessage, err := c.deps.Seen.MarkSeen(ctx, msg.JID)
	if err != nil {
		logger.WarnContext(ctx, "Seen tracker failed, treating as returning chat", "error", err)

		isFirstMessage = false
	}

	match, err := c.deps.Engine.FindMatchingFlow(ctx, msg.Body, isFirstMessage, msg.CarriesMedia())
	if err != nil {
		logger.ErrorContext(ctx, "Failed to match flows", "error", err)
	}

	if match != nil {
		return OutcomeFlow, c.runFlow(ctx, msg, match)
	}

	return c.replyWithAI(ctx, msg)
}

// accepts applies the auto_reply switch and the group rules.
func (c *Controller) accepts(ctx context.Context, msg models.InboundMessage) bool {
	if c.setting(ctx, models.SettingAutoReply, "") == "false" {
		return false
	}

	if !msg.IsGroup() {
		return true
	}

	if c.setting(ctx, models.SettingRespondGroups, "") != "true" {
		return false
	}

	allowed := services.SplitList(c.setting(ctx, models.SettingAllowedGroups, ""), nil)

	return len(allowed) == 0 || slices.Contains(allowed, msg.JID)
}

func (c *Controller) setting(ctx context.Context, key, fallback string) string {
	value, err := c.deps.Settings.GetOrDefault(ctx, key, fallback)
	if err != nil {
		c.logger.WarnContext(ctx, "Failed to read setting", "key", key, "error", err)
	}

	return value
}

func (c *Controller) runFlow(ctx context.Context, msg models.InboundMessage, match *workflow.MatchResult) error {
	flow := match.Flow
	c.logger.InfoContext(ctx, "Automation flow activated", "jid", msg.JID, "flow_id", flow.ID, "flow_name", flow.Name)

	started := c.deps.Clock.Now()
	result := c.deps.Engine.ExecuteFlow(ctx, flow, msg.JID, msg.Body, match.TriggerNodeID, nil)

	c.count(ctx, models.StatTotalMessages, models.StatMonthlyMessages, models.StatFlowRuns)

	executed := events.NewFlowExecuted(flow.ID, flow.Name, match.TriggerNodeID, msg.JID)
	executed.VisitedNodes = result.Visited
	executed.Duration = c.deps.Clock.Since(started)

	for _, failure := range result.Failures {
		executed.FailedNodes = append(executed.FailedNodes, failure.NodeID)
	}

	c.publish(ctx, msg.JID, executed)
	c.publish(ctx, msg.JID, events.NewActivity(msg.JID, msg.Body, "[Fluxo: "+flow.Name+"]", msg.IsGroup()))

	return nil
}

func (c *Controller) replyWithAI(ctx context.Context, msg models.InboundMessage) (Outcome, error) {
	prompt := c.setting(ctx, models.SettingAgentPrompt, models.DefaultAgentPrompt)

	reply, err := c.respond(ctx, prompt, msg)
	if err != nil {
		return OutcomeNoReply, fmt.Errorf("failed to generate reply: %w", err)
	}

	if reply == "" {
		return OutcomeNoReply, nil
	}

	err = c.deps.Sink.Send(ctx, msg.JID, models.TextMessage(reply))
	if err != nil {
		return OutcomeNoReply, fmt.Errorf("failed to send reply: %w", err)
	}

	c.count(ctx, models.StatTotalMessages, models.StatMonthlyMessages, models.StatAIReplies)
	c.publish(ctx, msg.JID, events.NewActivity(msg.JID, msg.Body, reply, msg.IsGroup()))

	return OutcomeAI, nil
}

func (c *Controller) respond(ctx context.Context, prompt string, msg models.InboundMessage) (string, error) {
	if msg.Image != nil && len(msg.Image.Data) > 0 {
		if responder, ok := c.deps.Responder.(protocol.ImageResponder); ok {
			return responder.RespondWithImage(ctx, prompt, msg.Body, msg.Image)
		}

		c.logger.DebugContext(ctx, "Responder ignores images", "jid", msg.JID)
	}

	return c.deps.Responder.Respond(ctx, prompt, msg.Body)
}

func (c *Controller) count(ctx context.Context, keys ...string) {
	if c.deps.Stats == nil {
		return
	}

	err := c.deps.Stats.Increment(ctx, keys...)
	if err != nil {
		c.logger.WarnContext(ctx, "Failed to update stats", "error", err)
	}
}

func (c *Controller) publish(ctx context.Context, key string, event eventbus.Event) {
	if c.deps.Publisher == nil {
		return
	}

	err := c.deps.Publisher.Publish(ctx, key, event)
	if err != nil {
		c.logger.WarnContext(ctx, "Failed to publish event", "event_type", event.GetType(), "error", err)
	}
}
