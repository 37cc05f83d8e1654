// Package events defines the messages exchanged over the event bus.
package events

import (
	"time"

	"github.com/Matheusbritto77/WBot/pkg/models"
	"github.com/google/uuid"
)

type EventType string

// Topics.
const (
	InboundMessagesTopic = "wbot.messages.inbound" // messages received from the gateway
	ActivityTopic        = "wbot.activity"         // replies, flow runs and cron executions
)

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	MessageReceivedEvent EventType = "message.received"
	FlowExecutedEvent    EventType = "flow.executed"
	ActivityEvent        EventType = "bot.activity"
	CronJobExecutedEvent EventType = "cron_job.executed"
)

type BaseEvent struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

func newBaseEvent(eventType EventType) BaseEvent {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
	}
}

// MessageReceived carries an inbound chat message to the bot.
type MessageReceived struct {
	BaseEvent

	Message models.InboundMessage `json:"message"`
}

func NewMessageReceived(message models.InboundMessage) *MessageReceived {
	return &MessageReceived{BaseEvent: newBaseEvent(MessageReceivedEvent), Message: message}
}

func (MessageReceived) GetType() EventType {
	return MessageReceivedEvent
}

func (MessageReceived) Topic() string {
	return InboundMessagesTopic
}

// FlowExecuted reports a finished flow run.
type FlowExecuted struct {
	BaseEvent

	FlowID        string        `json:"flow_id"`
	FlowName      string        `json:"flow_name"`
	TriggerNodeID string        `json:"trigger_node_id,omitempty"`
	JID           string        `json:"jid"`
	VisitedNodes  []string      `json:"visited_nodes"`
	FailedNodes   []string      `json:"failed_nodes,omitempty"`
	Duration      time.Duration `json:"duration"`
}

func NewFlowExecuted(flowID, flowName, triggerNodeID, jid string) *FlowExecuted {
	return &FlowExecuted{
		BaseEvent:     newBaseEvent(FlowExecutedEvent),
		FlowID:        flowID,
		FlowName:      flowName,
		TriggerNodeID: triggerNodeID,
		JID:           jid,
	}
}

func (FlowExecuted) GetType() EventType {
	return FlowExecutedEvent
}

func (FlowExecuted) Topic() string {
	return ActivityTopic
}

// Activity is the feed entry shown to the operator for every answered message.
type Activity struct {
	BaseEvent

	JID      string `json:"jid"`
	Message  string `json:"message"`
	Response string `json:"response"`
	IsGroup  bool   `json:"is_group"`
}

func NewActivity(jid, message, response string, isGroup bool) *Activity {
	return &Activity{
		BaseEvent: newBaseEvent(ActivityEvent),
		JID:       jid,
		Message:   message,
		Response:  response,
		IsGroup:   isGroup,
	}
}

func (Activity) GetType() EventType {
	return ActivityEvent
}

func (Activity) Topic() string {
	return ActivityTopic
}

// CronJobExecuted reports a scheduled job run.
type CronJobExecuted struct {
	BaseEvent

	JobID     string `json:"job_id"`
	JobName   string `json:"job_name"`
	TargetJID string `json:"target_jid,omitempty"`
	FlowID    string `json:"flow_id,omitempty"`
	Error     string `json:"error,omitempty"`
}

func NewCronJobExecuted(job *models.CronJob, err error) *CronJobExecuted {
	event := &CronJobExecuted{
		BaseEvent: newBaseEvent(CronJobExecutedEvent),
		JobID:     job.ID,
		JobName:   job.Name,
		TargetJID: job.TargetJID,
		FlowID:    job.FlowID,
	}

	if err != nil {
		event.Error = err.Error()
	}

	return event
}

func (CronJobExecuted) GetType() EventType {
	return CronJobExecutedEvent
}

func (CronJobExecuted) Topic() string {
	return ActivityTopic
}
