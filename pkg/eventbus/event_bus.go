// Package eventbus carries bot events between the gateway, the bot workers and the activity feed.
package eventbus

import (
	"context"
	"errors"

	"github.com/Matheusbritto77/WBot/pkg/events"
)

var ErrUnknownEventType = errors.New("unknown event type")

type Event interface {
	GetType() events.EventType
	Topic() string
}

type EventPublisher interface {
	Publish(ctx context.Context, key string, event Event) error
}

type EventSubscriber interface {
	Handle(eventType events.EventType, handler EventHandler) error
	Subscribe(ctx context.Context) error
}

type EventHandler func(ctx context.Context, event any) error

type EventBus interface {
	EventPublisher
	EventSubscriber
	Close() error
	GenerateID() string
}

// newEvent returns an empty event of the given type, ready to be decoded into.
func newEvent(eventType events.EventType) (Event, error) {
	switch eventType {
	case events.MessageReceivedEvent:
		return &events.MessageReceived{}, nil
	case events.FlowExecutedEvent:
		return &events.FlowExecuted{}, nil
	case events.ActivityEvent:
		return &events.Activity{}, nil
	case events.CronJobExecutedEvent:
		return &events.CronJobExecuted{}, nil
	default:
		return nil, ErrUnknownEventType
	}
}
