package main

import (
	"context"
	"log/slog"
	"sync"

	"github.com/Matheusbritto77/WBot/pkg/bot"
	"github.com/Matheusbritto77/WBot/pkg/eventbus"
	"github.com/Matheusbritto77/WBot/pkg/events"
	"github.com/Matheusbritto77/WBot/pkg/models"
)

// MessageHandler answers a single inbound message.
type MessageHandler interface {
	HandleMessage(ctx context.Context, msg models.InboundMessage) (bot.Outcome, error)
}

// BotManager feeds inbound messages from the event bus to the bot, one
// goroutine per message, and logs the activity feed.
type BotManager struct {
	eventBus eventbus.EventSubscriber
	handler  MessageHandler
	logger   *slog.Logger
	wg       sync.WaitGroup
}

func NewBotManager(eventBus eventbus.EventSubscriber, handler MessageHandler, logger *slog.Logger) *BotManager {
	return &BotManager{
		eventBus: eventBus,
		handler:  handler,
		logger:   logger.With("module", "bot_manager"),
	}
}

func (m *BotManager) Start(ctx context.Context) error {
	m.logger.InfoContext(ctx, "Starting bot manager")

	err := m.eventBus.Handle(events.MessageReceivedEvent, func(ctx context.Context, event any) error {
		received, ok := event.(*events.MessageReceived)
		if !ok {
			m.logger.ErrorContext(ctx, "Unexpected event payload", "event", event)

			return nil
		}

		m.wg.Add(1)

		go func() {
			defer m.wg.Done()

			m.handle(ctx, received)
		}()

		return nil
	})
	if err != nil {
		return err
	}

	err = m.eventBus.Handle(events.ActivityEvent, func(ctx context.Context, event any) error {
		if activity, ok := event.(*events.Activity); ok {
			m.logger.InfoContext(ctx, "Bot activity",
				"jid", activity.JID,
				"message", activity.Message,
				"response", activity.Response,
				"is_group", activity.IsGroup,
			)
		}

		return nil
	})
	if err != nil {
		return err
	}

	return m.eventBus.Subscribe(ctx)
}

func (m *BotManager) handle(ctx context.Context, received *events.MessageReceived) {
	logger := m.logger.With("event_id", received.ID, "jid", received.Message.JID)

	outcome, err := m.handler.HandleMessage(ctx, received.Message)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to handle message", "outcome", outcome, "error", err)

		return
	}

	logger.DebugContext(ctx, "Message handled", "outcome", outcome)
}

// Wait blocks until in-flight messages are handled or ctx ends.
func (m *BotManager) Wait(ctx context.Context) error {
	done := make(chan struct{})

	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
