package main

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/Matheusbritto77/WBot/pkg/bot"
	"github.com/Matheusbritto77/WBot/pkg/channels/gochannel"
	"github.com/Matheusbritto77/WBot/pkg/eventbus"
	"github.com/Matheusbritto77/WBot/pkg/events"
	"github.com/Matheusbritto77/WBot/pkg/models"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	mu       sync.Mutex
	messages []models.InboundMessage
	err      error
}

func (h *recordingHandler) HandleMessage(_ context.Context, msg models.InboundMessage) (bot.Outcome, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.messages = append(h.messages, msg)

	return bot.OutcomeAI, h.err
}

func (h *recordingHandler) received() []models.InboundMessage {
	h.mu.Lock()
	defer h.mu.Unlock()

	return append([]models.InboundMessage(nil), h.messages...)
}

func newTestEventBus(t *testing.T) *eventbus.WatermillEventBus {
	t.Helper()

	pub, sub, err := gochannel.CreateTestChannel(watermill.NopLogger{})
	require.NoError(t, err)

	bus := eventbus.NewWatermillEventBus(slog.New(slog.DiscardHandler), pub, sub)
	t.Cleanup(func() { _ = bus.Close() })

	return bus
}

func TestBotManager_HandlesInboundMessages(t *testing.T) {
	bus := newTestEventBus(t)
	handler := &recordingHandler{}
	manager := NewBotManager(bus, handler, slog.New(slog.DiscardHandler))

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	require.NoError(t, manager.Start(ctx))

	for _, body := range []string{"oi", "menu"} {
		msg := models.InboundMessage{JID: "5511@s.whatsapp.net", Body: body}
		require.NoError(t, bus.Publish(ctx, msg.JID, events.NewMessageReceived(msg)))
	}

	require.NoError(t, bus.Publish(ctx, "5511@s.whatsapp.net", events.NewActivity("5511@s.whatsapp.net", "oi", "olá", false)))

	assert.Eventually(t, func() bool {
		return len(handler.received()) == 2
	}, 5*time.Second, 10*time.Millisecond)

	waitCtx, waitCancel := context.WithTimeout(context.Background(), time.Second)
	defer waitCancel()

	require.NoError(t, manager.Wait(waitCtx))

	bodies := []string{handler.received()[0].Body, handler.received()[1].Body}
	assert.ElementsMatch(t, []string{"oi", "menu"}, bodies)
}

func TestBotManager_HandlerErrorsDoNotStopConsumption(t *testing.T) {
	bus := newTestEventBus(t)
	handler := &recordingHandler{err: errors.New("gateway down")}
	manager := NewBotManager(bus, handler, slog.New(slog.DiscardHandler))

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	require.NoError(t, manager.Start(ctx))

	for _, body := range []string{"1", "2", "3"} {
		msg := models.InboundMessage{JID: "123@g.us", Body: body}
		require.NoError(t, bus.Publish(ctx, msg.JID, events.NewMessageReceived(msg)))
	}

	assert.Eventually(t, func() bool {
		return len(handler.received()) == 3
	}, 5*time.Second, 10*time.Millisecond)
}

func TestBotManager_WaitHonorsContext(t *testing.T) {
	manager := NewBotManager(newTestEventBus(t), &recordingHandler{}, slog.New(slog.DiscardHandler))
	manager.wg.Add(1)
	defer manager.wg.Done()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, manager.Wait(ctx), context.Canceled)
}
