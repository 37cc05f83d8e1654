package cmd

import (
	"fmt"
	"log/slog"

	"github.com/Matheusbritto77/WBot/pkg/channels/gochannel"
	"github.com/Matheusbritto77/WBot/pkg/channels/kafka"
	"github.com/Matheusbritto77/WBot/pkg/eventbus"
	"github.com/ThreeDotsLabs/watermill"
)

const serviceName = "wbot"

// NewEventBus creates the event bus for provider ("gochannel" or "kafka").
func NewEventBus(provider string, kafkaBrokers []string, logger *slog.Logger) (*eventbus.WatermillEventBus, error) {
	wmLogger := watermill.NewSlogLogger(logger)

	switch provider {
	case "", "gochannel":
		pub, sub, err := gochannel.CreateChannel(wmLogger)
		if err != nil {
			return nil, fmt.Errorf("failed to create in-memory pub/sub: %w", err)
		}

		return eventbus.NewWatermillEventBus(logger, pub, sub), nil
	case "kafka":
		pub, sub, err := kafka.CreateChannel(wmLogger, serviceName, kafkaBrokers)
		if err != nil {
			return nil, fmt.Errorf("failed to create Kafka pub/sub: %w", err)
		}

		return eventbus.NewWatermillEventBus(logger, pub, sub), nil
	default:
		return nil, fmt.Errorf("unsupported event bus provider: %s", provider)
	}
}
