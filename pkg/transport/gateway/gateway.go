// Package gateway delivers outbound messages to the WhatsApp gateway over HTTP.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Matheusbritto77/WBot/pkg/models"
	"github.com/go-resty/resty/v2"
)

var ErrGatewayRejected = errors.New("gateway rejected message")

// SendRequest is the body posted to <gateway>/messages.
type SendRequest struct {
	JID     string                 `json:"jid"`
	Message models.OutboundMessage `json:"message"`
}

// Config configures the gateway sink.
type Config struct {
	BaseURL    string
	Token      string
	Timeout    time.Duration
	MaxRetries int
}

// Sink implements protocol.MessageSink by posting to the gateway.
type Sink struct {
	client *resty.Client
	logger *slog.Logger
}

// NewSink creates a gateway sink for cfg.BaseURL.
func NewSink(cfg Config, logger *slog.Logger) *Sink {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	client := resty.New().
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.MaxRetries).
		SetRetryWaitTime(200 * time.Millisecond).
		SetHeader("Content-Type", "application/json")

	if cfg.Token != "" {
		client.SetAuthToken(cfg.Token)
	}

	return &Sink{
		client: client,
		logger: logger.With("module", "gateway_sink"),
	}
}

func (s *Sink) Send(ctx context.Context, jid string, message models.OutboundMessage) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(SendRequest{JID: jid, Message: message}).
		Post("/messages")
	if err != nil {
		return fmt.Errorf("failed to send message to %s: %w", jid, err)
	}

	if resp.IsError() {
		return fmt.Errorf("%w: status %d: %s", ErrGatewayRejected, resp.StatusCode(), strings.TrimSpace(resp.String()))
	}

	s.logger.DebugContext(ctx, "Message sent", "jid", jid, "kind", message.Kind)

	return nil
}

// LogSink writes outbound messages to the log instead of delivering them.
// It is used when no gateway is configured.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink creates a log-only sink.
func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger.With("module", "log_sink")}
}

func (s *LogSink) Send(ctx context.Context, jid string, message models.OutboundMessage) error {
	s.logger.InfoContext(ctx, "Outbound message",
		"jid", jid,
		"kind", message.Kind,
		"text", message.Text,
		"media_url", message.MediaURL,
	)

	return nil
}
