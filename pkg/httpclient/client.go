// Package httpclient performs the outbound requests of http_request nodes.
package httpclient

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Matheusbritto77/WBot/pkg/models"
	"github.com/go-resty/resty/v2"
)

// DefaultTimeout bounds a single request.
const DefaultTimeout = 30 * time.Second

// Config configures the client.
type Config struct {
	Timeout    time.Duration
	MaxRetries int
	RetryWait  time.Duration
	UserAgent  string
	Debug      bool
}

// Client implements protocol.HTTPClient on top of resty.
type Client struct {
	client *resty.Client
	logger *slog.Logger
}

// New creates a client. Zero values in cfg fall back to sensible defaults.
func New(cfg Config, logger *slog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	if cfg.RetryWait <= 0 {
		cfg.RetryWait = 100 * time.Millisecond
	}

	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.MaxRetries).
		SetRetryWaitTime(cfg.RetryWait).
		SetDebug(cfg.Debug)

	if cfg.UserAgent != "" {
		client.SetHeader("User-Agent", cfg.UserAgent)
	}

	return &Client{
		client: client,
		logger: logger.With("module", "http_client"),
	}
}

// Fetch sends request and returns the status and body text. Non 2xx statuses
// are returned as responses, not errors. Bodies on GET and HEAD are dropped.
func (c *Client) Fetch(ctx context.Context, request models.HTTPRequest) (*models.HTTPResponse, error) {
	method := strings.ToUpper(request.Method)
	if method == "" {
		method = http.MethodGet
	}

	r := c.client.R().
		SetContext(ctx).
		SetHeaders(request.Headers)

	if request.Body != "" {
		if method == http.MethodGet || method == http.MethodHead {
			c.logger.DebugContext(ctx, "Dropping request body", "method", method, "url", request.URL)
		} else {
			r.SetBody(request.Body)
		}
	}

	resp, err := r.Execute(method, request.URL)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}

	c.logger.DebugContext(ctx, "HTTP request completed",
		"method", method,
		"url", request.URL,
		"status", resp.StatusCode(),
		"duration", resp.Time(),
	)

	return &models.HTTPResponse{
		Status: resp.StatusCode(),
		Body:   resp.String(),
	}, nil
}
