package protocol

import (
	"context"
	"log/slog"
	"time"

	"github.com/Matheusbritto77/WBot/pkg/models"
)

// FlowStore lists the flows eligible for trigger matching.
type FlowStore interface {
	// EnabledFlows returns enabled flows, newest first.
	EnabledFlows(ctx context.Context) ([]*models.AutomationFlow, error)
}

// MessageSink delivers outbound messages to a chat.
type MessageSink interface {
	Send(ctx context.Context, jid string, message models.OutboundMessage) error
}

// TextResponder produces an AI generated reply to userMessage under the
// instruction given by prompt.
type TextResponder interface {
	Respond(ctx context.Context, prompt, userMessage string) (string, error)
}

// ImageResponder is implemented by responders that can also look at an image
// sent along with userMessage.
type ImageResponder interface {
	RespondWithImage(ctx context.Context, prompt, userMessage string, image *models.InboundImage) (string, error)
}

// HTTPClient performs the requests issued by http_request nodes.
type HTTPClient interface {
	Fetch(ctx context.Context, request models.HTTPRequest) (*models.HTTPResponse, error)
}

// Timer suspends a flow run. Sleep returns ctx.Err() when the context ends first.
type Timer interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// Dependencies contains the collaborators native nodes are built with.
type Dependencies struct {
	Logger    *slog.Logger
	Sink      MessageSink
	Responder TextResponder
	HTTP      HTTPClient
	Timer     Timer
}
