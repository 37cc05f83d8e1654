// Package ai produces chat replies with Google Gemini through langchaingo.
package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Matheusbritto77/WBot/pkg/models"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

// DefaultModel is used when neither the flag nor the gemini_model setting names one.
const DefaultModel = "gemini-2.0-flash"

var (
	ErrNotConfigured = errors.New("gemini API key not configured")
	ErrEmptyResponse = errors.New("model returned no content")
)

// ModelSource returns the model to use for the next call, or "" for the default.
type ModelSource func(ctx context.Context) string

// Responder implements protocol.TextResponder on top of an llms.Model.
type Responder struct {
	model        llms.Model
	defaultModel string
	modelSource  ModelSource
	logger       *slog.Logger
}

// NewResponder wraps model. source may be nil.
func NewResponder(model llms.Model, defaultModel string, source ModelSource, logger *slog.Logger) *Responder {
	if defaultModel == "" {
		defaultModel = DefaultModel
	}

	return &Responder{
		model:        model,
		defaultModel: defaultModel,
		modelSource:  source,
		logger:       logger.With("module", "ai_responder"),
	}
}

// NewGeminiResponder creates a Gemini backed responder.
func NewGeminiResponder(ctx context.Context, apiKey, defaultModel string, source ModelSource, logger *slog.Logger) (*Responder, error) {
	if apiKey == "" {
		return nil, ErrNotConfigured
	}

	if defaultModel == "" {
		defaultModel = DefaultModel
	}

	client, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(defaultModel),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return NewResponder(client, defaultModel, source, logger), nil
}

// Respond answers userMessage following the system instruction prompt.
func (r *Responder) Respond(ctx context.Context, prompt, userMessage string) (string, error) {
	return r.generate(ctx, prompt, llms.TextParts(llms.ChatMessageTypeHuman, userMessage))
}

// RespondWithImage answers userMessage with image attached to the same user turn.
// A nil or empty image behaves like Respond.
func (r *Responder) RespondWithImage(ctx context.Context, prompt, userMessage string, image *models.InboundImage) (string, error) {
	if image == nil || len(image.Data) == 0 {
		return r.Respond(ctx, prompt, userMessage)
	}

	human := llms.MessageContent{
		Role: llms.ChatMessageTypeHuman,
		Parts: []llms.ContentPart{
			llms.BinaryPart(image.MimeType, image.Data),
			llms.TextPart(userMessage),
		},
	}

	return r.generate(ctx, prompt, human)
}

func (r *Responder) generate(ctx context.Context, prompt string, human llms.MessageContent) (string, error) {
	modelName := r.defaultModel
	if r.modelSource != nil {
		if name := strings.TrimSpace(r.modelSource(ctx)); name != "" {
			modelName = name
		}
	}

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, prompt),
		human,
	}

	resp, err := r.model.GenerateContent(ctx, messages, llms.WithModel(modelName))
	if err != nil {
		return "", fmt.Errorf("gemini %s: %w", modelName, err)
	}

	if resp == nil || len(resp.Choices) == 0 || resp.Choices[0] == nil {
		return "", ErrEmptyResponse
	}

	r.logger.DebugContext(ctx, "Generated reply", "model", modelName, "length", len(resp.Choices[0].Content))

	return resp.Choices[0].Content, nil
}

// Unconfigured is the responder used when no API key is available.
type Unconfigured struct{}

func (Unconfigured) Respond(context.Context, string, string) (string, error) {
	return "", ErrNotConfigured
}

func (Unconfigured) RespondWithImage(context.Context, string, string, *models.InboundImage) (string, error) {
	return "", ErrNotConfigured
}
