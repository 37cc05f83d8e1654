package mocks

import (
	"context"
	"time"

	"github.com/Matheusbritto77/WBot/pkg/models"
	"github.com/stretchr/testify/mock"
)

// MockMessageSink is a mock implementation of protocol.MessageSink interface.
type MockMessageSink struct {
	mock.Mock
}

func (m *MockMessageSink) Send(ctx context.Context, jid string, message models.OutboundMessage) error {
	args := m.Called(ctx, jid, message)

	return args.Error(0)
}

// MockTextResponder is a mock implementation of protocol.TextResponder interface.
type MockTextResponder struct {
	mock.Mock
}

func (m *MockTextResponder) Respond(ctx context.Context, prompt, userMessage string) (string, error) {
	args := m.Called(ctx, prompt, userMessage)

	return args.String(0), args.Error(1)
}

func (m *MockTextResponder) RespondWithImage(ctx context.Context, prompt, userMessage string, image *models.InboundImage) (string, error) {
	args := m.Called(ctx, prompt, userMessage, image)

	return args.String(0), args.Error(1)
}

// MockHTTPClient is a mock implementation of protocol.HTTPClient interface.
type MockHTTPClient struct {
	mock.Mock
}

func (m *MockHTTPClient) Fetch(ctx context.Context, request models.HTTPRequest) (*models.HTTPResponse, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.HTTPResponse), args.Error(1)
}

// MockTimer is a mock implementation of protocol.Timer interface.
type MockTimer struct {
	mock.Mock
}

func (m *MockTimer) Sleep(ctx context.Context, d time.Duration) error {
	args := m.Called(ctx, d)

	return args.Error(0)
}

// MockFlowStore is a mock implementation of protocol.FlowStore interface.
type MockFlowStore struct {
	mock.Mock
}

func (m *MockFlowStore) EnabledFlows(ctx context.Context) ([]*models.AutomationFlow, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*models.AutomationFlow), args.Error(1)
}
