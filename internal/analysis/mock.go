package analysis

import (
	"context"

	"github.com/HEMANT2027/StreamSightAI/internal/domain"
)

// MockClient is a test double for Client.
type MockClient struct {
	EndpointName string
	SubmitFunc   func(ctx context.Context, prompt string, media *domain.Attachment, sessionID string) (string, error)
	HealthFunc   func(ctx context.Context) bool
}

func (m *MockClient) Name() string {
	if m.EndpointName != "" {
		return m.EndpointName
	}
	return "mock"
}

func (m *MockClient) Submit(ctx context.Context, prompt string, media *domain.Attachment, sessionID string) (string, error) {
	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, prompt, media, sessionID)
	}
	return "mock response", nil
}

func (m *MockClient) Health(ctx context.Context) bool {
	if m.HealthFunc != nil {
		return m.HealthFunc(ctx)
	}
	return true
}
