package mock

import (
	"context"
	"sync"

	"github.com/ItsMeCK/AIInterview/pkg/models"
)

// MockProvider satisfies models.LLMProvider for testing.
type MockProvider struct {
	Name_    string
	ChatFunc func(ctx context.Context, req models.ChatRequest) (string, error)
}

func (m *MockProvider) Name() string { return m.Name_ }

func (m *MockProvider) Chat(ctx context.Context, req models.ChatRequest) (string, error) {
	if m.ChatFunc != nil {
		return m.ChatFunc(ctx, req)
	}
	return "", nil
}

// NewScriptedProvider returns a MockProvider that plays back the given
// responses in order. Calls past the end repeat the final response.
func NewScriptedProvider(responses ...string) *MockProvider {
	var mu sync.Mutex
	i := 0
	return &MockProvider{
		Name_: "mock",
		ChatFunc: func(_ context.Context, _ models.ChatRequest) (string, error) {
			mu.Lock()
			defer mu.Unlock()
			resp := responses[i]
			if i < len(responses)-1 {
				i++
			}
			return resp, nil
		},
	}
}

// NewFailingProvider returns a MockProvider that always returns the given error.
func NewFailingProvider(err error) *MockProvider {
	return &MockProvider{
		Name_: "mock-failing",
		ChatFunc: func(_ context.Context, _ models.ChatRequest) (string, error) {
			return "", err
		},
	}
}

// NewTimeoutProvider returns a MockProvider that blocks until context is cancelled.
func NewTimeoutProvider() *MockProvider {
	return &MockProvider{
		Name_: "mock-timeout",
		ChatFunc: func(ctx context.Context, _ models.ChatRequest) (string, error) {
			<-ctx.Done()
			return "", models.ErrInferenceTimeout
		},
	}
}

// Compile-time check that MockProvider implements LLMProvider.
var _ models.LLMProvider = (*MockProvider)(nil)
