package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/ItsMeCK/AIInterview/internal/config"
	"github.com/ItsMeCK/AIInterview/pkg/models"
)

// Provider implements models.LLMProvider using the OpenAI chat API.
type Provider struct {
	client *openai.Client
	model  string
}

func NewProvider(cfg config.OpenAIConfig) *Provider {
	return &Provider{
		client: openai.NewClient(cfg.APIKey),
		model:  cfg.Model,
	}
}

func (p *Provider) Name() string { return "openai" }

func (p *Provider) Chat(ctx context.Context, req models.ChatRequest) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	for _, m := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	chatReq := openai.ChatCompletionRequest{
		Model:       p.model,
		Messages:    messages,
		Temperature: req.Temperature,
	}
	if req.JSONMode {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := p.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("openai chat: %w", models.ErrInferenceTimeout)
		}
		return "", fmt.Errorf("openai chat: %v: %w", err, models.ErrProviderUnavailable)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai chat returned no choices: %w", models.ErrInvalidResponse)
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

var _ models.LLMProvider = (*Provider)(nil)
