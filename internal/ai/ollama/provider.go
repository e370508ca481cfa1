package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ItsMeCK/AIInterview/internal/config"
	"github.com/ItsMeCK/AIInterview/pkg/models"
)

// Provider implements models.LLMProvider against a local Ollama server's
// /api/chat endpoint. Request deadlines come from the caller's context;
// the HTTP client itself has no timeout.
type Provider struct {
	cfg        config.OllamaConfig
	httpClient *http.Client
}

func NewProvider(cfg config.OllamaConfig) *Provider {
	return &Provider{
		cfg:        cfg,
		httpClient: &http.Client{},
	}
}

func (p *Provider) Name() string { return "ollama" }

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Format   string        `json:"format,omitempty"`
	Options  chatOptions   `json:"options"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatOptions struct {
	Temperature float32 `json:"temperature"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
	Done    bool        `json:"done"`
}

func (p *Provider) Chat(ctx context.Context, req models.ChatRequest) (string, error) {
	messages := make([]chatMessage, 0, len(req.Messages)+1)
	if req.System != "" {
		messages = append(messages, chatMessage{Role: models.RoleSystem, Content: req.System})
	}
	for _, m := range req.Messages {
		messages = append(messages, chatMessage{Role: m.Role, Content: m.Content})
	}

	body := chatRequest{
		Model:    p.cfg.Model,
		Messages: messages,
		Stream:   false,
		Options:  chatOptions{Temperature: req.Temperature},
	}
	if req.JSONMode {
		body.Format = "json"
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal ollama request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.cfg.BaseURL+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build ollama request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("ollama chat: %w", models.ErrInferenceTimeout)
		}
		return "", fmt.Errorf("ollama chat: %v: %w", err, models.ErrProviderUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("ollama chat returned status %d: %s: %w",
			resp.StatusCode, strings.TrimSpace(string(snippet)), models.ErrProviderUnavailable)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode ollama response: %w", models.ErrInvalidResponse)
	}
	content := strings.TrimSpace(parsed.Message.Content)
	if content == "" {
		return "", fmt.Errorf("ollama chat returned empty message: %w", models.ErrInvalidResponse)
	}
	return content, nil
}

var _ models.LLMProvider = (*Provider)(nil)
