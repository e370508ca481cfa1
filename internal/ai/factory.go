// Package ai wires generation providers to configuration.
package ai

import (
	"fmt"

	"github.com/ItsMeCK/AIInterview/internal/ai/ollama"
	"github.com/ItsMeCK/AIInterview/internal/ai/openai"
	"github.com/ItsMeCK/AIInterview/internal/config"
	"github.com/ItsMeCK/AIInterview/pkg/models"
)

// NewProvider constructs the appropriate generation provider based on
// config. Called once at server startup.
func NewProvider(cfg config.AIConfig) (models.LLMProvider, error) {
	switch cfg.Provider {
	case "ollama":
		return ollama.NewProvider(cfg.Ollama), nil
	case "openai":
		return openai.NewProvider(cfg.OpenAI), nil
	default:
		return nil, fmt.Errorf("unknown AI provider %q: must be one of ollama, openai", cfg.Provider)
	}
}
