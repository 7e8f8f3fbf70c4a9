// Package llm abstracts the language-model backends used by the trip planner.
// The backend is chosen once at startup; nothing re-resolves providers per
// call.
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aviranmz/thedude/internal/config"
)

// Provider completes a prompt. Implementations wrap one vendor API each.
type Provider interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Name() string
}

// New selects and constructs the configured provider.
func New(cfg *config.Config) (Provider, error) {
	timeout := 30 * time.Second

	switch strings.ToLower(cfg.LLMProvider) {
	case "openai":
		return NewOpenAI(cfg.OpenAIAPIKey, timeout), nil
	case "claude":
		return NewAnthropic(cfg.AnthropicAPIKey, timeout), nil
	case "gemini":
		return NewGemini(cfg.GeminiAPIKey, timeout), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q", cfg.LLMProvider)
	}
}
