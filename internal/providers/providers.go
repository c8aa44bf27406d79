package providers

import (
	"context"
)

// Provider names accepted by --assist
const (
	Gemini = "gemini"
	OpenAI = "openai"
	Ollama = "ollama"
)

// Config represents one generation request
type Config struct {
	Model       string
	Temperature float64
	Prompt      string
}

// Provider defines the interface for an LLM provider
type Provider interface {
	Generate(ctx context.Context, config Config) (string, error)
}

// DefaultModel returns the model used when none is configured
func DefaultModel(provider string) string {
	switch provider {
	case Gemini:
		return "gemini-1.5-flash"
	case OpenAI:
		return "gpt-4o"
	case Ollama:
		return "mistral-small3.2:24b"
	default:
		return ""
	}
}
