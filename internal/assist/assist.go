// Package assist offers optional LLM suggestions for a composed article.
// The article body is never rewritten; only the excerpt may be replaced.
package assist

import (
	"context"
	"fmt"
	"strings"

	"github.com/akira0907/gift-diagnosis/internal/article"
	"github.com/akira0907/gift-diagnosis/internal/config"
	"github.com/akira0907/gift-diagnosis/internal/gemini"
	"github.com/akira0907/gift-diagnosis/internal/ollama"
	"github.com/akira0907/gift-diagnosis/internal/openai"
	"github.com/akira0907/gift-diagnosis/internal/providers"
)

const (
	maxExcerptRunes = 120
	temperature     = 0.3
)

const excerptPrompt = `あなたはギフト紹介ブログの編集者です。
次の体験談をもとに、記事の抜粋（メタディスクリプション）を日本語で1文、120文字以内で書いてください。
抜粋の本文だけを出力してください。

タイトル: %s
トピック: %s
体験談: %s
良かった点: %s`

// NewProvider builds the provider named in cfg.Provider
func NewProvider(cfg config.AssistConfig) (providers.Provider, error) {
	switch cfg.Provider {
	case providers.Gemini:
		return gemini.New(cfg.GeminiAPIKey), nil
	case providers.OpenAI:
		return openai.New(cfg.OpenAIAPIKey), nil
	case providers.Ollama:
		return ollama.New(cfg.OllamaURL), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", cfg.Provider)
	}
}

// SuggestExcerpt asks p for a one-sentence excerpt of the outline
func SuggestExcerpt(ctx context.Context, p providers.Provider, model string, o article.Outline) (string, error) {
	text, err := p.Generate(ctx, providers.Config{
		Model:       model,
		Temperature: temperature,
		Prompt:      fmt.Sprintf(excerptPrompt, o.Title, o.Topic, o.Experience, o.GoodPoints),
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate excerpt: %w", err)
	}

	excerpt := cleanExcerpt(text)
	if excerpt == "" {
		return "", fmt.Errorf("provider returned an empty excerpt")
	}
	return excerpt, nil
}

// cleanExcerpt keeps the first non-blank line without wrapping quotes
func cleanExcerpt(text string) string {
	var line string
	for _, l := range strings.Split(text, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			line = l
			break
		}
	}
	line = strings.Trim(line, `"'「」 `)

	if runes := []rune(line); len(runes) > maxExcerptRunes {
		line = string(runes[:maxExcerptRunes])
	}
	return line
}
