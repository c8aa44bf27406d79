package openai

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/akira0907/gift-diagnosis/internal/providers"
)

const defaultBaseURL = "https://api.openai.com/v1"

// OpenAI is a provider for the chat completions API
type OpenAI struct {
	apiKey string
	http   *resty.Client
}

// New returns a new OpenAI provider
func New(apiKey string) *OpenAI {
	return NewWithBaseURL(apiKey, defaultBaseURL)
}

// NewWithBaseURL targets an OpenAI compatible endpoint
func NewWithBaseURL(apiKey, baseURL string) *OpenAI {
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetTimeout(60 * time.Second)
	return &OpenAI{apiKey: apiKey, http: client}
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Generate sends the prompt as a single user message
func (o *OpenAI) Generate(ctx context.Context, config providers.Config) (string, error) {
	if o.apiKey == "" {
		return "", fmt.Errorf("OPENAI_API_KEY is not set")
	}

	var response chatResponse
	res, err := o.http.R().
		SetContext(ctx).
		SetAuthToken(o.apiKey).
		SetBody(map[string]any{
			"model": config.Model,
			"messages": []map[string]string{
				{
					"role":    "user",
					"content": config.Prompt,
				},
			},
			"temperature": config.Temperature,
		}).
		SetResult(&response).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}

	if res.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("received non-200 status code: %d - %s", res.StatusCode(), res.String())
	}

	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no choices returned from OpenAI")
	}

	return response.Choices[0].Message.Content, nil
}
