package ollama

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/akira0907/gift-diagnosis/internal/providers"
)

// Ollama is a provider for a local Ollama server
type Ollama struct {
	http *resty.Client
}

// New returns a new Ollama provider for the server at baseURL
func New(baseURL string) *Ollama {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	client := resty.New()
	client.SetBaseURL(strings.TrimRight(baseURL, "/"))
	client.SetTimeout(120 * time.Second)
	return &Ollama{http: client}
}

// Generate runs a non-streaming completion
func (o *Ollama) Generate(ctx context.Context, config providers.Config) (string, error) {
	var response struct {
		Response string `json:"response"`
	}

	res, err := o.http.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"model":  config.Model,
			"prompt": config.Prompt,
			"stream": false,
			"options": map[string]any{
				"temperature": config.Temperature,
			},
		}).
		SetResult(&response).
		Post("/api/generate")
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}

	if res.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("received non-200 status code: %d - %s", res.StatusCode(), res.String())
	}

	return response.Response, nil
}
