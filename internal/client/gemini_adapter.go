package client

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"
)

// GeminiAdapter implements llm.Client using the Google GenAI SDK.
type GeminiAdapter struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewGeminiAdapter wraps an existing genai client.
func NewGeminiAdapter(client *genai.Client, model string, timeout time.Duration) *GeminiAdapter {
	return &GeminiAdapter{client: client, model: model, timeout: timeout}
}

// Name returns the backend identifier
func (a *GeminiAdapter) Name() string {
	return "gemini-" + a.model
}

// Review sends the prompt as a single generation request and returns the raw text.
func (a *GeminiAdapter) Review(ctx context.Context, prompt string) (string, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	resp, err := a.client.Models.GenerateContent(ctx, a.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini request: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("no gemini response")
	}
	return text, nil
}
