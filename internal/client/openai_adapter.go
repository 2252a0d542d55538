package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"adversarial-review/internal/types"

	"github.com/openai/openai-go"
)

// OpenAIAdapter implements llm.Client using the official OpenAI client.
type OpenAIAdapter struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	sem     chan struct{}
}

// NewOpenAIAdapter creates a new OpenAI adapter. A single in-flight request
// is allowed at a time; the pipeline only ever issues one anyway.
func NewOpenAIAdapter(client *openai.Client, model string, timeout time.Duration) *OpenAIAdapter {
	return &OpenAIAdapter{
		client:  client,
		model:   model,
		timeout: timeout,
		sem:     make(chan struct{}, 1),
	}
}

// Name returns the backend identifier
func (a *OpenAIAdapter) Name() string {
	return "openai-" + a.model
}

// Review sends the prompt as a single user message and returns the raw text.
func (a *OpenAIAdapter) Review(ctx context.Context, prompt string) (string, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	select {
	case a.sem <- struct{}{}:
		defer func() { <-a.sem }()
	case <-ctx.Done():
		return "", ctx.Err()
	}

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(a.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	}

	resp, err := a.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", wrapError(fmt.Errorf("openai request: %w", err))
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no openai response")
	}
	return resp.Choices[0].Message.Content, nil
}

// wrapError wraps openai errors into RetryableError if applicable
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		statusCode := apiErr.StatusCode
		// 429 (Rate Limit) and 5xx (Server Errors) are retryable
		if statusCode == 429 || (statusCode >= 500 && statusCode < 600) {
			return types.NewRetryableError(err)
		}
	}

	return err
}
