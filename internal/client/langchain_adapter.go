package client

import (
	"context"
	"fmt"
	"time"

	"github.com/tmc/langchaingo/llms"
)

// LangChainAdapter implements llm.Client on top of a langchaingo model.
type LangChainAdapter struct {
	model   llms.Model
	name    string
	timeout time.Duration
}

// NewLangChainAdapter wraps an existing langchaingo model.
func NewLangChainAdapter(model llms.Model, name string, timeout time.Duration) *LangChainAdapter {
	return &LangChainAdapter{model: model, name: name, timeout: timeout}
}

// Name returns the backend identifier
func (a *LangChainAdapter) Name() string {
	return "langchain-" + a.name
}

// Review sends the prompt as a single completion and returns the raw text.
func (a *LangChainAdapter) Review(ctx context.Context, prompt string) (string, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	out, err := llms.GenerateFromSinglePrompt(ctx, a.model, prompt)
	if err != nil {
		return "", fmt.Errorf("langchain request: %w", err)
	}
	return out, nil
}
