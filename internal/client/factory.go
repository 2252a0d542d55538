package client

import (
	"context"
	"fmt"

	"adversarial-review/internal/config"
	"adversarial-review/internal/llm"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	lcopenai "github.com/tmc/langchaingo/llms/openai"
	"google.golang.org/genai"
)

// NewLLM creates the review model client for the configured backend.
func NewLLM(ctx context.Context, cfg *config.Config) (llm.Client, error) {
	switch cfg.LLM.Backend {
	case config.BackendOpenAI:
		opts := []option.RequestOption{option.WithAPIKey(cfg.LLM.APIKey)}
		if cfg.LLM.Endpoint != "" {
			opts = append(opts, option.WithBaseURL(cfg.LLM.Endpoint))
		}
		c := openai.NewClient(opts...)
		return NewOpenAIAdapter(&c, cfg.LLM.Model, cfg.LLM.Timeout), nil

	case config.BackendLangChain:
		lcOpts := []lcopenai.Option{
			lcopenai.WithToken(cfg.LLM.APIKey),
			lcopenai.WithModel(cfg.LLM.Model),
		}
		if cfg.LLM.Endpoint != "" {
			lcOpts = append(lcOpts, lcopenai.WithBaseURL(cfg.LLM.Endpoint))
		}
		model, err := lcopenai.New(lcOpts...)
		if err != nil {
			return nil, fmt.Errorf("create langchain model: %w", err)
		}
		return NewLangChainAdapter(model, cfg.LLM.Model, cfg.LLM.Timeout), nil

	case config.BackendGemini:
		gc, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cfg.LLM.APIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("create gemini client: %w", err)
		}
		return NewGeminiAdapter(gc, cfg.LLM.Model, cfg.LLM.Timeout), nil

	default:
		return nil, fmt.Errorf("unknown llm backend: %s", cfg.LLM.Backend)
	}
}
