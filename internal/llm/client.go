package llm

import "context"

// Client defines the interface for obtaining a raw review from an LLM
// provider. The response is opaque text believed to contain JSON; callers
// never interpret it here.
type Client interface {
	// Review sends the assembled review prompt and returns the raw text response.
	Review(ctx context.Context, prompt string) (string, error)
	// Name returns the backend identifier for logging.
	Name() string
}
