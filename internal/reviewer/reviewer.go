package reviewer

import (
	"context"
	"fmt"
	"log/slog"

	"adversarial-review/internal/domain"
	"adversarial-review/internal/llm"
)

// Reviewer builds a single review request from the collected context and
// obtains the model's raw text response. The response is treated as opaque
// text; interpretation is the normalizer's job.
type Reviewer struct {
	client     llm.Client
	guidelines string
}

// New creates a reviewer. guidelinesFile may be empty, in which case the
// embedded default guidelines are used.
func New(client llm.Client, guidelinesFile string) *Reviewer {
	return &Reviewer{
		client:     client,
		guidelines: LoadGuidelines(guidelinesFile),
	}
}

// Request sends one review request embedding the diff and the changed-file
// contents, and returns whatever raw text the model produces. A failed call
// is fatal for the run: no review can be produced without it.
func (r *Reviewer) Request(ctx context.Context, diffCtx domain.DiffContext, contents map[string]*string) (string, error) {
	lang := DetectLanguage(diffCtx.Paths)
	prompt := BuildPrompt(diffCtx, contents, lang, r.guidelines)

	slog.Info("requesting review", "backend", r.client.Name(), "files", len(diffCtx.Paths), "prompt_bytes", len(prompt))

	raw, err := r.client.Review(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("review request: %w", err)
	}
	return raw, nil
}
