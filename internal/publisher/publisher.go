// Package publisher assembles the platform review payload and submits it,
// degrading to a single plain comment when the atomic submission is
// rejected. No finding is ever silently lost on the way out.
package publisher

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"adversarial-review/internal/config"
	"adversarial-review/internal/domain"
	"adversarial-review/internal/github"
	"adversarial-review/internal/metrics"
	"adversarial-review/internal/validator"
)

// reviewEvent is the review action submitted to the platform. The pipeline
// comments; approval decisions stay with humans and the exit signal.
const reviewEvent = "COMMENT"

// Platform is the hosting-platform surface the publisher needs.
type Platform interface {
	SubmitReview(ctx context.Context, target domain.Target, review github.Review) error
	PostComment(ctx context.Context, target domain.Target, body string) error
	ResolveHeadCommit(ctx context.Context, target domain.Target) (string, error)
}

// Publisher submits one review per run: a single atomic attempt, one
// fallback comment on rejection, then done.
type Publisher struct {
	platform Platform
}

// New creates a publisher.
func New(platform Platform) *Publisher {
	return &Publisher{platform: platform}
}

// Publish submits the review payload anchored against commit. An empty
// commit is resolved via the pull request; if resolution fails too, the
// review is submitted unpinned with a warning.
//
// The diff is used only to pre-check inline anchors for diagnostics; it
// never changes what is submitted.
func (p *Publisher) Publish(ctx context.Context, target domain.Target, commit string, payload domain.CommentPayload, diff string) error {
	if commit == "" {
		resolved, err := p.platform.ResolveHeadCommit(ctx, target)
		if err != nil {
			slog.Warn("resolve head commit failed, submitting review unpinned", "repo", target.Repo, "pr", target.PRNumber, "error", err)
		} else {
			commit = resolved
		}
	}

	p.logSuspectAnchors(payload, diff)

	review := github.Review{
		CommitID: commit,
		Body:     payload.SummaryBody,
		Event:    reviewEvent,
		Comments: payload.Inline,
	}

	err := p.platform.SubmitReview(ctx, target, review)
	if err == nil {
		slog.Info("review submitted", "repo", target.Repo, "pr", target.PRNumber, "inline_comments", len(payload.Inline))
		return nil
	}

	slog.Warn("review submission rejected, falling back to plain comment", "error", err)
	metrics.PublishFallbacks.Inc()
	metrics.CommentPostFailures.WithLabelValues("review_error").Inc()

	fallback := BuildFallbackBody(payload, err)
	if postErr := p.platform.PostComment(ctx, target, fallback); postErr != nil {
		metrics.CommentPostFailures.WithLabelValues("fallback_error").Inc()
		return fmt.Errorf("fallback comment after rejected review: %w", postErr)
	}

	slog.Info("fallback comment posted", "repo", target.Repo, "pr", target.PRNumber)
	return nil
}

// logSuspectAnchors warns about inline comments targeting lines outside the
// diff's addressable range, the usual cause of a platform rejection.
func (p *Publisher) logSuspectAnchors(payload domain.CommentPayload, diff string) {
	if diff == "" || len(payload.Inline) == 0 {
		return
	}
	v := validator.New(diff)
	for _, c := range payload.Inline {
		if !v.IsValid(c.Path, c.Line) {
			slog.Warn("inline comment anchor outside diff range",
				"path", c.Path,
				"line", c.Line,
				"reason", v.InvalidReason(c.Path, c.Line))
		}
	}
}

// BuildFallbackBody renders the single comment posted when the atomic
// review submission was rejected. It carries the fallback marker with the
// rejection reason, the full summary body (which already embeds body-only
// findings and positive notes), and every inline finding's rendered body so
// nothing anchored is lost.
func BuildFallbackBody(payload domain.CommentPayload, cause error) string {
	var sb strings.Builder

	sb.WriteString(config.MarkerFallback + "\n")
	fmt.Fprintf(&sb, "Reason: %v\n\n", cause)

	sb.WriteString(payload.SummaryBody)

	if len(payload.Inline) > 0 {
		sb.WriteString("\n\n### Inline Findings\n\n")
		for _, c := range payload.Inline {
			fmt.Fprintf(&sb, "**`%s` line %d:**\n%s\n", c.Path, c.Line, c.Body)
		}
	}

	return sb.String()
}
