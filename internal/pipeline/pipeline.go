// Package pipeline orchestrates one review run:
// collect → request → normalize → map → publish → report.
// Each stage consumes only the prior stage's output; the run terminates at
// the first fatal failure.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"adversarial-review/internal/config"
	"adversarial-review/internal/domain"
	"adversarial-review/internal/metrics"
	"adversarial-review/internal/normalizer"
	"adversarial-review/internal/publisher"
	"adversarial-review/internal/reporter"
	"adversarial-review/internal/storage"
)

// Collector gathers the diff context and changed-file contents.
type Collector interface {
	Collect(ctx context.Context, base string) (domain.DiffContext, map[string]*string, error)
}

// Requester obtains the raw review text from the model.
type Requester interface {
	Request(ctx context.Context, diffCtx domain.DiffContext, contents map[string]*string) (string, error)
}

// Publisher submits the review payload to the hosting platform.
type Publisher interface {
	Publish(ctx context.Context, target domain.Target, commit string, payload domain.CommentPayload, diff string) error
}

// Pipeline runs the review process exactly once per invocation.
type Pipeline struct {
	cfg       *config.Config
	collector Collector
	requester Requester
	publisher Publisher
	store     storage.Repository // nil disables persistence

	rawOut io.Writer // destination for raw model output on parse failure
}

// New creates a pipeline. store may be nil.
func New(cfg *config.Config, collector Collector, requester Requester, pub Publisher, store storage.Repository) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		collector: collector,
		requester: requester,
		publisher: pub,
		store:     store,
		rawOut:    os.Stderr,
	}
}

// Run executes the pipeline and returns the process exit code:
// failure when any critical issue was found or the response could not be
// normalized, success otherwise (including the nothing-to-review case).
func (p *Pipeline) Run(ctx context.Context) int {
	start := time.Now()
	metricResult := "error"
	defer func() {
		metrics.ProcessingDuration.WithLabelValues(metricResult).Observe(time.Since(start).Seconds())
	}()

	target := domain.Target{Repo: p.cfg.GitHub.Repo, PRNumber: p.cfg.GitHub.PRNumber}

	slog.Info("starting review", "repo", target.Repo, "pr", target.PRNumber, "base", p.cfg.Review.BaseRef)

	diffCtx, contents, err := p.collector.Collect(ctx, p.cfg.Review.BaseRef)
	if err != nil {
		slog.Error("collect diff context failed", "error", err)
		metrics.ReviewRuns.WithLabelValues("error").Inc()
		return config.ExitFailure
	}

	if len(diffCtx.Paths) == 0 {
		slog.Info("no files of interest changed, skipping review")
		metrics.ReviewRuns.WithLabelValues("skipped").Inc()
		metricResult = "success"
		return config.ExitOK
	}

	slog.Info("reviewing files", "count", len(diffCtx.Paths))

	raw, err := p.requester.Request(ctx, diffCtx, contents)
	if err != nil {
		slog.Error("review request failed", "error", err)
		metrics.ReviewRuns.WithLabelValues("error").Inc()
		return config.ExitFailure
	}

	result, parseErr := normalizer.Normalize(raw)
	if parseErr != nil {
		// The raw text is the only diagnostic artifact; keep it verbatim.
		slog.Error("normalize response failed", "reason", parseErr.Reason)
		fmt.Fprintln(p.rawOut, "Raw model response:")
		fmt.Fprintln(p.rawOut, parseErr.Raw)
		metrics.ReviewRuns.WithLabelValues("parse_error").Inc()
		p.saveRecord(target, nil, start, "parse_error")
		return config.ExitFailure
	}

	payload := publisher.BuildPayload(result)

	if err := p.publisher.Publish(ctx, target, p.cfg.GitHub.CommitSHA, payload, diffCtx.Diff); err != nil {
		// Content could not be delivered, but the run itself completed;
		// the exit signal stays severity-based.
		slog.Error("publish review failed", "error", err)
	}

	code := reporter.ExitCode(result.Issues)
	if code == config.ExitOK {
		metricResult = "success"
		metrics.ReviewRuns.WithLabelValues("success").Inc()
		p.saveRecord(target, result, start, "success")
	} else {
		metrics.ReviewRuns.WithLabelValues("critical").Inc()
		p.saveRecord(target, result, start, "critical")
	}
	return code
}

// saveRecord persists the run outcome. Best-effort: storage failures are
// logged and never affect the run.
func (p *Pipeline) saveRecord(target domain.Target, result *domain.ReviewResult, start time.Time, status string) {
	if p.store == nil || result == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.cfg.Storage.Timeout)
	defer cancel()

	record := &storage.ReviewRecord{
		ID:         fmt.Sprintf("%s-%d-%d", target.Repo, target.PRNumber, time.Now().UnixNano()),
		Repo:       target.Repo,
		PRNumber:   target.PRNumber,
		Commit:     p.cfg.GitHub.CommitSHA,
		Result:     result,
		CreatedAt:  time.Now().UTC(),
		DurationMs: time.Since(start).Milliseconds(),
		Status:     status,
	}
	if err := p.store.SaveReview(ctx, record); err != nil {
		slog.Error("save review failed", "error", err)
	} else {
		slog.Debug("review saved", "id", record.ID)
	}
}
