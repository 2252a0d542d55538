package storage

import (
	"context"
	"time"

	"adversarial-review/internal/domain"
)

// ReviewRecord is one persisted review run.
type ReviewRecord struct {
	ID         string               `json:"id"`
	Repo       string               `json:"repo"`
	PRNumber   int                  `json:"pr_number"`
	Commit     string               `json:"commit"`
	Result     *domain.ReviewResult `json:"result"`
	CreatedAt  time.Time            `json:"created_at"`
	DurationMs int64                `json:"duration_ms"`
	Status     string               `json:"status"` // success, critical, parse_error, error
}

// Repository persists review runs. Persistence is best-effort: failures are
// logged by callers and never affect the run.
type Repository interface {
	SaveReview(ctx context.Context, record *ReviewRecord) error
	GetReview(ctx context.Context, id string) (*ReviewRecord, error)
	ListReviewsByPR(ctx context.Context, repo string, prNumber int) ([]*ReviewRecord, error)
	Close() error
}
