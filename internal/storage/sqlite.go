package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"adversarial-review/internal/domain"

	_ "modernc.org/sqlite" // Pure Go driver, CGO-free
)

type SQLiteRepository struct {
	db           *sql.DB
	maxStringLen int
}

// NewSQLiteRepository opens (or creates) the review database at dsn.
// maxStringLen caps string fields in the stored result JSON; 0 disables
// the cap.
func NewSQLiteRepository(dsn string, maxStringLen int) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable wal: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &SQLiteRepository{db: db, maxStringLen: maxStringLen}, nil
}

func migrate(db *sql.DB) error {
	schema := `
    CREATE TABLE IF NOT EXISTS reviews (
        id          TEXT PRIMARY KEY,
        repo        TEXT NOT NULL,
        pr_number   INTEGER NOT NULL,
        commit_sha  TEXT,
        result_data TEXT NOT NULL,
        created_at  DATETIME DEFAULT CURRENT_TIMESTAMP,
        duration_ms INTEGER,
        status      TEXT NOT NULL
    );
    CREATE INDEX IF NOT EXISTS idx_reviews_pr ON reviews(repo, pr_number);
    CREATE INDEX IF NOT EXISTS idx_reviews_created ON reviews(created_at);
    `
	_, err := db.Exec(schema)
	return err
}

func (r *SQLiteRepository) SaveReview(ctx context.Context, record *ReviewRecord) error {
	resultData, err := json.Marshal(record.Result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	resultData = CapStrings(resultData, r.maxStringLen)

	_, err = r.db.ExecContext(ctx, `
        INSERT INTO reviews (id, repo, pr_number, commit_sha, result_data, duration_ms, status, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
    `, record.ID, record.Repo, record.PRNumber, record.Commit,
		string(resultData), record.DurationMs, record.Status, record.CreatedAt)
	return err
}

func (r *SQLiteRepository) GetReview(ctx context.Context, id string) (*ReviewRecord, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT id, repo, pr_number, commit_sha, result_data, created_at, duration_ms, status
        FROM reviews WHERE id = ?
    `, id)
	return scanReview(row)
}

func (r *SQLiteRepository) ListReviewsByPR(ctx context.Context, repo string, prNumber int) ([]*ReviewRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, repo, pr_number, commit_sha, result_data, created_at, duration_ms, status
        FROM reviews
        WHERE repo = ? AND pr_number = ?
        ORDER BY created_at DESC
    `, repo, prNumber)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []*ReviewRecord
	for rows.Next() {
		record, err := scanReview(rows)
		if err != nil {
			slog.Warn("scan review failed", "error", err)
			continue
		}
		reviews = append(reviews, record)
	}
	return reviews, rows.Err()
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// Scanner interface to support both Row and Rows
type Scanner interface {
	Scan(dest ...any) error
}

func scanReview(s Scanner) (*ReviewRecord, error) {
	var id, repo, commit, resultData, status string
	var prNumber int
	var createdAt time.Time
	var durationMs int64

	if err := s.Scan(&id, &repo, &prNumber, &commit, &resultData, &createdAt, &durationMs, &status); err != nil {
		return nil, err
	}

	var result domain.ReviewResult
	if err := json.Unmarshal([]byte(resultData), &result); err != nil {
		return nil, fmt.Errorf("unmarshal result: %w", err)
	}

	return &ReviewRecord{
		ID:         id,
		Repo:       repo,
		PRNumber:   prNumber,
		Commit:     commit,
		Result:     &result,
		CreatedAt:  createdAt,
		DurationMs: durationMs,
		Status:     status,
	}, nil
}
