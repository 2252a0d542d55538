// Package github is a minimal GitHub REST v3 client covering exactly what
// the publisher needs: one atomic review submission, one plain comment, and
// head-commit resolution for a pull request.
package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"adversarial-review/internal/config"
	"adversarial-review/internal/domain"

	"github.com/tidwall/gjson"
)

// Review is the payload of one atomic review submission.
type Review struct {
	CommitID string                 `json:"commit_id,omitempty"`
	Body     string                 `json:"body"`
	Event    string                 `json:"event"`
	Comments []domain.InlineComment `json:"comments,omitempty"`
}

// RejectionError is an API-level rejection of a submission (4xx/5xx).
// The body is kept so the fallback comment can cite the reason.
type RejectionError struct {
	StatusCode int
	Body       string
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("github rejected request (status %d): %s", e.StatusCode, e.Body)
}

// Client provides access to the GitHub REST API.
type Client struct {
	apiURL  string
	httpCli *http.Client
}

// NewClient creates a GitHub client authenticated with the configured token.
func NewClient(cfg config.GitHubConfig) *Client {
	apiURL := strings.TrimRight(cfg.APIURL, "/")
	if apiURL == "" {
		apiURL = "https://api.github.com"
	}

	return &Client{
		apiURL: apiURL,
		httpCli: &http.Client{
			Transport: &tokenRoundTripper{base: http.DefaultTransport, token: cfg.Token},
			Timeout:   60 * time.Second,
		},
	}
}

// tokenRoundTripper injects the Authorization header on every request.
type tokenRoundTripper struct {
	base  http.RoundTripper
	token string
}

func (t *tokenRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.token != "" {
		req.Header.Set("Authorization", "Bearer "+t.token)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	return t.base.RoundTrip(req)
}

// SubmitReview posts one pull request review with its inline comments as a
// single atomic submission. A platform rejection surfaces as *RejectionError.
func (c *Client) SubmitReview(ctx context.Context, target domain.Target, review Review) error {
	url := fmt.Sprintf("%s/repos/%s/pulls/%d/reviews", c.apiURL, target.Repo, target.PRNumber)
	return c.post(ctx, url, review)
}

// PostComment posts a single plain comment on the pull request.
func (c *Client) PostComment(ctx context.Context, target domain.Target, body string) error {
	url := fmt.Sprintf("%s/repos/%s/issues/%d/comments", c.apiURL, target.Repo, target.PRNumber)
	return c.post(ctx, url, map[string]string{"body": body})
}

// ResolveHeadCommit queries the pull request for its current head commit.
func (c *Client) ResolveHeadCommit(ctx context.Context, target domain.Target) (string, error) {
	url := fmt.Sprintf("%s/repos/%s/pulls/%d", c.apiURL, target.Repo, target.PRNumber)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpCli.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching pull request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", &RejectionError{StatusCode: resp.StatusCode, Body: truncate(string(body))}
	}

	sha := gjson.GetBytes(body, "head.sha").String()
	if sha == "" {
		return "", fmt.Errorf("pull request response has no head.sha")
	}
	return sha, nil
}

func (c *Client) post(ctx context.Context, url string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpCli.Do(req)
	if err != nil {
		return fmt.Errorf("posting to %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &RejectionError{StatusCode: resp.StatusCode, Body: truncate(string(body))}
	}

	return nil
}

func truncate(s string) string {
	const max = 500
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
