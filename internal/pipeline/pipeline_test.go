package pipeline

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"adversarial-review/internal/config"
	"adversarial-review/internal/domain"
)

type fakeCollector struct {
	diffCtx  domain.DiffContext
	contents map[string]*string
	err      error
	calls    int
}

func (f *fakeCollector) Collect(context.Context, string) (domain.DiffContext, map[string]*string, error) {
	f.calls++
	return f.diffCtx, f.contents, f.err
}

type fakeRequester struct {
	response string
	err      error
	calls    int
}

func (f *fakeRequester) Request(context.Context, domain.DiffContext, map[string]*string) (string, error) {
	f.calls++
	return f.response, f.err
}

type fakePublisher struct {
	err      error
	calls    int
	payloads []domain.CommentPayload
}

func (f *fakePublisher) Publish(_ context.Context, _ domain.Target, _ string, payload domain.CommentPayload, _ string) error {
	f.calls++
	f.payloads = append(f.payloads, payload)
	return f.err
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Review.BaseRef = "main"
	cfg.GitHub.Repo = "acme/widgets"
	cfg.GitHub.PRNumber = 7
	cfg.GitHub.CommitSHA = "sha123"
	return cfg
}

func newTestPipeline(col *fakeCollector, req *fakeRequester, pub *fakePublisher) (*Pipeline, *bytes.Buffer) {
	p := New(testConfig(), col, req, pub, nil)
	var buf bytes.Buffer
	p.rawOut = &buf
	return p, &buf
}

func content(s string) *string { return &s }

func changedFiles() (*fakeCollector, map[string]*string) {
	contents := map[string]*string{"a.swift": content("let x = 1")}
	return &fakeCollector{
		diffCtx:  domain.DiffContext{Diff: "+let x = 1", Paths: []string{"a.swift"}},
		contents: contents,
	}, contents
}

func TestRunNoChangedFiles(t *testing.T) {
	col := &fakeCollector{diffCtx: domain.DiffContext{Diff: ""}}
	req := &fakeRequester{}
	pub := &fakePublisher{}
	p, _ := newTestPipeline(col, req, pub)

	code := p.Run(context.Background())

	if code != config.ExitOK {
		t.Errorf("expected exit %d on skip, got %d", config.ExitOK, code)
	}
	if req.calls != 0 {
		t.Error("no review request expected when nothing changed")
	}
	if pub.calls != 0 {
		t.Error("nothing should be published when nothing changed")
	}
}

func TestRunCollectFailure(t *testing.T) {
	col := &fakeCollector{err: errors.New("git diff failed")}
	req := &fakeRequester{}
	pub := &fakePublisher{}
	p, _ := newTestPipeline(col, req, pub)

	if code := p.Run(context.Background()); code != config.ExitFailure {
		t.Errorf("expected exit %d on collect failure, got %d", config.ExitFailure, code)
	}
	if req.calls != 0 || pub.calls != 0 {
		t.Error("pipeline must stop at the first fatal failure")
	}
}

func TestRunRequestFailure(t *testing.T) {
	col, _ := changedFiles()
	req := &fakeRequester{err: errors.New("model unavailable")}
	pub := &fakePublisher{}
	p, _ := newTestPipeline(col, req, pub)

	if code := p.Run(context.Background()); code != config.ExitFailure {
		t.Errorf("expected exit %d on request failure, got %d", config.ExitFailure, code)
	}
	if pub.calls != 0 {
		t.Error("nothing should be published when the request failed")
	}
}

func TestRunParseFailurePreservesRaw(t *testing.T) {
	col, _ := changedFiles()
	raw := "Sorry, I cannot review this change today."
	req := &fakeRequester{response: raw}
	pub := &fakePublisher{}
	p, buf := newTestPipeline(col, req, pub)

	code := p.Run(context.Background())

	if code != config.ExitFailure {
		t.Errorf("expected exit %d on parse failure, got %d", config.ExitFailure, code)
	}
	if pub.calls != 0 {
		t.Error("nothing should be published on parse failure")
	}
	if !strings.Contains(buf.String(), raw) {
		t.Error("raw model response must be emitted verbatim for diagnosis")
	}
}

func TestRunCriticalIssueFails(t *testing.T) {
	col, _ := changedFiles()
	req := &fakeRequester{response: `{
      "summary": "bad",
      "severity": "critical",
      "issues": [
        {"file": "a.swift", "line": 1, "severity": "critical", "category": "security", "title": "leak", "description": "d"}
      ]
    }`}
	pub := &fakePublisher{}
	p, _ := newTestPipeline(col, req, pub)

	code := p.Run(context.Background())

	if code != config.ExitFailure {
		t.Errorf("expected exit %d on critical issue, got %d", config.ExitFailure, code)
	}
	if pub.calls != 1 {
		t.Fatalf("review should be published exactly once, got %d", pub.calls)
	}
	if len(pub.payloads[0].Inline) != 1 {
		t.Errorf("expected 1 inline comment, got %d", len(pub.payloads[0].Inline))
	}
}

func TestRunNonCriticalIssuesSucceed(t *testing.T) {
	col, _ := changedFiles()
	req := &fakeRequester{response: `{
      "summary": "minor things",
      "severity": "medium",
      "issues": [
        {"file": "a.swift", "line": 1, "severity": "medium", "category": "code-quality", "title": "naming", "description": "d"},
        {"severity": "high", "category": "testing", "title": "missing tests", "description": "d"}
      ]
    }`}
	pub := &fakePublisher{}
	p, _ := newTestPipeline(col, req, pub)

	if code := p.Run(context.Background()); code != config.ExitOK {
		t.Errorf("expected exit %d for non-critical issues, got %d", config.ExitOK, code)
	}
	if pub.calls != 1 {
		t.Errorf("expected one publish, got %d", pub.calls)
	}
}

func TestRunAnchoredIssueBecomesInlineComment(t *testing.T) {
	col, _ := changedFiles()
	req := &fakeRequester{response: `{"summary":"ok","severity":"low","issues":[{"file":"a.txt","line":5,"severity":"medium","category":"code-quality","title":"t","description":"d"}],"positive_notes":[]}`}
	pub := &fakePublisher{}
	p, _ := newTestPipeline(col, req, pub)

	if code := p.Run(context.Background()); code != config.ExitOK {
		t.Errorf("expected exit %d, got %d", config.ExitOK, code)
	}

	payload := pub.payloads[0]
	if len(payload.Inline) != 1 {
		t.Fatalf("expected 1 inline comment, got %d", len(payload.Inline))
	}
	if payload.Inline[0].Path != "a.txt" || payload.Inline[0].Line != 5 {
		t.Errorf("unexpected anchor: %+v", payload.Inline[0])
	}
}

func TestRunUnanchoredIssueStaysInSummary(t *testing.T) {
	col, _ := changedFiles()
	req := &fakeRequester{response: `{"summary":"ok","severity":"low","issues":[{"file":"a.txt","line":0,"severity":"medium","category":"code-quality","title":"t","description":"d"}],"positive_notes":[]}`}
	pub := &fakePublisher{}
	p, _ := newTestPipeline(col, req, pub)

	if code := p.Run(context.Background()); code != config.ExitOK {
		t.Errorf("expected exit %d, got %d", config.ExitOK, code)
	}

	payload := pub.payloads[0]
	if len(payload.Inline) != 0 {
		t.Fatalf("expected no inline comments, got %d", len(payload.Inline))
	}
	if !strings.Contains(payload.SummaryBody, "**t**") || !strings.Contains(payload.SummaryBody, "d") {
		t.Error("summary body should carry the unanchored finding")
	}
}

func TestRunPublishFailureKeepsSeverityExit(t *testing.T) {
	col, _ := changedFiles()
	req := &fakeRequester{response: `{"summary": "clean", "severity": "low", "issues": []}`}
	pub := &fakePublisher{err: errors.New("github down")}
	p, _ := newTestPipeline(col, req, pub)

	// Publishing failed but no critical issues exist: the gate stays green.
	if code := p.Run(context.Background()); code != config.ExitOK {
		t.Errorf("expected exit %d, got %d", config.ExitOK, code)
	}
}
