package reviewer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"adversarial-review/internal/domain"
)

// fakeClient is an llm.Client answering with canned text.
type fakeClient struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeClient) Review(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.response, f.err
}

func (f *fakeClient) Name() string { return "fake" }

func TestRequest(t *testing.T) {
	cli := &fakeClient{response: `{"issues": []}`}
	r := New(cli, "")

	diffCtx := domain.DiffContext{Diff: "+let x = 1", Paths: []string{"a.swift"}}
	contents := map[string]*string{"a.swift": strptr("let x = 1")}

	raw, err := r.Request(context.Background(), diffCtx, contents)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if raw != `{"issues": []}` {
		t.Errorf("raw response should pass through untouched, got %q", raw)
	}

	if len(cli.prompts) != 1 {
		t.Fatalf("expected exactly one model call, got %d", len(cli.prompts))
	}
	prompt := cli.prompts[0]
	if !strings.Contains(prompt, "```swift") {
		t.Error("prompt should carry the detected language tag")
	}
	if !strings.Contains(prompt, defaultGuidelines) {
		t.Error("prompt should carry the default guidelines")
	}
}

func TestRequestError(t *testing.T) {
	cli := &fakeClient{err: errors.New("rate limited")}
	r := New(cli, "")

	_, err := r.Request(context.Background(), domain.DiffContext{Paths: []string{"a.swift"}}, nil)
	if err == nil {
		t.Fatal("expected error to propagate")
	}
	if !strings.Contains(err.Error(), "rate limited") {
		t.Errorf("cause should be wrapped, got %v", err)
	}
}
