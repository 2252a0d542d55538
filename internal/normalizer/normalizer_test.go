package normalizer

import (
	"strings"
	"testing"

	"adversarial-review/internal/domain"
)

const validResponse = `{
  "summary": "Found one hardcoded credential.",
  "severity": "critical",
  "issues": [
    {
      "file": "a/Sources/Auth.swift",
      "line": 12,
      "severity": "critical",
      "category": "security",
      "title": "Hardcoded API key",
      "description": "The API key is embedded in source.",
      "suggestion": "Load it from the environment.",
      "code_example": "let key = ProcessInfo.processInfo.environment[\"API_KEY\"]"
    }
  ],
  "positive_notes": ["Good test coverage"]
}`

func TestNormalizeValid(t *testing.T) {
	result, parseErr := Normalize(validResponse)
	if parseErr != nil {
		t.Fatalf("unexpected parse error: %v", parseErr)
	}

	if result.Summary != "Found one hardcoded credential." {
		t.Errorf("unexpected summary: %s", result.Summary)
	}
	if result.Severity != domain.SeverityCritical {
		t.Errorf("unexpected overall severity: %s", result.Severity)
	}
	if len(result.Issues) != 1 {
		t.Fatalf("expected 1 issue, got %d", len(result.Issues))
	}

	issue := result.Issues[0]
	if issue.File != "Sources/Auth.swift" {
		t.Errorf("expected diff prefix stripped from path, got %s", issue.File)
	}
	if issue.Line != 12 {
		t.Errorf("expected line 12, got %d", issue.Line)
	}
	if issue.Severity != domain.SeverityCritical || issue.Category != domain.CategorySecurity {
		t.Errorf("unexpected severity/category: %s/%s", issue.Severity, issue.Category)
	}
	if !issue.Anchored() {
		t.Error("expected issue to be anchored")
	}

	if len(result.PositiveNotes) != 1 || result.PositiveNotes[0] != "Good test coverage" {
		t.Errorf("unexpected positive notes: %v", result.PositiveNotes)
	}
}

func TestNormalizeFencedEqualsBare(t *testing.T) {
	fenced := "Here is the review:\n```json\n" + validResponse + "\n```"

	a, errA := Normalize(validResponse)
	b, errB := Normalize(fenced)
	if errA != nil || errB != nil {
		t.Fatalf("unexpected parse errors: %v, %v", errA, errB)
	}

	if a.Summary != b.Summary || a.Severity != b.Severity || len(a.Issues) != len(b.Issues) {
		t.Error("fenced and bare responses normalized differently")
	}
}

func TestNormalizeFailures(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty input", ""},
		{"plain prose", "I was unable to review this change."},
		{"truncated json", `{"summary": "cut off", "issues": [`},
		{"top-level array", `[{"severity": "low"}]`},
		{"top-level string", `"just a string"`},
		{"missing issues array", `{"summary": "no issues field", "severity": "low"}`},
		{"issues not an array", `{"summary": "x", "issues": {"a": 1}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, parseErr := Normalize(tt.raw)
			if parseErr == nil {
				t.Fatal("expected parse error, got nil")
			}
			if result != nil {
				t.Error("expected nil result on parse error")
			}
			if parseErr.Raw != tt.raw {
				t.Error("parse error must preserve the raw response verbatim")
			}
			if parseErr.Reason == "" {
				t.Error("parse error must carry a reason")
			}
		})
	}
}

func TestNormalizeDropsInvalidRecords(t *testing.T) {
	raw := `{
      "summary": "mixed quality output",
      "severity": "high",
      "issues": [
        {"severity": "blocker", "category": "security", "title": "bad severity"},
        {"severity": "high", "category": "style", "title": "bad category"},
        {"severity": "high", "category": "security"},
        "not an object",
        {"severity": "high", "category": "security", "title": "the keeper", "file": "a.swift", "line": 3}
      ]
    }`

	result, parseErr := Normalize(raw)
	if parseErr != nil {
		t.Fatalf("unexpected parse error: %v", parseErr)
	}
	if len(result.Issues) != 1 {
		t.Fatalf("expected 1 surviving issue, got %d", len(result.Issues))
	}
	if result.Issues[0].Title != "the keeper" {
		t.Errorf("wrong issue survived: %s", result.Issues[0].Title)
	}
}

func TestNormalizeLineHandling(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		want     int
		anchored bool
	}{
		{"positive line", `12`, 12, true},
		{"zero line", `0`, 0, false},
		{"negative line", `-3`, 0, false},
		{"fractional line", `4.5`, 0, false},
		{"string line", `"12"`, 0, false},
		{"absent line", ``, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lineField := ""
			if tt.line != "" {
				lineField = `"line": ` + tt.line + `,`
			}
			raw := `{"issues": [{` + lineField + `"file": "a.swift", "severity": "low", "category": "testing", "title": "t"}]}`

			result, parseErr := Normalize(raw)
			if parseErr != nil {
				t.Fatalf("unexpected parse error: %v", parseErr)
			}
			if len(result.Issues) != 1 {
				t.Fatalf("expected 1 issue, got %d", len(result.Issues))
			}
			if result.Issues[0].Line != tt.want {
				t.Errorf("line = %d, want %d", result.Issues[0].Line, tt.want)
			}
			if result.Issues[0].Anchored() != tt.anchored {
				t.Errorf("Anchored() = %v, want %v", result.Issues[0].Anchored(), tt.anchored)
			}
		})
	}
}

func TestNormalizeOverallSeverity(t *testing.T) {
	tests := []struct {
		name     string
		severity string
		want     domain.Severity
	}{
		{"valid value kept", `"high"`, domain.SeverityHigh},
		{"absent defaults low", ``, domain.SeverityLow},
		{"empty defaults low", `""`, domain.SeverityLow},
		{"invalid degrades to low", `"catastrophic"`, domain.SeverityLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := `{"issues": []}`
			if tt.severity != "" {
				raw = `{"severity": ` + tt.severity + `, "issues": []}`
			}
			result, parseErr := Normalize(raw)
			if parseErr != nil {
				t.Fatalf("unexpected parse error: %v", parseErr)
			}
			if result.Severity != tt.want {
				t.Errorf("severity = %s, want %s", result.Severity, tt.want)
			}
		})
	}
}

func TestNormalizeEmptyIssues(t *testing.T) {
	result, parseErr := Normalize(`{"summary": "all clear", "severity": "low", "issues": []}`)
	if parseErr != nil {
		t.Fatalf("unexpected parse error: %v", parseErr)
	}
	if len(result.Issues) != 0 {
		t.Errorf("expected no issues, got %d", len(result.Issues))
	}
}

func TestNormalizePositiveNotesFiltering(t *testing.T) {
	raw := `{"issues": [], "positive_notes": ["good", "", 42, "also good"]}`

	result, parseErr := Normalize(raw)
	if parseErr != nil {
		t.Fatalf("unexpected parse error: %v", parseErr)
	}
	if len(result.PositiveNotes) != 2 {
		t.Fatalf("expected 2 notes, got %v", result.PositiveNotes)
	}
	if result.PositiveNotes[0] != "good" || result.PositiveNotes[1] != "also good" {
		t.Errorf("unexpected notes: %v", result.PositiveNotes)
	}
}

func TestParseErrorMessage(t *testing.T) {
	err := &ParseError{Raw: "garbage", Reason: "no parseable JSON document found"}
	if !strings.Contains(err.Error(), "no parseable JSON document found") {
		t.Errorf("error message should contain the reason: %s", err.Error())
	}
}
