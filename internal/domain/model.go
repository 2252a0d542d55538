package domain

// Severity classifies how serious a finding is. The enumeration is closed:
// any other value in a model response is a validation error, never coerced.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

func (s Severity) Valid() bool {
	switch s {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow:
		return true
	}
	return false
}

// Category classifies the kind of finding.
type Category string

const (
	CategorySecurity      Category = "security"
	CategoryBestPractices Category = "best-practices"
	CategoryCompliance    Category = "compliance"
	CategoryTesting       Category = "testing"
	CategoryCodeQuality   Category = "code-quality"
)

func (c Category) Valid() bool {
	switch c {
	case CategorySecurity, CategoryBestPractices, CategoryCompliance,
		CategoryTesting, CategoryCodeQuality:
		return true
	}
	return false
}

// Issue is a single finding from the review model.
// Line is 1-based; 0 means the finding has no line anchor.
type Issue struct {
	File        string   `json:"file"`
	Line        int      `json:"line,omitempty"`
	Severity    Severity `json:"severity"`
	Category    Category `json:"category"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Suggestion  string   `json:"suggestion,omitempty"`
	CodeExample string   `json:"code_example,omitempty"`
}

// Anchored reports whether the issue can be attached to a concrete
// file and line in the diff view.
func (i Issue) Anchored() bool {
	return i.File != "" && i.Line > 0
}

// ReviewResult is the validated top-level review response.
// Created once by the normalizer and read-only afterward.
type ReviewResult struct {
	Summary       string   `json:"summary"`
	Severity      Severity `json:"severity"`
	Issues        []Issue  `json:"issues"`
	PositiveNotes []string `json:"positive_notes"`
}

// CriticalCount returns the number of issues in the top severity tier.
func (r *ReviewResult) CriticalCount() int {
	n := 0
	for _, i := range r.Issues {
		if i.Severity == SeverityCritical {
			n++
		}
	}
	return n
}

// ChangedFile is a changed path plus its current full content.
// Content is nil when the file could not be read.
type ChangedFile struct {
	Path    string
	Content *string
}

// DiffContext is the unified diff plus the ordered changed paths of interest.
type DiffContext struct {
	Diff  string
	Paths []string
}

// Target identifies the pull request the review is published against.
type Target struct {
	Repo     string // owner/name
	PRNumber int
}

// InlineComment is one anchored review comment record.
type InlineComment struct {
	Path string `json:"path"`
	Line int    `json:"line"`
	Side string `json:"side"`
	Body string `json:"body"`
}

// CommentPayload is the derived platform review payload: a summary body
// plus the ordered inline comment records. Built fresh per run, never
// mutated after construction.
type CommentPayload struct {
	SummaryBody string
	Inline      []InlineComment
}
