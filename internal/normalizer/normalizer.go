// Package normalizer turns the untrusted raw model response into a validated
// domain.ReviewResult. The model output is schema-free text: every field is
// checked before it is trusted, and nothing here panics on malformed input.
package normalizer

import (
	"fmt"
	"log/slog"

	"adversarial-review/internal/domain"
	"adversarial-review/internal/metrics"

	"github.com/tidwall/gjson"
)

// ParseError reports a response that could not be normalized. Raw preserves
// the original model text so the caller can emit it for diagnosis.
type ParseError struct {
	Raw    string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("normalize review response: %s", e.Reason)
}

// Normalize extracts and validates the JSON review document inside raw.
// Exactly one of the results is non-nil.
//
// Policy for individual issue records (documented choice): a record that is
// not an object, has an out-of-enumeration severity or category, or lacks a
// title is dropped with a warning; the parse as a whole proceeds. A missing
// issues array fails the whole parse.
func Normalize(raw string) (*domain.ReviewResult, *ParseError) {
	doc := ExtractJSON(raw)

	if !gjson.Valid(doc) {
		metrics.ParseFailures.WithLabelValues("no_json").Inc()
		return nil, &ParseError{Raw: raw, Reason: "no parseable JSON document found"}
	}

	root := gjson.Parse(doc)
	if !root.IsObject() {
		metrics.ParseFailures.WithLabelValues("schema").Inc()
		return nil, &ParseError{Raw: raw, Reason: "top-level JSON value is not an object"}
	}

	issuesField := root.Get("issues")
	if !issuesField.Exists() || !issuesField.IsArray() {
		metrics.ParseFailures.WithLabelValues("schema").Inc()
		return nil, &ParseError{Raw: raw, Reason: "missing required issues array"}
	}

	result := &domain.ReviewResult{
		Summary:  root.Get("summary").String(),
		Severity: overallSeverity(root.Get("severity")),
	}

	issuesField.ForEach(func(_, rec gjson.Result) bool {
		issue, ok := normalizeIssue(rec)
		if ok {
			result.Issues = append(result.Issues, issue)
		}
		return true
	})

	root.Get("positive_notes").ForEach(func(_, note gjson.Result) bool {
		if note.Type == gjson.String && note.String() != "" {
			result.PositiveNotes = append(result.PositiveNotes, note.String())
		}
		return true
	})

	return result, nil
}

// overallSeverity defaults to low when absent; an out-of-enumeration overall
// value also degrades to low with a warning. Per-issue severities, which
// gate the exit status, are never coerced like this.
func overallSeverity(field gjson.Result) domain.Severity {
	if !field.Exists() || field.String() == "" {
		return domain.SeverityLow
	}
	s := domain.Severity(field.String())
	if !s.Valid() {
		slog.Warn("invalid overall severity, defaulting to low", "severity", field.String())
		return domain.SeverityLow
	}
	return s
}

// normalizeIssue validates one issue record against the closed enumerations
// and the required fields. Returns ok=false when the record must be dropped.
func normalizeIssue(rec gjson.Result) (domain.Issue, bool) {
	if !rec.IsObject() {
		slog.Warn("dropping issue record, not an object", "value", rec.Raw)
		metrics.DroppedIssues.WithLabelValues("not_object").Inc()
		return domain.Issue{}, false
	}

	severity := domain.Severity(rec.Get("severity").String())
	if !severity.Valid() {
		slog.Warn("dropping issue record, invalid severity", "severity", rec.Get("severity").String(), "title", rec.Get("title").String())
		metrics.DroppedIssues.WithLabelValues("severity").Inc()
		return domain.Issue{}, false
	}

	category := domain.Category(rec.Get("category").String())
	if !category.Valid() {
		slog.Warn("dropping issue record, invalid category", "category", rec.Get("category").String(), "title", rec.Get("title").String())
		metrics.DroppedIssues.WithLabelValues("category").Inc()
		return domain.Issue{}, false
	}

	title := rec.Get("title").String()
	if title == "" {
		slog.Warn("dropping issue record, missing title")
		metrics.DroppedIssues.WithLabelValues("missing_field").Inc()
		return domain.Issue{}, false
	}

	// Zero, negative, or non-integer lines mean "no anchor".
	line := 0
	lineField := rec.Get("line")
	if lineField.Type == gjson.Number {
		if n := lineField.Int(); n > 0 && float64(n) == lineField.Float() {
			line = int(n)
		}
	}

	return domain.Issue{
		File:        domain.NormalizePath(rec.Get("file").String()),
		Line:        line,
		Severity:    severity,
		Category:    category,
		Title:       title,
		Description: rec.Get("description").String(),
		Suggestion:  rec.Get("suggestion").String(),
		CodeExample: rec.Get("code_example").String(),
	}, true
}
