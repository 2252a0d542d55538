package publisher

import (
	"fmt"
	"strings"

	"adversarial-review/internal/config"
	"adversarial-review/internal/domain"
)

// inlineSide is the diff side inline comments attach to. Findings always
// reference the new version of a file.
const inlineSide = "RIGHT"

// severityMarker returns the marker used as the visual key for a severity.
func severityMarker(s domain.Severity) string {
	switch s {
	case domain.SeverityCritical:
		return "🚨"
	case domain.SeverityHigh:
		return "⚠️"
	case domain.SeverityMedium:
		return "⚡"
	default:
		return "ℹ️"
	}
}

// RenderIssue renders one finding into a comment body. Pure: same issue,
// same text.
func RenderIssue(i domain.Issue) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s **%s** (%s)\n", severityMarker(i.Severity), i.Title, i.Severity)
	if i.File != "" {
		fmt.Fprintf(&sb, "- **File:** `%s`", i.File)
		if i.Line > 0 {
			fmt.Fprintf(&sb, " (line %d)", i.Line)
		}
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "- **Category:** %s\n", i.Category)
	fmt.Fprintf(&sb, "- **Issue:** %s\n", i.Description)
	if i.Suggestion != "" {
		fmt.Fprintf(&sb, "- **Suggestion:** %s\n", i.Suggestion)
	}
	if i.CodeExample != "" {
		fmt.Fprintf(&sb, "\n```\n%s\n```\n", i.CodeExample)
	}

	return sb.String()
}

// BuildPayload partitions the result's issues into inline comments (valid
// file+line anchor) and body-only findings, and renders the summary body.
// Body-only findings are embedded in the summary so nothing is dropped:
// the platform's inline mechanism needs a concrete anchor, unanchored
// findings do not get one.
func BuildPayload(res *domain.ReviewResult) domain.CommentPayload {
	var inline []domain.InlineComment
	var bodyOnly []domain.Issue

	for _, issue := range res.Issues {
		if issue.Anchored() {
			inline = append(inline, domain.InlineComment{
				Path: issue.File,
				Line: issue.Line,
				Side: inlineSide,
				Body: RenderIssue(issue),
			})
		} else {
			bodyOnly = append(bodyOnly, issue)
		}
	}

	return domain.CommentPayload{
		SummaryBody: renderSummary(res, bodyOnly),
		Inline:      inline,
	}
}

// renderSummary renders the top-level review body: overall summary and
// severity, the body-only findings, and the positive notes.
func renderSummary(res *domain.ReviewResult, bodyOnly []domain.Issue) string {
	var sb strings.Builder

	sb.WriteString(config.MarkerReviewHeading + "\n\n")
	fmt.Fprintf(&sb, "**Summary:** %s\n\n", res.Summary)
	fmt.Fprintf(&sb, "**Overall Severity:** %s\n\n", strings.ToUpper(string(res.Severity)))

	if len(bodyOnly) > 0 {
		sb.WriteString("### Issues Found\n\n")
		for _, issue := range bodyOnly {
			sb.WriteString(RenderIssue(issue))
			sb.WriteString("\n")
		}
	}

	if len(res.PositiveNotes) > 0 {
		sb.WriteString("### ✅ Positive Notes\n\n")
		for _, note := range res.PositiveNotes {
			fmt.Fprintf(&sb, "- %s\n", note)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("---\n" + config.ReviewTrailer)

	return sb.String()
}
