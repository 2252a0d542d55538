package reviewer

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"adversarial-review/internal/domain"
)

// defaultGuidelines is the embedded review instruction set. Category names
// must stay aligned with the domain.Category enumeration because the model
// is told to echo them back.
const defaultGuidelines = `# Review Guidelines:

## Security (CRITICAL):
- Are secrets, keys, or credentials hardcoded or logged?
- Is input validation thorough for all external data?
- Are cryptographic operations used correctly?
- Could any change leak sensitive data?

## Best Practices:
- Is error handling appropriate and consistent?
- Are optionals/nullable values handled safely?
- Are there concurrency hazards around shared mutable state?

## Compliance:
- Do data formats and field names follow the relevant standards?
- Are documented protocol requirements still satisfied?

## Testing:
- Are there tests for the changed code?
- Are edge cases and error conditions covered?

## Code Quality:
- Is the code overly complex where simpler would work?
- Are there duplicated patterns that should be abstracted?
- Are naming conventions followed and is documentation adequate?`

// outputFormat is the exact wire shape the normalizer validates against.
const outputFormat = `# Output Format:

Provide your review in this JSON format:
{
  "summary": "Brief overview of findings",
  "severity": "critical|high|medium|low",
  "issues": [
    {
      "file": "path/to/file",
      "line": 42,
      "severity": "critical|high|medium|low",
      "category": "security|best-practices|compliance|testing|code-quality",
      "title": "Brief issue title",
      "description": "Detailed explanation of the issue",
      "suggestion": "How to fix it",
      "code_example": "// Example of better code (optional)"
    }
  ],
  "positive_notes": [
    "Things that were done well"
  ]
}

Be thorough but fair. Flag real issues, not stylistic nitpicks unless they
impact security or maintainability.`

// LoadGuidelines returns the review guidelines: the configured file when it
// is readable, the embedded default otherwise.
func LoadGuidelines(path string) string {
	if path == "" {
		return defaultGuidelines
	}
	data, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("read guidelines failed, using embedded default", "path", path, "error", err)
		return defaultGuidelines
	}
	return string(data)
}

// BuildPrompt assembles the single review request. Pure: same inputs always
// yield the same prompt.
func BuildPrompt(diffCtx domain.DiffContext, contents map[string]*string, lang, guidelines string) string {
	var sb strings.Builder

	sb.WriteString("You are performing an adversarial code review of a pull request.\n")
	sb.WriteString("This code may have been generated or suggested by AI tools. ")
	sb.WriteString("Your job is to find potential issues that an AI might miss or introduce.\n\n")

	sb.WriteString("# Changed Files Context:\n")
	for _, path := range diffCtx.Paths {
		content := contents[path]
		if content == nil {
			continue
		}
		fmt.Fprintf(&sb, "File: %s\n```%s\n%s\n```\n\n", path, lang, *content)
	}

	sb.WriteString("# Git Diff:\n```diff\n")
	sb.WriteString(diffCtx.Diff)
	sb.WriteString("\n```\n\n")

	sb.WriteString(guidelines)
	sb.WriteString("\n\n")
	sb.WriteString(outputFormat)

	return sb.String()
}
