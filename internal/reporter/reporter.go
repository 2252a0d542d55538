// Package reporter derives the process exit signal from the final issue
// set. A non-zero status is how the surrounding CI gate blocks merges on
// critical findings without parsing any output.
package reporter

import (
	"log/slog"

	"adversarial-review/internal/config"
	"adversarial-review/internal/domain"
)

// ExitCode returns the process exit status for the final issue set:
// failure when any issue sits in the top severity tier, success otherwise.
func ExitCode(issues []domain.Issue) int {
	critical := 0
	for _, i := range issues {
		if i.Severity == domain.SeverityCritical {
			critical++
		}
	}

	if critical > 0 {
		slog.Error("critical issues found", "count", critical)
		return config.ExitFailure
	}

	slog.Info("review complete", "issues", len(issues))
	return config.ExitOK
}
