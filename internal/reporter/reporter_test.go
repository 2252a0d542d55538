package reporter

import (
	"testing"

	"adversarial-review/internal/config"
	"adversarial-review/internal/domain"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name   string
		issues []domain.Issue
		want   int
	}{
		{
			name:   "no issues",
			issues: nil,
			want:   config.ExitOK,
		},
		{
			name: "only non-critical issues",
			issues: []domain.Issue{
				{Severity: domain.SeverityHigh},
				{Severity: domain.SeverityMedium},
				{Severity: domain.SeverityLow},
			},
			want: config.ExitOK,
		},
		{
			name: "one critical issue",
			issues: []domain.Issue{
				{Severity: domain.SeverityLow},
				{Severity: domain.SeverityCritical},
			},
			want: config.ExitFailure,
		},
		{
			name: "multiple critical issues",
			issues: []domain.Issue{
				{Severity: domain.SeverityCritical},
				{Severity: domain.SeverityCritical},
			},
			want: config.ExitFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.issues); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}
