package normalizer

import "testing"

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "bare json",
			raw:  `{"summary": "ok"}`,
			want: `{"summary": "ok"}`,
		},
		{
			name: "json fence",
			raw:  "Here is my review:\n```json\n{\"summary\": \"ok\"}\n```\nDone.",
			want: `{"summary": "ok"}`,
		},
		{
			name: "untagged fence",
			raw:  "```\n{\"summary\": \"ok\"}\n```",
			want: `{"summary": "ok"}`,
		},
		{
			name: "json fence preferred over earlier plain fence",
			raw:  "```\nnot json\n```\n```json\n{\"a\": 1}\n```",
			want: `{"a": 1}`,
		},
		{
			name: "unterminated fence runs to end",
			raw:  "```json\n{\"summary\": \"ok\"}",
			want: `{"summary": "ok"}`,
		},
		{
			name: "surrounding whitespace trimmed",
			raw:  "  \n{\"a\": 1}\n  ",
			want: `{"a": 1}`,
		},
		{
			name: "prose without fences returned as-is",
			raw:  "I could not produce a review.",
			want: "I could not produce a review.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractJSON(tt.raw); got != tt.want {
				t.Errorf("ExtractJSON() = %q, want %q", got, tt.want)
			}
		})
	}
}
