package normalizer

import "strings"

// ExtractJSON locates a single JSON document within raw model output.
// Policy: a fenced block explicitly tagged as JSON wins; otherwise the first
// fenced block of any kind; otherwise the whole text is the candidate.
// The candidate is returned trimmed; validity is the caller's problem.
func ExtractJSON(raw string) string {
	if doc, ok := fencedBlock(raw, "```json"); ok {
		return doc
	}
	if doc, ok := fencedBlock(raw, "```"); ok {
		return doc
	}
	return strings.TrimSpace(raw)
}

// fencedBlock returns the content of the first block opened by marker.
// An unterminated block runs to the end of the text.
func fencedBlock(raw, marker string) (string, bool) {
	start := strings.Index(raw, marker)
	if start < 0 {
		return "", false
	}
	body := raw[start+len(marker):]
	// Drop the rest of the fence line (e.g. a language tag after ```)
	if nl := strings.IndexByte(body, '\n'); nl >= 0 && marker == "```" {
		firstLine := strings.TrimSpace(body[:nl])
		if firstLine != "" && !strings.HasPrefix(firstLine, "{") && !strings.HasPrefix(firstLine, "[") {
			body = body[nl+1:]
		}
	}
	if end := strings.Index(body, "```"); end >= 0 {
		body = body[:end]
	}
	return strings.TrimSpace(body), true
}
