// Package validator checks issue anchors against the unified diff's
// addressable range. The platform only accepts inline comments on lines the
// diff actually touches; the publisher consults this before submitting so a
// rejection is explainable in the logs.
package validator

import (
	"regexp"
	"strconv"
	"strings"

	"adversarial-review/internal/domain"
)

// LineRange is a contiguous run of addressable lines in a file.
type LineRange struct {
	Start int
	End   int
}

// AnchorValidator maps each changed file to the line ranges an inline
// comment may target.
type AnchorValidator struct {
	ranges   map[string][]LineRange
	allFiles map[string]bool
}

var (
	// Match file headers: "+++ b/path"
	filePattern = regexp.MustCompile(`(?m)^\+\+\+ (?:b/)?(.+)$`)
	// Match hunk headers: @@ -start,count +start,count @@
	hunkPattern = regexp.MustCompile(`^@@ -\d+(?:,\d+)? \+(\d+)(?:,(\d+))? @@`)
)

// New builds a validator from a unified diff.
func New(diff string) *AnchorValidator {
	v := &AnchorValidator{
		ranges:   make(map[string][]LineRange),
		allFiles: make(map[string]bool),
	}
	v.parseDiff(diff)
	return v
}

// parseDiff walks the diff tracking the new-file line counter. Added and
// context lines are addressable; deleted lines do not advance the counter.
func (v *AnchorValidator) parseDiff(diff string) {
	var currentFile string
	var lineNum int
	var inHunk bool

	for _, line := range strings.Split(diff, "\n") {
		if matches := filePattern.FindStringSubmatch(line); len(matches) > 1 {
			currentFile = domain.NormalizePath(strings.TrimSpace(matches[1]))
			v.allFiles[currentFile] = true
			inHunk = false
			continue
		}

		if matches := hunkPattern.FindStringSubmatch(line); len(matches) > 1 {
			lineNum, _ = strconv.Atoi(matches[1])
			inHunk = true
			continue
		}

		if !inHunk || currentFile == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, "+") && !strings.HasPrefix(line, "+++"):
			v.addLine(currentFile, lineNum)
			lineNum++
		case strings.HasPrefix(line, "-") && !strings.HasPrefix(line, "---"):
			// Deleted line: not addressable, does not advance the new-file counter.
		case strings.HasPrefix(line, " ") || line == "":
			v.addLine(currentFile, lineNum)
			lineNum++
		}
	}
}

// addLine records an addressable line, extending an adjacent range if possible.
func (v *AnchorValidator) addLine(file string, line int) {
	ranges := v.ranges[file]
	for i := range ranges {
		if line == ranges[i].End+1 {
			ranges[i].End = line
			v.ranges[file] = ranges
			return
		}
		if line >= ranges[i].Start && line <= ranges[i].End {
			return
		}
	}
	v.ranges[file] = append(ranges, LineRange{Start: line, End: line})
}

// IsValid reports whether an inline comment on file:line targets the
// diff's addressable range.
func (v *AnchorValidator) IsValid(file string, line int) bool {
	for _, r := range v.ranges[domain.NormalizePath(file)] {
		if line >= r.Start && line <= r.End {
			return true
		}
	}
	return false
}

// FileInDiff reports whether the file appears in the diff at all.
func (v *AnchorValidator) FileInDiff(file string) bool {
	return v.allFiles[domain.NormalizePath(file)]
}

// InvalidReason returns a human-readable reason why an anchor is invalid.
func (v *AnchorValidator) InvalidReason(file string, line int) string {
	if !v.FileInDiff(file) {
		return "file not in diff"
	}

	ranges := v.ranges[domain.NormalizePath(file)]
	if len(ranges) == 0 {
		return "no addressable lines in file"
	}

	nearest := ranges[0]
	minDist := int(^uint(0) >> 1)
	for _, r := range ranges {
		if d := abs(line - r.Start); d < minDist {
			minDist = d
			nearest = r
		}
		if d := abs(line - r.End); d < minDist {
			minDist = d
			nearest = r
		}
	}

	return "line outside diff range (nearest: " + strconv.Itoa(nearest.Start) + "-" + strconv.Itoa(nearest.End) + ")"
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
