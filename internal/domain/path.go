package domain

import "strings"

const (
	// PathPrefixGitSource is the standard git source prefix in diff headers
	PathPrefixGitSource = "a/"
	// PathPrefixGitDestination is the standard git destination prefix
	PathPrefixGitDestination = "b/"
)

// NormalizePath normalizes a file path reported by the model or found in a
// diff header: standard separators, no VCS prefixes, no leading slash.
func NormalizePath(path string) string {
	path = strings.ReplaceAll(path, "\\", "/")

	for _, p := range []string{PathPrefixGitSource, PathPrefixGitDestination, "./"} {
		path = strings.TrimPrefix(path, p)
	}

	return strings.TrimPrefix(path, "/")
}
