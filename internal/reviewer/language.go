package reviewer

import (
	"path/filepath"
	"strings"
)

// languageExtensions maps file extensions to fenced-code language tags
var languageExtensions = map[string]string{
	".cpp": "cpp", ".cc": "cpp", ".cxx": "cpp", ".c": "cpp", ".h": "cpp", ".hpp": "cpp",
	".go":   "go",
	".py":   "python",
	".java": "java",
	".ts":   "typescript", ".tsx": "typescript",
	".js": "javascript", ".jsx": "javascript",
	".rs": "rust",
	".kt": "kotlin", ".kts": "kotlin",
	".swift": "swift",
	".rb":    "ruby",
	".cs":    "csharp",
	".md":    "markdown",
}

// DetectLanguage picks the dominant language among the changed files, used
// as the fenced-code tag when embedding file contents in the prompt.
// Returns "" when nothing is recognized.
func DetectLanguage(files []string) string {
	counts := make(map[string]int)

	for _, file := range files {
		ext := strings.ToLower(filepath.Ext(file))
		if lang, ok := languageExtensions[ext]; ok && lang != "markdown" {
			counts[lang]++
		}
	}

	maxLang := ""
	maxCount := 0
	for lang, count := range counts {
		if count > maxCount {
			maxCount = count
			maxLang = lang
		}
	}

	return maxLang
}
