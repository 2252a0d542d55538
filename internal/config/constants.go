package config

// LLM backend types
const (
	BackendOpenAI    = "openai"
	BackendLangChain = "langchain"
	BackendGemini    = "gemini"
)

// Review markers
const (
	// MarkerReviewHeading is the visible heading of every posted review body
	MarkerReviewHeading = "## 🤖 AI Code Review"
	// MarkerFallback prefixes the comment posted when the anchored review
	// submission was rejected by the platform
	MarkerFallback = "⚠️ **Inline review submission was rejected; findings posted as a single comment.**"
	// ReviewTrailer closes every posted review body
	ReviewTrailer = "*This review was performed by an AI model. Please verify all suggestions.*"
)

// Process exit codes
const (
	ExitOK      = 0
	ExitFailure = 1
)
