package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Default configuration values
const (
	DefaultConfigPath = "config.yaml"
	DefaultBaseRef    = "main"
)

// ReviewConfig controls context collection and prompt assembly.
type ReviewConfig struct {
	BaseRef        string   `yaml:"base_ref"`        // Diff comparison point (branch name, without origin/)
	Extensions     []string `yaml:"extensions"`      // Allow-list of file extensions to review
	GuidelinesFile string   `yaml:"guidelines_file"` // Optional override for the review guidelines prompt
	MaxFileBytes   int      `yaml:"max_file_bytes"`  // Skip file contents larger than this
	ContentWorkers int      `yaml:"content_workers"` // Parallel file content reads
}

// LLMConfig selects and configures the review model backend.
type LLMConfig struct {
	Backend  string        `yaml:"backend"` // openai, langchain, gemini (default: openai)
	Model    string        `yaml:"model"`
	Endpoint string        `yaml:"endpoint"`
	APIKey   string        `yaml:"-"` // From Env
	Timeout  time.Duration `yaml:"timeout"`
}

// GitHubConfig identifies the target pull request and the credential to use.
type GitHubConfig struct {
	Repo      string `yaml:"repo"` // owner/name
	PRNumber  int    `yaml:"pr_number"`
	Token     string `yaml:"-"` // From Env
	APIURL    string `yaml:"api_url"`
	CommitSHA string `yaml:"-"` // Optional pre-resolved head commit, from Env
}

// StorageConfig holds configuration for review-run persistence.
type StorageConfig struct {
	Driver       string        `yaml:"driver"` // sqlite
	DSN          string        `yaml:"dsn"`
	Timeout      time.Duration `yaml:"timeout"`
	MaxStringLen int           `yaml:"max_string_len"` // Cap for string fields in stored result JSON
}

// Config holds the configuration for one review run.
type Config struct {
	Log struct {
		Level    string `yaml:"level"`  // DEBUG, INFO, WARN, ERROR
		Format   string `yaml:"format"` // text, json
		Output   string `yaml:"output"` // stdout, stderr, /path/to/file
		Rotation struct {
			MaxSize    int  `yaml:"max_size"`    // Megabytes
			MaxBackups int  `yaml:"max_backups"` // Number of old files to keep
			MaxAge     int  `yaml:"max_age"`     // Days to keep
			Compress   bool `yaml:"compress"`
		} `yaml:"rotation"`
	} `yaml:"log"`

	Review ReviewConfig `yaml:"review"`

	LLM LLMConfig `yaml:"llm"`

	GitHub GitHubConfig `yaml:"github"`

	Storage StorageConfig `yaml:"storage"`
}

// GetLogLevel returns the slog.Level based on Log.Level string
func (c *Config) GetLogLevel() slog.Level {
	switch strings.ToUpper(c.Log.Level) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LoadConfig loads configuration from YAML file and supplements with
// environment variables for secrets and CI-provided values.
func LoadConfig() *Config {
	cfg := &Config{}

	// Defaults before loading
	cfg.Log.Level = "INFO"
	cfg.Log.Format = "text"
	cfg.Log.Output = "stdout"
	cfg.Log.Rotation.MaxSize = 100
	cfg.Log.Rotation.MaxBackups = 10
	cfg.Log.Rotation.MaxAge = 7
	cfg.Log.Rotation.Compress = true

	cfg.Review.BaseRef = DefaultBaseRef
	cfg.Review.Extensions = []string{".swift", ".md"}
	cfg.Review.MaxFileBytes = 1 << 20
	cfg.Review.ContentWorkers = 4

	cfg.LLM.Backend = BackendOpenAI
	cfg.LLM.Endpoint = "https://api.openai.com/v1"
	cfg.LLM.Model = "gpt-4o"
	cfg.LLM.Timeout = 120 * time.Second

	cfg.GitHub.APIURL = "https://api.github.com"

	cfg.Storage.Timeout = 5 * time.Second
	cfg.Storage.MaxStringLen = 2000

	// Try to load from YAML
	configPath := getEnv("CONFIG_PATH", DefaultConfigPath)
	data, err := os.ReadFile(configPath)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			slog.Error("unmarshal config failed", "error", err, "path", configPath)
			os.Exit(2)
		}
		slog.Info("config loaded", "path", configPath)
	} else {
		if !os.IsNotExist(err) {
			slog.Error("read config failed", "error", err, "path", configPath)
			os.Exit(2)
		}
		slog.Debug("config not found, using defaults", "path", configPath)
	}

	// Always supplement/override with environment variables
	cfg.LLM.APIKey = getEnv("LLM_API_KEY", cfg.LLM.APIKey)
	cfg.GitHub.Token = getEnv("GITHUB_TOKEN", cfg.GitHub.Token)
	cfg.GitHub.Repo = getEnv("REPO", cfg.GitHub.Repo)
	cfg.GitHub.CommitSHA = getEnv("COMMIT_SHA", cfg.GitHub.CommitSHA)
	cfg.Review.BaseRef = getEnv("BASE_REF", cfg.Review.BaseRef)
	cfg.Storage.DSN = getEnv("REVIEW_DB", cfg.Storage.DSN)
	if cfg.Storage.DSN != "" && cfg.Storage.Driver == "" {
		cfg.Storage.Driver = "sqlite"
	}

	if envPR := getEnvInt("PR_NUMBER", 0); envPR != 0 {
		cfg.GitHub.PRNumber = envPR
	}
	if envModel := os.Getenv("LLM_MODEL"); envModel != "" {
		cfg.LLM.Model = envModel
	}
	if envBackend := os.Getenv("LLM_BACKEND"); envBackend != "" {
		cfg.LLM.Backend = envBackend
	}
	if envLogLevel := os.Getenv("LOG_LEVEL"); envLogLevel != "" {
		cfg.Log.Level = envLogLevel
	}
	if envLogFormat := os.Getenv("LOG_FORMAT"); envLogFormat != "" {
		cfg.Log.Format = envLogFormat
	}
	if envLogOutput := os.Getenv("LOG_OUTPUT"); envLogOutput != "" {
		cfg.Log.Output = envLogOutput
	}

	return cfg
}

// Validate validates the configuration
func (c *Config) Validate() error {
	var errs []string

	if c.LLM.APIKey == "" {
		errs = append(errs, "LLM_API_KEY is required")
	}
	if c.GitHub.Token == "" {
		errs = append(errs, "GITHUB_TOKEN is required")
	}
	if c.GitHub.Repo == "" {
		errs = append(errs, "REPO is required (owner/name)")
	} else if !strings.Contains(c.GitHub.Repo, "/") {
		errs = append(errs, fmt.Sprintf("invalid repo %q, expected owner/name", c.GitHub.Repo))
	}
	if c.GitHub.PRNumber <= 0 {
		errs = append(errs, "PR_NUMBER is required")
	}
	switch c.LLM.Backend {
	case BackendOpenAI, BackendLangChain, BackendGemini:
	default:
		errs = append(errs, fmt.Sprintf("unknown llm backend: %s", c.LLM.Backend))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config invalid: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Helper functions for reading environment variables

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}
