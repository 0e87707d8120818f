package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	DefaultProvider string // Which LLM provider to use by default (openai, gemini, or ollama)
	GitHub          GitHubConfig
	OpenAI          OpenAIConfig
	Gemini          GeminiConfig
	Ollama          OllamaConfig
	Quiz            QuizConfig
	Store           StoreConfig
	Logging         LoggingConfig
}

// GitHubConfig represents GitHub API configuration
type GitHubConfig struct {
	Token          string        // GitHub personal access token (optional, public repos work without it)
	APIURL         string        // GitHub API base URL
	RequestTimeout time.Duration // Request timeout for GitHub API
}

// OpenAIConfig holds OpenAI API configuration
type OpenAIConfig struct {
	APIKey      string        // OpenAI API key
	BaseURL     string        // API base URL (empty uses the library default)
	Model       string        // Chat model to use
	MaxTokens   int           // Max tokens to generate
	Temperature float64       // Sampling temperature
	Timeout     time.Duration // Request timeout

	// Rate limiting
	RequestsPerMinute int
	BurstLimit        int
}

// GeminiConfig holds Gemini API configuration
type GeminiConfig struct {
	APIKey      string        // Gemini API key
	BaseURL     string        // Gemini API base URL
	APIVersion  string        // API version (v1 or v1beta)
	Model       string        // Gemini model to use
	MaxTokens   int           // Max tokens to generate
	Temperature float64       // Sampling temperature
	Timeout     time.Duration // Request timeout

	// Rate limiting
	RequestsPerMinute int
	BurstLimit        int
}

// OllamaConfig holds configuration for the local Ollama runtime
type OllamaConfig struct {
	Endpoint            string        // Ollama API endpoint URL
	Model               string        // Model to use
	MaxTokens           int           // Max tokens to generate
	Temperature         float64       // Sampling temperature
	Timeout             time.Duration // Request timeout (long: on-device inference is slow)
	MaxIdleConns        int
	MaxIdleConnsPerHost int
	IdleConnTimeout     time.Duration

	// Rate limiting
	RequestsPerMinute int
	BurstLimit        int
}

// QuizConfig holds quiz generation defaults
type QuizConfig struct {
	QuestionCount int    // Default number of questions per quiz
	Difficulty    string // easy, medium, or hard
}

// StoreConfig represents local store configuration
type StoreConfig struct {
	Path         string        // Path to the SQLite database file
	BusyTimeout  int           // Busy timeout in milliseconds
	JournalMode  string        // Journal mode (WAL recommended)
	CacheEnabled bool          // Whether fetched pull requests are cached
	CacheTTL     time.Duration // How long a cached pull request stays fresh
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level      string // debug, info, warn, error
	Format     string // text or json
	Output     string // stdout, stderr, or file path
	AddSource  bool   // Include source code position in logs
	TimeFormat string // Time format for logs (empty uses RFC3339)
}

// New returns a new empty Config
func New() *Config {
	return &Config{}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := c.validateProvider(); err != nil {
		return fmt.Errorf("provider config: %w", err)
	}

	if err := c.validateQuiz(); err != nil {
		return fmt.Errorf("quiz config: %w", err)
	}

	if err := c.validateStore(); err != nil {
		return fmt.Errorf("store config: %w", err)
	}

	if err := c.validateLogging(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// HasAnyProviderCredentials reports whether at least one LLM provider is
// usable. Generation is impossible without one; callers treat this as a
// hard precondition. Ollama counts only when its endpoint is set
// explicitly via PRQUIZ_OLLAMA_ENDPOINT.
func (c *Config) HasAnyProviderCredentials() bool {
	return c.OpenAI.APIKey != "" || c.Gemini.APIKey != "" || c.Ollama.Endpoint != ""
}

func (c *Config) validateProvider() error {
	switch c.DefaultProvider {
	case "openai", "gemini", "ollama":
		return nil
	case "":
		return fmt.Errorf("default provider cannot be empty")
	default:
		return fmt.Errorf("unknown provider: %s (must be openai, gemini, or ollama)", c.DefaultProvider)
	}
}

func (c *Config) validateQuiz() error {
	if c.Quiz.QuestionCount <= 0 {
		return fmt.Errorf("question count must be positive")
	}

	switch c.Quiz.Difficulty {
	case "easy", "medium", "hard":
	default:
		return fmt.Errorf("invalid difficulty: %s", c.Quiz.Difficulty)
	}

	return nil
}

func (c *Config) validateStore() error {
	if c.Store.Path == "" {
		return fmt.Errorf("store path cannot be empty")
	}

	dir := filepath.Dir(c.Store.Path)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory for store: %w", err)
		}
	}

	if c.Store.BusyTimeout <= 0 {
		return fmt.Errorf("busy timeout must be positive")
	}

	if c.Store.CacheEnabled && c.Store.CacheTTL <= 0 {
		return fmt.Errorf("cache ttl must be positive when caching is enabled")
	}

	return nil
}

func (c *Config) validateLogging() error {
	level := strings.ToLower(c.Logging.Level)
	if level != "debug" && level != "info" && level != "warn" && level != "error" && level != "none" {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	format := strings.ToLower(c.Logging.Format)
	if format != "text" && format != "json" {
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}

	return nil
}

// ParseLogLevel parses a log level string to a slog.Level
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "none":
		// Set to a very high level that won't be triggered
		return slog.Level(9999)
	default:
		return slog.LevelInfo
	}
}

// getEnvString returns a string from the environment variable
func getEnvString(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt returns an int from the environment variable
func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvBool returns a bool from the environment variable
func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvDuration returns a time.Duration from the environment variable
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvFloat returns a float64 from the environment variable
func getEnvFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
