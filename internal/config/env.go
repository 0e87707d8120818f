package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

// SettingsProvider is a key-value capability consulted at startup to overlay
// stored defaults on top of the environment. The core never depends on the
// storage mechanism behind it.
type SettingsProvider interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// Settings keys understood by ApplySettings.
const (
	SettingDefaultProvider = "default_provider"
	SettingQuestionCount   = "question_count"
	SettingDifficulty      = "difficulty"
)

// LoadFromEnv loads configuration from environment variables.
// configDir is the directory holding the .env file and the local store
// (empty for the default ~/.prquiz).
func LoadFromEnv(configDir string) (*Config, error) {
	cfg := New()

	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".prquiz")
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	// Try the config directory first, then the current directory as fallback.
	if err := godotenv.Load(filepath.Join(configDir, ".env")); err != nil {
		_ = godotenv.Load()
	}

	cfg.DefaultProvider = getEnvString("PRQUIZ_DEFAULT_PROVIDER", "openai")

	cfg.GitHub = GitHubConfig{
		Token:          getEnvString("PRQUIZ_GITHUB_TOKEN", ""),
		APIURL:         getEnvString("PRQUIZ_GITHUB_API_URL", "https://api.github.com"),
		RequestTimeout: getEnvDuration("PRQUIZ_GITHUB_REQUEST_TIMEOUT", 30*time.Second),
	}

	cfg.OpenAI = OpenAIConfig{
		APIKey:            getEnvString("PRQUIZ_OPENAI_API_KEY", ""),
		BaseURL:           getEnvString("PRQUIZ_OPENAI_BASE_URL", ""),
		Model:             getEnvString("PRQUIZ_OPENAI_MODEL", "gpt-4o"),
		MaxTokens:         getEnvInt("PRQUIZ_OPENAI_MAX_TOKENS", 4096),
		Temperature:       getEnvFloat("PRQUIZ_OPENAI_TEMPERATURE", 0.7),
		Timeout:           getEnvDuration("PRQUIZ_OPENAI_TIMEOUT", 60*time.Second),
		RequestsPerMinute: getEnvInt("PRQUIZ_OPENAI_REQUESTS_PER_MINUTE", 0),
		BurstLimit:        getEnvInt("PRQUIZ_OPENAI_BURST_LIMIT", 1),
	}

	cfg.Gemini = GeminiConfig{
		APIKey:            getEnvString("PRQUIZ_GEMINI_API_KEY", ""),
		BaseURL:           getEnvString("PRQUIZ_GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
		APIVersion:        getEnvString("PRQUIZ_GEMINI_API_VERSION", "v1beta"),
		Model:             getEnvString("PRQUIZ_GEMINI_MODEL", "gemini-2.0-flash"),
		MaxTokens:         getEnvInt("PRQUIZ_GEMINI_MAX_TOKENS", 4096),
		Temperature:       getEnvFloat("PRQUIZ_GEMINI_TEMPERATURE", 0.7),
		Timeout:           getEnvDuration("PRQUIZ_GEMINI_TIMEOUT", 60*time.Second),
		RequestsPerMinute: getEnvInt("PRQUIZ_GEMINI_REQUESTS_PER_MINUTE", 0),
		BurstLimit:        getEnvInt("PRQUIZ_GEMINI_BURST_LIMIT", 1),
	}

	cfg.Ollama = OllamaConfig{
		Endpoint:            getEnvString("PRQUIZ_OLLAMA_ENDPOINT", ""),
		Model:               getEnvString("PRQUIZ_OLLAMA_MODEL", "llama3.1"),
		MaxTokens:           getEnvInt("PRQUIZ_OLLAMA_MAX_TOKENS", 4096),
		Temperature:         getEnvFloat("PRQUIZ_OLLAMA_TEMPERATURE", 0.7),
		Timeout:             getEnvDuration("PRQUIZ_OLLAMA_TIMEOUT", 600*time.Second),
		MaxIdleConns:        getEnvInt("PRQUIZ_OLLAMA_MAX_IDLE_CONNS", 100),
		MaxIdleConnsPerHost: getEnvInt("PRQUIZ_OLLAMA_MAX_IDLE_CONNS_PER_HOST", 100),
		IdleConnTimeout:     getEnvDuration("PRQUIZ_OLLAMA_IDLE_CONN_TIMEOUT", 120*time.Second),
		RequestsPerMinute:   getEnvInt("PRQUIZ_OLLAMA_REQUESTS_PER_MINUTE", 0),
		BurstLimit:          getEnvInt("PRQUIZ_OLLAMA_BURST_LIMIT", 1),
	}

	cfg.Quiz = QuizConfig{
		QuestionCount: getEnvInt("PRQUIZ_QUESTION_COUNT", 5),
		Difficulty:    getEnvString("PRQUIZ_DIFFICULTY", "medium"),
	}

	cfg.Store = StoreConfig{
		Path:         getEnvString("PRQUIZ_STORE_PATH", filepath.Join(configDir, "prquiz.db")),
		BusyTimeout:  getEnvInt("PRQUIZ_STORE_BUSY_TIMEOUT", 5000),
		JournalMode:  getEnvString("PRQUIZ_STORE_JOURNAL_MODE", "WAL"),
		CacheEnabled: getEnvBool("PRQUIZ_CACHE_ENABLED", false),
		CacheTTL:     getEnvDuration("PRQUIZ_CACHE_TTL", 10*time.Minute),
	}

	cfg.Logging = LoggingConfig{
		Level:      getEnvString("PRQUIZ_LOG_LEVEL", "info"),
		Format:     getEnvString("PRQUIZ_LOG_FORMAT", "text"),
		Output:     getEnvString("PRQUIZ_LOG_OUTPUT", filepath.Join(configDir, "prquiz.log")),
		AddSource:  getEnvBool("PRQUIZ_LOG_ADD_SOURCE", false),
		TimeFormat: getEnvString("PRQUIZ_LOG_TIME_FORMAT", time.RFC3339),
	}

	return cfg, cfg.Validate()
}

// ApplySettings overlays persisted user settings on top of the loaded
// configuration. Settings that are absent or malformed are ignored; the
// environment keeps its value.
func (c *Config) ApplySettings(ctx context.Context, settings SettingsProvider) {
	if settings == nil {
		return
	}

	if v, err := settings.Get(ctx, SettingDefaultProvider); err == nil && v != "" {
		c.DefaultProvider = v
	}

	if v, err := settings.Get(ctx, SettingQuestionCount); err == nil && v != "" {
		if n := getIntSetting(v); n > 0 {
			c.Quiz.QuestionCount = n
		}
	}

	if v, err := settings.Get(ctx, SettingDifficulty); err == nil {
		switch v {
		case "easy", "medium", "hard":
			c.Quiz.Difficulty = v
		}
	}
}

func getIntSetting(v string) int {
	var n int
	if _, err := fmt.Sscanf(v, "%d", &n); err != nil {
		return 0
	}
	return n
}
