package config

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEnvString(t *testing.T) {
	tests := []struct {
		name         string
		envValue     string
		defaultValue string
		expected     string
	}{
		{
			name:         "env not set, return default",
			envValue:     "",
			defaultValue: "fallback",
			expected:     "fallback",
		},
		{
			name:         "env set, return env value",
			envValue:     "from-env",
			defaultValue: "fallback",
			expected:     "from-env",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := "TEST_STRING_VALUE"
			if tt.envValue != "" {
				t.Setenv(key, tt.envValue)
			} else {
				os.Unsetenv(key)
			}

			assert.Equal(t, tt.expected, getEnvString(key, tt.defaultValue))
		})
	}
}

func TestGetEnvInt(t *testing.T) {
	tests := []struct {
		name         string
		envValue     string
		defaultValue int
		expected     int
	}{
		{
			name:         "env not set, return default",
			envValue:     "",
			defaultValue: 7,
			expected:     7,
		},
		{
			name:         "env set to 42, return 42",
			envValue:     "42",
			defaultValue: 7,
			expected:     42,
		},
		{
			name:         "env set to invalid value, return default",
			envValue:     "not-a-number",
			defaultValue: 7,
			expected:     7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := "TEST_INT_VALUE"
			if tt.envValue != "" {
				t.Setenv(key, tt.envValue)
			} else {
				os.Unsetenv(key)
			}

			assert.Equal(t, tt.expected, getEnvInt(key, tt.defaultValue))
		})
	}
}

func TestGetEnvFloat(t *testing.T) {
	tests := []struct {
		name         string
		envValue     string
		defaultValue float64
		expected     float64
	}{
		{
			name:         "env not set, return default",
			envValue:     "",
			defaultValue: 0.2,
			expected:     0.2,
		},
		{
			name:         "env set to 0.7, maintain precision",
			envValue:     "0.7",
			defaultValue: 0.2,
			expected:     0.7,
		},
		{
			name:         "env set to invalid value, return default",
			envValue:     "invalid",
			defaultValue: 0.2,
			expected:     0.2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := "TEST_FLOAT_VALUE"
			if tt.envValue != "" {
				t.Setenv(key, tt.envValue)
			} else {
				os.Unsetenv(key)
			}

			assert.Equal(t, tt.expected, getEnvFloat(key, tt.defaultValue))
		})
	}
}

func TestGetEnvDuration(t *testing.T) {
	key := "TEST_DURATION_VALUE"

	os.Unsetenv(key)
	assert.Equal(t, 30*time.Second, getEnvDuration(key, 30*time.Second))

	t.Setenv(key, "90s")
	assert.Equal(t, 90*time.Second, getEnvDuration(key, 30*time.Second))

	t.Setenv(key, "bogus")
	assert.Equal(t, 30*time.Second, getEnvDuration(key, 30*time.Second))
}

func TestGetEnvBool(t *testing.T) {
	key := "TEST_BOOL_VALUE"

	os.Unsetenv(key)
	assert.False(t, getEnvBool(key, false))
	assert.True(t, getEnvBool(key, true))

	t.Setenv(key, "true")
	assert.True(t, getEnvBool(key, false))

	t.Setenv(key, "0")
	assert.False(t, getEnvBool(key, true))
}

func TestLoadFromEnv(t *testing.T) {
	configDir := t.TempDir()

	t.Setenv("PRQUIZ_DEFAULT_PROVIDER", "ollama")
	t.Setenv("PRQUIZ_GITHUB_TOKEN", "ghp_test")
	t.Setenv("PRQUIZ_QUESTION_COUNT", "8")
	t.Setenv("PRQUIZ_DIFFICULTY", "hard")
	t.Setenv("PRQUIZ_CACHE_ENABLED", "true")

	cfg, err := LoadFromEnv(configDir)
	require.NoError(t, err)

	assert.Equal(t, "ollama", cfg.DefaultProvider)
	assert.Equal(t, "ghp_test", cfg.GitHub.Token)
	assert.Equal(t, 8, cfg.Quiz.QuestionCount)
	assert.Equal(t, "hard", cfg.Quiz.Difficulty)
	assert.True(t, cfg.Store.CacheEnabled)
	assert.Equal(t, filepath.Join(configDir, "prquiz.db"), cfg.Store.Path)

	// Defaults survive for everything not set.
	assert.Equal(t, "https://api.github.com", cfg.GitHub.APIURL)
	assert.Equal(t, "gpt-4o", cfg.OpenAI.Model)

	// The Ollama endpoint stays empty until set, so a credential-less
	// environment is detectable.
	assert.Empty(t, cfg.Ollama.Endpoint)
	assert.False(t, cfg.HasAnyProviderCredentials())
}

func TestValidate(t *testing.T) {
	valid := func(t *testing.T) *Config {
		t.Helper()
		return &Config{
			DefaultProvider: "openai",
			Quiz:            QuizConfig{QuestionCount: 5, Difficulty: "medium"},
			Store:           StoreConfig{Path: filepath.Join(t.TempDir(), "quiz.db"), BusyTimeout: 5000},
			Logging:         LoggingConfig{Level: "info", Format: "text"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:    "empty provider",
			mutate:  func(c *Config) { c.DefaultProvider = "" },
			wantErr: "default provider cannot be empty",
		},
		{
			name:    "unknown provider",
			mutate:  func(c *Config) { c.DefaultProvider = "claude" },
			wantErr: "unknown provider",
		},
		{
			name:    "non-positive question count",
			mutate:  func(c *Config) { c.Quiz.QuestionCount = 0 },
			wantErr: "question count must be positive",
		},
		{
			name:    "invalid difficulty",
			mutate:  func(c *Config) { c.Quiz.Difficulty = "brutal" },
			wantErr: "invalid difficulty",
		},
		{
			name:    "empty store path",
			mutate:  func(c *Config) { c.Store.Path = "" },
			wantErr: "store path cannot be empty",
		},
		{
			name: "cache enabled without ttl",
			mutate: func(c *Config) {
				c.Store.CacheEnabled = true
				c.Store.CacheTTL = 0
			},
			wantErr: "cache ttl must be positive",
		},
		{
			name:    "invalid log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: "invalid log level",
		},
		{
			name:    "invalid log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "invalid log format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid(t)
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestHasAnyProviderCredentials(t *testing.T) {
	cfg := &Config{}
	assert.False(t, cfg.HasAnyProviderCredentials())

	cfg.OpenAI.APIKey = "sk-test"
	assert.True(t, cfg.HasAnyProviderCredentials())

	cfg = &Config{}
	cfg.Ollama.Endpoint = "http://localhost:11434"
	assert.True(t, cfg.HasAnyProviderCredentials())
}

type mapSettings struct {
	values map[string]string
}

func (m *mapSettings) Get(_ context.Context, key string) (string, error) {
	v, ok := m.values[key]
	if !ok {
		return "", errors.New("not found")
	}
	return v, nil
}

func (m *mapSettings) Set(_ context.Context, key, value string) error {
	m.values[key] = value
	return nil
}

func TestApplySettings(t *testing.T) {
	cfg := &Config{
		DefaultProvider: "openai",
		Quiz:            QuizConfig{QuestionCount: 5, Difficulty: "medium"},
	}

	cfg.ApplySettings(context.Background(), &mapSettings{values: map[string]string{
		SettingDefaultProvider: "gemini",
		SettingQuestionCount:   "10",
		SettingDifficulty:      "hard",
	}})

	assert.Equal(t, "gemini", cfg.DefaultProvider)
	assert.Equal(t, 10, cfg.Quiz.QuestionCount)
	assert.Equal(t, "hard", cfg.Quiz.Difficulty)
}

func TestApplySettingsIgnoresMalformedValues(t *testing.T) {
	cfg := &Config{
		DefaultProvider: "openai",
		Quiz:            QuizConfig{QuestionCount: 5, Difficulty: "medium"},
	}

	cfg.ApplySettings(context.Background(), &mapSettings{values: map[string]string{
		SettingQuestionCount: "lots",
		SettingDifficulty:    "brutal",
	}})

	assert.Equal(t, 5, cfg.Quiz.QuestionCount)
	assert.Equal(t, "medium", cfg.Quiz.Difficulty)
}

func TestApplySettingsNilProvider(t *testing.T) {
	cfg := &Config{DefaultProvider: "openai"}
	cfg.ApplySettings(context.Background(), nil)
	assert.Equal(t, "openai", cfg.DefaultProvider)
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLogLevel("debug"))
	assert.Equal(t, slog.LevelInfo, ParseLogLevel("info"))
	assert.Equal(t, slog.LevelWarn, ParseLogLevel("WARN"))
	assert.Equal(t, slog.LevelError, ParseLogLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLogLevel("unknown"))
}
