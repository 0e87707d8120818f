// Package llm provides a uniform interface over the supported question
// generation backends and a factory that selects one from configuration.
package llm

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/tildaslashalef/prquiz/internal/config"
	"github.com/tildaslashalef/prquiz/internal/extractor"
	"github.com/tildaslashalef/prquiz/internal/loggy"
	"github.com/tildaslashalef/prquiz/internal/quiz"
)

// Provider is the capability set every question generation backend offers.
type Provider interface {
	// GenerateQuestions produces quiz questions for a generation context
	GenerateQuestions(ctx context.Context, genCtx *quiz.GenerationContext) ([]quiz.Question, error)

	// ValidateConnection verifies the backend is reachable and usable
	ValidateConnection(ctx context.Context) error

	// Name returns the provider's display name
	Name() string
}

// ProviderError represents a failure at the LLM boundary. It carries the
// originating provider's name and wraps the underlying error, so parse
// failures keep the raw response body reachable via errors.As.
type ProviderError struct {
	Provider string
	Message  string
	Details  string
	Err      error
}

// Error implements the error interface
func (e *ProviderError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s provider error: %s (%s)", e.Provider, e.Message, e.Details)
	}
	return fmt.Sprintf("%s provider error: %s", e.Provider, e.Message)
}

// Unwrap returns the underlying error, if any.
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// ModelNotInstalledError indicates the configured local model is missing
// from the runtime's installed model list.
type ModelNotInstalledError struct {
	Model     string
	Installed []string
}

// Error implements the error interface
func (e *ModelNotInstalledError) Error() string {
	if len(e.Installed) == 0 {
		return fmt.Sprintf("model %q is not installed and no models are available; pull it first", e.Model)
	}
	return fmt.Sprintf("model %q is not installed; installed models: %v", e.Model, e.Installed)
}

// Provider names
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderOllama = "ollama"
)

// Factory creates providers from configuration
type Factory struct {
	config *config.Config
	logger *loggy.Logger
}

// newLimiter creates a rate limiter from RPM and burst values
func newLimiter(rpm, burst int) *rate.Limiter {
	if rpm <= 0 {
		return rate.NewLimiter(rate.Inf, burst)
	}
	r := rate.Limit(float64(rpm) / 60.0)
	b := burst
	if b <= 0 {
		b = 1
	}
	return rate.NewLimiter(r, b)
}

// NewFactory creates a new provider factory
func NewFactory(cfg *config.Config, logger *loggy.Logger) *Factory {
	return &Factory{
		config: cfg,
		logger: logger,
	}
}

// CreateProvider returns the provider for the given name. There is no
// fallback between providers; an unknown or unconfigured name is an error.
func (f *Factory) CreateProvider(name string) (Provider, error) {
	switch name {
	case ProviderOpenAI:
		if f.config.OpenAI.APIKey == "" {
			return nil, fmt.Errorf("openai provider selected but no API key configured")
		}
		return NewOpenAIProvider(&f.config.OpenAI, f.logger), nil
	case ProviderGemini:
		if f.config.Gemini.APIKey == "" {
			return nil, fmt.Errorf("gemini provider selected but no API key configured")
		}
		return NewGeminiProvider(&f.config.Gemini, f.logger), nil
	case ProviderOllama:
		return NewOllamaProvider(&f.config.Ollama, f.logger), nil
	default:
		return nil, fmt.Errorf("unknown provider: %q (supported: %s, %s, %s)",
			name, ProviderOpenAI, ProviderGemini, ProviderOllama)
	}
}

// DefaultProvider returns the provider named by the configuration.
func (f *Factory) DefaultProvider() (Provider, error) {
	return f.CreateProvider(f.config.DefaultProvider)
}

// finalizeQuestions trims a parsed question list to the requested count.
// Fewer questions than requested is accepted silently.
func finalizeQuestions(questions []quiz.Question, count int) []quiz.Question {
	if count > 0 && len(questions) > count {
		questions = questions[:count]
	}
	return questions
}

// parseQuestions runs the shared response parsing on raw model output and
// wraps parse failures as provider errors.
func parseQuestions(ext *extractor.QuestionExtractor, provider, content string, count int) ([]quiz.Question, error) {
	questions, err := ext.ExtractQuestions(content)
	if err != nil {
		return nil, &ProviderError{
			Provider: provider,
			Message:  "response could not be parsed",
			Details:  err.Error(),
			Err:      err,
		}
	}
	return finalizeQuestions(questions, count), nil
}
