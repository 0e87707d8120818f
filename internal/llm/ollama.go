package llm

import (
	"context"
	"strings"

	"golang.org/x/time/rate"

	"github.com/tildaslashalef/prquiz/internal/config"
	"github.com/tildaslashalef/prquiz/internal/extractor"
	"github.com/tildaslashalef/prquiz/internal/loggy"
	"github.com/tildaslashalef/prquiz/internal/ollama"
	"github.com/tildaslashalef/prquiz/internal/quiz"
)

// OllamaProvider generates questions through a local Ollama runtime with a
// JSON-formatted non-streaming completion.
type OllamaProvider struct {
	client    *ollama.Client
	config    *config.OllamaConfig
	extractor *extractor.QuestionExtractor
	limiter   *rate.Limiter
	logger    *loggy.Logger
}

// NewOllamaProvider creates a new Ollama-backed provider
func NewOllamaProvider(cfg *config.OllamaConfig, logger *loggy.Logger) *OllamaProvider {
	return &OllamaProvider{
		client:    ollama.NewClient(*cfg),
		config:    cfg,
		extractor: extractor.NewQuestionExtractor(logger),
		limiter:   newLimiter(cfg.RequestsPerMinute, cfg.BurstLimit),
		logger:    logger,
	}
}

// Name returns the provider's display name
func (p *OllamaProvider) Name() string {
	return ProviderOllama
}

// GenerateQuestions produces quiz questions via a local completion request
func (p *OllamaProvider) GenerateQuestions(ctx context.Context, genCtx *quiz.GenerationContext) ([]quiz.Question, error) {
	prompt, err := quiz.BuildPrompt(genCtx)
	if err != nil {
		return nil, &ProviderError{Provider: p.Name(), Message: "failed to build prompt", Details: err.Error(), Err: err}
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return nil, &ProviderError{Provider: p.Name(), Message: "rate limiter wait aborted", Details: err.Error(), Err: err}
	}

	p.logger.Debug("requesting completion",
		"provider", p.Name(),
		"model", p.config.Model,
		"endpoint", p.config.Endpoint,
		"prompt_length", len(prompt),
	)

	req := ollama.GenerateRequest{
		Model:  p.config.Model,
		Prompt: prompt,
		Format: &ollama.ResponseFormat{Type: "json"},
	}
	if p.config.Temperature > 0 || p.config.MaxTokens > 0 {
		req.Options = &ollama.RequestOptions{}
		if p.config.Temperature > 0 {
			req.Options.Temperature = ollama.Float64Ptr(p.config.Temperature)
		}
		if p.config.MaxTokens > 0 {
			req.Options.NumPredict = ollama.IntPtr(p.config.MaxTokens)
		}
	}

	resp, err := p.client.GenerateCompletion(ctx, req)
	if err != nil {
		return nil, &ProviderError{Provider: p.Name(), Message: "completion request failed", Details: err.Error(), Err: err}
	}

	if resp.Response == "" {
		return nil, &ProviderError{Provider: p.Name(), Message: "empty completion response"}
	}

	return parseQuestions(p.extractor, p.Name(), resp.Response, genCtx.QuestionCount)
}

// ValidateConnection verifies the endpoint is reachable and that the
// configured model is installed, naming the installed alternatives if not.
func (p *OllamaProvider) ValidateConnection(ctx context.Context) error {
	models, err := p.client.ListModels(ctx)
	if err != nil {
		return &ProviderError{Provider: p.Name(), Message: "endpoint unreachable", Details: err.Error(), Err: err}
	}

	installed := make([]string, 0, len(models))
	for _, m := range models {
		installed = append(installed, m.Name)
		if modelMatches(p.config.Model, m.Name) {
			if version, err := p.client.GetVersion(ctx); err == nil {
				p.logger.Debug("Connected to Ollama", "version", version)
			}
			return nil
		}
	}

	return &ModelNotInstalledError{Model: p.config.Model, Installed: installed}
}

// modelMatches compares a configured model name against an installed one.
// Installed names carry a tag suffix ("llama3.1:latest") that a configured
// bare name should still match.
func modelMatches(configured, installed string) bool {
	if configured == installed {
		return true
	}
	if base, _, found := strings.Cut(installed, ":"); found && base == configured {
		return true
	}
	return false
}

var _ Provider = (*OllamaProvider)(nil)
