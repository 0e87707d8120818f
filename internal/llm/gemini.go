package llm

import (
	"context"
	"strings"

	"golang.org/x/time/rate"

	"github.com/tildaslashalef/prquiz/internal/config"
	"github.com/tildaslashalef/prquiz/internal/extractor"
	"github.com/tildaslashalef/prquiz/internal/gemini"
	"github.com/tildaslashalef/prquiz/internal/loggy"
	"github.com/tildaslashalef/prquiz/internal/quiz"
)

// GeminiProvider generates questions through the Gemini generateContent
// API. Responses often arrive wrapped in a fenced code block, which the
// shared extractor handles.
type GeminiProvider struct {
	client    *gemini.Client
	config    *config.GeminiConfig
	extractor *extractor.QuestionExtractor
	limiter   *rate.Limiter
	logger    *loggy.Logger
}

// NewGeminiProvider creates a new Gemini-backed provider
func NewGeminiProvider(cfg *config.GeminiConfig, logger *loggy.Logger) *GeminiProvider {
	temperature := cfg.Temperature
	return &GeminiProvider{
		client: gemini.NewClient(gemini.Config{
			APIKey:       cfg.APIKey,
			BaseURL:      cfg.BaseURL,
			APIVersion:   cfg.APIVersion,
			DefaultModel: cfg.Model,
			MaxTokens:    cfg.MaxTokens,
			Temperature:  &temperature,
			Timeout:      cfg.Timeout,
		}),
		config:    cfg,
		extractor: extractor.NewQuestionExtractor(logger),
		limiter:   newLimiter(cfg.RequestsPerMinute, cfg.BurstLimit),
		logger:    logger,
	}
}

// Name returns the provider's display name
func (p *GeminiProvider) Name() string {
	return ProviderGemini
}

// GenerateQuestions produces quiz questions via a content generation call
func (p *GeminiProvider) GenerateQuestions(ctx context.Context, genCtx *quiz.GenerationContext) ([]quiz.Question, error) {
	prompt, err := quiz.BuildPrompt(genCtx)
	if err != nil {
		return nil, &ProviderError{Provider: p.Name(), Message: "failed to build prompt", Details: err.Error(), Err: err}
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return nil, &ProviderError{Provider: p.Name(), Message: "rate limiter wait aborted", Details: err.Error(), Err: err}
	}

	p.logger.Debug("requesting content generation",
		"provider", p.Name(),
		"model", p.config.Model,
		"prompt_length", len(prompt),
	)

	resp, err := p.client.GenerateContent(ctx, gemini.GenerateRequest{
		Model: p.config.Model,
		Contents: []gemini.Content{
			{Role: "user", Parts: []gemini.Part{{Text: prompt}}},
		},
		SafetySettings: []gemini.SafetySetting{
			{Category: "HARM_CATEGORY_DANGEROUS_CONTENT", Threshold: "BLOCK_ONLY_HIGH"},
		},
	})
	if err != nil {
		return nil, &ProviderError{Provider: p.Name(), Message: "content generation request failed", Details: err.Error(), Err: err}
	}

	content := resp.Text()
	if content == "" {
		details := ""
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			details = "prompt blocked: " + resp.PromptFeedback.BlockReason
		}
		return nil, &ProviderError{Provider: p.Name(), Message: "empty generation response", Details: details}
	}

	return parseQuestions(p.extractor, p.Name(), content, genCtx.QuestionCount)
}

// ValidateConnection verifies the API key by listing available models
func (p *GeminiProvider) ValidateConnection(ctx context.Context) error {
	if p.config.APIKey == "" {
		return &ProviderError{Provider: p.Name(), Message: "no API key configured"}
	}

	models, err := p.client.ListModels(ctx)
	if err != nil {
		return &ProviderError{Provider: p.Name(), Message: "connection check failed", Details: err.Error(), Err: err}
	}

	// Model names come back fully qualified, e.g. "models/gemini-2.0-flash"
	for _, m := range models {
		if strings.TrimPrefix(m.Name, "models/") == p.config.Model {
			return nil
		}
	}

	p.logger.Warn("configured model not present in model listing",
		"provider", p.Name(),
		"model", p.config.Model,
	)
	return nil
}

var _ Provider = (*GeminiProvider)(nil)
