package llm

import (
	"context"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/tildaslashalef/prquiz/internal/config"
	"github.com/tildaslashalef/prquiz/internal/extractor"
	"github.com/tildaslashalef/prquiz/internal/loggy"
	"github.com/tildaslashalef/prquiz/internal/quiz"
)

const openAISystemPrompt = "You are an expert code reviewer who creates quizzes about pull requests. Respond with a single JSON object."

// OpenAIProvider generates questions through the OpenAI chat completion
// API using JSON response mode.
type OpenAIProvider struct {
	client    *openai.Client
	config    *config.OpenAIConfig
	extractor *extractor.QuestionExtractor
	limiter   *rate.Limiter
	logger    *loggy.Logger
}

// NewOpenAIProvider creates a new OpenAI-backed provider
func NewOpenAIProvider(cfg *config.OpenAIConfig, logger *loggy.Logger) *OpenAIProvider {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &OpenAIProvider{
		client:    openai.NewClientWithConfig(clientCfg),
		config:    cfg,
		extractor: extractor.NewQuestionExtractor(logger),
		limiter:   newLimiter(cfg.RequestsPerMinute, cfg.BurstLimit),
		logger:    logger,
	}
}

// Name returns the provider's display name
func (p *OpenAIProvider) Name() string {
	return ProviderOpenAI
}

// GenerateQuestions produces quiz questions via a JSON-mode chat completion
func (p *OpenAIProvider) GenerateQuestions(ctx context.Context, genCtx *quiz.GenerationContext) ([]quiz.Question, error) {
	prompt, err := quiz.BuildPrompt(genCtx)
	if err != nil {
		return nil, &ProviderError{Provider: p.Name(), Message: "failed to build prompt", Details: err.Error(), Err: err}
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return nil, &ProviderError{Provider: p.Name(), Message: "rate limiter wait aborted", Details: err.Error(), Err: err}
	}

	p.logger.Debug("requesting chat completion",
		"provider", p.Name(),
		"model", p.config.Model,
		"prompt_length", len(prompt),
	)

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.config.Model,
		MaxTokens:   p.config.MaxTokens,
		Temperature: float32(p.config.Temperature),
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: openAISystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return nil, &ProviderError{Provider: p.Name(), Message: "chat completion request failed", Details: err.Error(), Err: err}
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, &ProviderError{Provider: p.Name(), Message: "empty completion response"}
	}

	return parseQuestions(p.extractor, p.Name(), resp.Choices[0].Message.Content, genCtx.QuestionCount)
}

// ValidateConnection verifies the API key by listing available models
func (p *OpenAIProvider) ValidateConnection(ctx context.Context) error {
	if p.config.APIKey == "" {
		return &ProviderError{Provider: p.Name(), Message: "no API key configured"}
	}

	if _, err := p.client.ListModels(ctx); err != nil {
		return &ProviderError{Provider: p.Name(), Message: "connection check failed", Details: err.Error(), Err: err}
	}

	return nil
}

var _ Provider = (*OpenAIProvider)(nil)
