// Package generator orchestrates the quiz generation pipeline: fetch the
// pull request, analyze it, build the prompt, call the selected provider
// and assemble the resulting quiz.
package generator

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/tildaslashalef/prquiz/internal/analyzer"
	"github.com/tildaslashalef/prquiz/internal/config"
	"github.com/tildaslashalef/prquiz/internal/github"
	"github.com/tildaslashalef/prquiz/internal/llm"
	"github.com/tildaslashalef/prquiz/internal/loggy"
	"github.com/tildaslashalef/prquiz/internal/quiz"
	"github.com/tildaslashalef/prquiz/internal/store"
	"github.com/tildaslashalef/prquiz/internal/ulid"
	"github.com/tildaslashalef/prquiz/internal/utils"
)

// ErrGenerationInFlight is returned when a generation request arrives while
// another is still running. Requests are rejected, never queued.
var ErrGenerationInFlight = errors.New("a quiz generation is already in progress")

// PullRequestSource fetches pull request records
type PullRequestSource interface {
	FetchPullRequest(ctx context.Context, owner, repo string, number int) (*github.PullRequestRecord, error)
}

// ProviderFactory creates LLM providers by name
type ProviderFactory interface {
	CreateProvider(name string) (llm.Provider, error)
}

// Options control a single generation request.
type Options struct {
	Owner         string
	Repo          string
	Number        int
	Provider      string // empty uses the configured default
	QuestionCount int
	Difficulty    string
}

// Service runs the generation pipeline
type Service struct {
	config   *config.Config
	logger   *loggy.Logger
	source   PullRequestSource
	analyzer *analyzer.Service
	factory  ProviderFactory
	repo     store.Repository // nil disables persistence and caching

	inFlight atomic.Bool
}

// NewService creates a new generator service
func NewService(cfg *config.Config, logger *loggy.Logger, source PullRequestSource, factory ProviderFactory, repo store.Repository) *Service {
	return &Service{
		config:   cfg,
		logger:   logger,
		source:   source,
		analyzer: analyzer.NewService(logger),
		factory:  factory,
		repo:     repo,
	}
}

// Generate runs the full pipeline for one pull request. At most one
// generation runs at a time; concurrent calls fail with
// ErrGenerationInFlight.
func (s *Service) Generate(ctx context.Context, opts Options) (*quiz.Quiz, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return nil, ErrGenerationInFlight
	}
	defer s.inFlight.Store(false)

	if opts.Owner == "" || opts.Repo == "" || opts.Number <= 0 {
		return nil, fmt.Errorf("pull request reference is incomplete: need owner, repo and a positive number")
	}
	if !s.config.HasAnyProviderCredentials() {
		return nil, fmt.Errorf("no provider credentials configured; set an API key or an Ollama endpoint")
	}

	providerName := opts.Provider
	if providerName == "" {
		providerName = s.config.DefaultProvider
	}
	provider, err := s.factory.CreateProvider(providerName)
	if err != nil {
		return nil, err
	}

	questionCount := opts.QuestionCount
	if questionCount <= 0 {
		questionCount = s.config.Quiz.QuestionCount
	}
	difficulty := opts.Difficulty
	if difficulty == "" {
		difficulty = s.config.Quiz.Difficulty
	}

	started := time.Now()

	record, err := s.fetchRecord(ctx, opts)
	if err != nil {
		return nil, err
	}

	analysis := s.analyzer.Analyze(record)

	genCtx := &quiz.GenerationContext{
		PullRequest:   record,
		Analysis:      analysis,
		QuestionCount: questionCount,
		Difficulty:    difficulty,
	}

	questions, err := provider.GenerateQuestions(ctx, genCtx)
	if err != nil {
		return nil, err
	}

	result := &quiz.Quiz{
		ID:             ulid.QuizID(),
		Name:           utils.GenerateQuizName(),
		PullRequestURL: fmt.Sprintf("https://github.com/%s/%s/pull/%d", opts.Owner, opts.Repo, opts.Number),
		Questions:      questions,
		Metadata: quiz.Metadata{
			GeneratedBy:      "prquiz",
			AIProvider:       provider.Name(),
			ProcessingTimeMs: time.Since(started).Milliseconds(),
			Complexity:       analysis.Complexity,
			FocusAreas:       analysis.FocusAreas,
		},
		CreatedAt: time.Now(),
	}

	if s.repo != nil {
		if err := s.repo.SaveQuiz(ctx, result); err != nil {
			// Persistence is best-effort; the quiz is still usable
			s.logger.Warn("failed to persist quiz", "id", result.ID, "error", err)
		}
	}

	s.logger.Info("generated quiz",
		"id", result.ID,
		"name", result.Name,
		"provider", provider.Name(),
		"questions", len(result.Questions),
		"complexity", analysis.Complexity,
		"elapsed_ms", result.Metadata.ProcessingTimeMs,
	)

	return result, nil
}

// fetchRecord retrieves the pull request, consulting the cache when it is
// enabled.
func (s *Service) fetchRecord(ctx context.Context, opts Options) (*github.PullRequestRecord, error) {
	useCache := s.repo != nil && s.config.Store.CacheEnabled

	if useCache {
		cached, err := s.repo.GetCachedPullRequest(ctx, opts.Owner, opts.Repo, opts.Number, s.config.Store.CacheTTL)
		if err != nil {
			s.logger.Warn("cache lookup failed", "error", err)
		} else if cached != nil {
			s.logger.Debug("using cached pull request",
				"owner", opts.Owner, "repo", opts.Repo, "number", opts.Number)
			return cached, nil
		}
	}

	record, err := s.source.FetchPullRequest(ctx, opts.Owner, opts.Repo, opts.Number)
	if err != nil {
		return nil, err
	}

	if useCache {
		if err := s.repo.PutCachedPullRequest(ctx, record); err != nil {
			s.logger.Warn("failed to cache pull request", "error", err)
		}
	}

	return record, nil
}
