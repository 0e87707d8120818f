// Package app provides the application initialization and lifecycle management
package app

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/tildaslashalef/prquiz/internal/config"
	"github.com/tildaslashalef/prquiz/internal/generator"
	"github.com/tildaslashalef/prquiz/internal/git"
	"github.com/tildaslashalef/prquiz/internal/github"
	"github.com/tildaslashalef/prquiz/internal/llm"
	"github.com/tildaslashalef/prquiz/internal/loggy"
	"github.com/tildaslashalef/prquiz/internal/store"
)

// App represents the application instance with its dependencies
type App struct {
	Config    *config.Config
	GitHub    *github.Service
	Git       *git.Service
	LLM       *llm.Factory
	Repo      store.Repository
	Generator *generator.Service
}

// New initializes a new application instance with all its dependencies
func New() (*App, error) {
	cfg, err := config.LoadFromEnv("")
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := initLogger(cfg); err != nil {
		return nil, err
	}

	loggy.Info("Application initializing",
		"version", os.Getenv("VERSION"),
		"log_level", cfg.Logging.Level,
	)

	if err := store.Init(cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}

	app, err := initServices(cfg)
	if err != nil {
		return nil, err
	}

	loggy.Info("Application initialized successfully")
	return app, nil
}

// initLogger initializes the logging system
func initLogger(cfg *config.Config) error {
	err := loggy.Init(loggy.Config{
		Level:      config.ParseLogLevel(cfg.Logging.Level),
		Format:     cfg.Logging.Format,
		Output:     cfg.Logging.Output,
		AddSource:  cfg.Logging.AddSource,
		TimeFormat: cfg.Logging.TimeFormat,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// initServices initializes all application services
func initServices(cfg *config.Config) (*App, error) {
	logger := loggy.GetGlobalLogger()
	ctx := context.Background()

	db, err := store.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get store connection: %w", err)
	}

	repo := store.NewSQLRepository(db, logger)

	// Persisted settings override environment defaults when present.
	cfg.ApplySettings(ctx, store.NewSettings(repo))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	gitService := git.NewService(logger)
	githubService := github.NewService(cfg, logger)
	llmFactory := llm.NewFactory(cfg, logger)

	generatorService := generator.NewService(cfg, logger, githubService, llmFactory, repo)

	return &App{
		Config:    cfg,
		GitHub:    githubService,
		Git:       gitService,
		LLM:       llmFactory,
		Repo:      repo,
		Generator: generatorService,
	}, nil
}

// Shutdown gracefully shuts down the application
func (app *App) Shutdown() error {
	loggy.Info("Shutting down application")

	if err := store.Close(); err != nil {
		loggy.Error("Error closing store connection", "error", err)
	}

	return nil
}

// FromContext retrieves the App instance from the CLI context
func FromContext(c *cli.Context) (*App, error) {
	if c.App.Metadata == nil {
		return nil, fmt.Errorf("app metadata not found in context")
	}

	app, ok := c.App.Metadata["app"].(*App)
	if !ok {
		return nil, fmt.Errorf("app instance not found in context")
	}

	return app, nil
}
