package quizui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tildaslashalef/prquiz/internal/app"
)

// Service is the main service for the TUI
type Service struct {
	app *app.App
}

// NewService creates a new TUI service
func NewService(application *app.App) *Service {
	return &Service{
		app: application,
	}
}

// Run starts the TUI with the given options
func (s *Service) Run(ctx context.Context, options QuizOptions) error {
	model := NewModel(s.app)
	model.SetOptions(options)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
