package quizui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Init initializes the TUI model.
// It starts the spinner and kicks off quiz preparation.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		prepareQuiz(m),
	)
}
