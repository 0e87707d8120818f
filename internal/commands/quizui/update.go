package quizui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tildaslashalef/prquiz/internal/loggy"
)

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

		verticalPadding := 8
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - verticalPadding
		m.ready = true
		loggy.Debug("Window resized", "width", m.width, "height", m.height)
		if m.status == StatusViewingResults {
			m.viewport.SetContent(m.renderResultsContent())
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, Keys.Quit):
			loggy.Info("Quit key pressed, shutting down TUI")
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit

		case key.Matches(msg, Keys.Help):
			m.showHelp = !m.showHelp
			return m, nil

		case key.Matches(msg, Keys.CursorUp) && m.status == StatusAnswering:
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case key.Matches(msg, Keys.CursorDown) && m.status == StatusAnswering:
			if q := m.currentQuestion(); q != nil && m.cursor < len(questionOptions(q))-1 {
				m.cursor++
			}
			return m, nil

		case key.Matches(msg, Keys.Toggle) && m.status == StatusAnswering:
			m.toggleSelection()
			return m, nil

		case key.Matches(msg, Keys.NextQuestion) && m.status == StatusAnswering:
			if m.quiz != nil && len(m.quiz.Questions) > 0 {
				m.current = (m.current + 1) % len(m.quiz.Questions)
				m.cursor = 0
			}
			return m, nil

		case key.Matches(msg, Keys.PrevQuestion) && m.status == StatusAnswering:
			if m.quiz != nil && len(m.quiz.Questions) > 0 {
				m.current = (m.current - 1 + len(m.quiz.Questions)) % len(m.quiz.Questions)
				m.cursor = 0
			}
			return m, nil

		case key.Matches(msg, Keys.Submit) && m.status == StatusAnswering:
			loggy.Info("Submit key pressed", "answered", m.answeredCount(), "total", len(m.quiz.Questions))
			m.statusMessage = "Grading answers..."
			return m, gradeQuiz(m)

		default:
			if m.status == StatusViewingResults {
				m.viewport, cmd = m.viewport.Update(msg)
				cmds = append(cmds, cmd)
			}
		}

	case quizReadyMsg:
		if msg.error != nil {
			m.status = StatusError
			m.errorMsg = msg.error.Error()
			loggy.Error("Quiz preparation failed", "error", msg.error)
			return m, nil
		}
		m.quiz = msg.quiz
		m.current = 0
		m.cursor = 0
		m.selections = make(map[string]map[string]bool)
		m.status = StatusAnswering
		m.statusMessage = fmt.Sprintf("Quiz '%s' ready with %d questions", m.quiz.Name, len(m.quiz.Questions))
		loggy.Info("Quiz ready", "id", m.quiz.ID, "questions", len(m.quiz.Questions))
		if len(m.quiz.Questions) == 0 {
			// Nothing to answer, grade straight away for the summary view.
			return m, gradeQuiz(m)
		}
		return m, nil

	case gradedMsg:
		m.result = msg.result
		m.status = StatusViewingResults
		m.statusMessage = fmt.Sprintf("Scored %d/%d (%d%%)", msg.result.Score, msg.result.MaxScore, msg.result.Percent)
		loggy.Info("Quiz graded", "score", msg.result.Score, "max_score", msg.result.MaxScore, "percent", msg.result.Percent)
		m.viewport.SetContent(m.renderResultsContent())
		m.viewport.GotoTop()
		return m, nil

	case spinner.TickMsg:
		if m.status == StatusInitializing || m.status == StatusGenerating {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	return m, tea.Batch(cmds...)
}
