package quizui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tildaslashalef/prquiz/internal/quiz"
)

// prepareQuiz returns a command that produces the quiz for the session,
// either by reusing a pre-generated one or by running the generator.
func prepareQuiz(m Model) tea.Cmd {
	return func() tea.Msg {
		if m.options.Quiz != nil {
			return quizReadyMsg{quiz: m.options.Quiz}
		}

		q, err := m.app.Generator.Generate(m.ctx, m.options.Generate)
		if err != nil {
			return quizReadyMsg{error: err}
		}
		return quizReadyMsg{quiz: q}
	}
}

// gradeQuiz returns a command that grades the collected answers.
func gradeQuiz(m Model) tea.Cmd {
	answers := m.collectAnswers()
	q := m.quiz
	return func() tea.Msg {
		return gradedMsg{result: quiz.Grade(q, answers)}
	}
}
