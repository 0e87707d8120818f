package quizui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/tildaslashalef/prquiz/internal/quiz"
)

// View renders the UI based on the model's current state.
func (m Model) View() string {
	if !m.ready {
		return "Initializing...\n"
	}

	var mainContent string
	var footer string

	switch m.status {
	case StatusInitializing, StatusGenerating:
		mainContent = m.renderGeneratingView()
	case StatusAnswering:
		mainContent = m.renderAnsweringView()
	case StatusViewingResults:
		mainContent = m.renderResultsView()
	case StatusError:
		mainContent = m.renderErrorView()
	default:
		mainContent = "Unknown status"
	}

	if m.showHelp {
		footer = m.help.View(Keys)
	} else {
		footer = m.help.ShortHelpView(Keys.ShortHelp())
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		mainContent,
		footer,
	)
}

// renderGeneratingView displays the spinner while the quiz is built.
func (m Model) renderGeneratingView() string {
	statusLine := m.styles.StatusText.Render(m.statusMessage)
	spinner := m.spinner.View()

	content := lipgloss.JoinVertical(lipgloss.Center,
		renderBanner(m.styles),
		"\n",
		spinner+" "+statusLine,
	)

	return lipgloss.Place(m.width, m.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
}

// renderAnsweringView displays the current question with its options.
func (m Model) renderAnsweringView() string {
	q := m.currentQuestion()
	if q == nil {
		return m.styles.Paragraph.Render("No questions to answer.")
	}

	var b strings.Builder

	header := fmt.Sprintf("Question %d/%d", m.current+1, len(m.quiz.Questions))
	b.WriteString(m.styles.Header.Render(header))
	b.WriteString("  ")
	b.WriteString(m.styles.Subtle.Render(fmt.Sprintf("[%s · %s]", q.Type, q.Difficulty)))
	b.WriteString("\n")
	b.WriteString(m.renderProgressBar())
	b.WriteString("\n\n")

	wrapWidth := m.width - 4
	if wrapWidth < 20 {
		wrapWidth = 20
	}
	b.WriteString(m.styles.Title.Render(wordwrap.String(q.Content, wrapWidth)))
	b.WriteString("\n")

	if q.Code != nil && q.Code.Content != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.CodeBlock.Render(q.Code.Content))
		b.WriteString("\n")
	}

	opts := questionOptions(q)
	if len(opts) == 0 {
		b.WriteString("\n")
		b.WriteString(m.styles.Subtle.Render("This question has no selectable options. Press 'n' to continue."))
	} else {
		selected := m.selections[q.ID]
		b.WriteString("\n")
		for i, opt := range opts {
			cursor := "  "
			if i == m.cursor {
				cursor = m.styles.OptionCursor.Render("> ")
			}
			marker := "[ ]"
			style := m.styles.Option
			if selected[opt.ID] {
				marker = "[x]"
				style = m.styles.OptionSelected
			}
			line := fmt.Sprintf("%s %s %s", marker, opt.ID+")", wordwrap.String(opt.Text, wrapWidth-10))
			b.WriteString(cursor + style.Render(line))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	answered := fmt.Sprintf("%d/%d answered", m.answeredCount(), len(m.quiz.Questions))
	b.WriteString(m.styles.Subtle.Render(answered + " · press 's' to submit"))

	return b.String()
}

// renderProgressBar renders position within the quiz as a simple bar.
func (m Model) renderProgressBar() string {
	total := len(m.quiz.Questions)
	if total == 0 {
		return ""
	}
	barWidth := m.width - 10
	if barWidth < 10 {
		barWidth = 10
	}
	filled := barWidth * (m.current + 1) / total
	return m.styles.ProgressBarFull.Render(strings.Repeat("█", filled)) +
		m.styles.ProgressBarEmpty.Render(strings.Repeat("░", barWidth-filled))
}

// renderResultsView displays the graded quiz inside the viewport.
func (m Model) renderResultsView() string {
	scoreStyle := m.styles.Error
	switch {
	case m.result.Percent >= 80:
		scoreStyle = m.styles.Success
	case m.result.Percent >= 50:
		scoreStyle = m.styles.Warning
	}

	header := lipgloss.JoinHorizontal(lipgloss.Center,
		m.styles.Header.Render(fmt.Sprintf("Quiz: %s", m.quiz.Name)),
		"  ",
		scoreStyle.Render(fmt.Sprintf("Score: %d/%d (%d%%)", m.result.Score, m.result.MaxScore, m.result.Percent)),
	)

	footer := m.styles.Subtle.Render("↑/↓ scroll · q quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		m.viewport.View(),
		footer,
	)
}

// renderResultsContent builds the per-question breakdown for the viewport.
func (m Model) renderResultsContent() string {
	if m.quiz == nil {
		return ""
	}

	var b strings.Builder
	answers := m.collectAnswers()

	for i := range m.quiz.Questions {
		q := &m.quiz.Questions[i]
		given := quiz.Answer{Values: answers[q.ID], Multi: q.CorrectAnswer.Multi}

		b.WriteString(m.styles.Title.Render(fmt.Sprintf("%d. %s", i+1, q.Content)))
		b.WriteString("\n")

		verdict := m.styles.Incorrect.Render("✗ incorrect")
		if answersMatch(q.CorrectAnswer, given) {
			verdict = m.styles.Correct.Render("✓ correct")
		} else if given.IsEmpty() {
			verdict = m.styles.Subtle.Render("– not answered")
		}
		b.WriteString(fmt.Sprintf("%s  your answer: %s  correct: %s\n",
			verdict,
			formatAnswer(given),
			formatAnswer(q.CorrectAnswer),
		))

		if q.Explanation != "" {
			explanation := q.Explanation
			if m.renderer != nil {
				if rendered, err := m.renderer.Render(explanation); err == nil {
					explanation = rendered
				}
			}
			b.WriteString(m.styles.Paragraph.Render(strings.TrimSpace(explanation)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	return b.String()
}

// renderErrorView displays an error message.
func (m Model) renderErrorView() string {
	errorTitle := m.styles.Error.Render("Error")
	errorBody := m.styles.Paragraph.Render(wordwrap.String(m.errorMsg, max(20, m.width-8)))
	quitMsg := m.styles.Subtle.Render("Press 'q' to quit.")

	content := lipgloss.JoinVertical(lipgloss.Center,
		errorTitle,
		"\n",
		errorBody,
		"\n",
		quitMsg,
	)

	return lipgloss.Place(m.width, m.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
}

// renderBanner renders the application title.
func renderBanner(styles Styles) string {
	banner := `
██████╗ ██████╗  ██████╗ ██╗   ██╗██╗███████╗
██╔══██╗██╔══██╗██╔═══██╗██║   ██║██║╚══███╔╝
██████╔╝██████╔╝██║   ██║██║   ██║██║  ███╔╝
██╔═══╝ ██╔══██╗██║▄▄ ██║██║   ██║██║ ███╔╝
██║     ██║  ██║╚██████╔╝╚██████╔╝██║███████╗
╚═╝     ╚═╝  ╚═╝ ╚══▀▀═╝  ╚═════╝ ╚═╝╚══════╝
`

	return styles.Banner.Render(banner)
}

// answersMatch reports whether the given answer earns full credit.
func answersMatch(correct, given quiz.Answer) bool {
	if len(given.Values) != len(correct.Values) {
		return false
	}
	want := make(map[string]bool, len(correct.Values))
	for _, v := range correct.Values {
		want[v] = true
	}
	for _, v := range given.Values {
		if !want[v] {
			return false
		}
	}
	return true
}

// formatAnswer renders an answer's values for display.
func formatAnswer(a quiz.Answer) string {
	if a.IsEmpty() {
		return "(none)"
	}
	return strings.Join(a.Values, ", ")
}
