package quizui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"

	"github.com/tildaslashalef/prquiz/internal/app"
	"github.com/tildaslashalef/prquiz/internal/quiz"
)

// Model represents the TUI model state.
// Methods like Init, Update, View live in separate files.
type Model struct {
	app     *app.App
	ctx     context.Context
	cancel  context.CancelFunc
	status  Status
	width   int
	height  int
	options QuizOptions

	quiz    *quiz.Quiz
	current int // index of the question being answered
	cursor  int // index of the highlighted option
	// selections maps question ID to the set of selected option IDs
	selections map[string]map[string]bool
	result     quiz.Result

	statusMessage string
	errorMsg      string
	styles        Styles

	// Components from bubbletea/bubbles
	viewport viewport.Model
	spinner  spinner.Model
	help     help.Model
	showHelp bool

	// Markdown rendering
	renderer *glamour.TermRenderer

	ready bool // viewport has dimensions
}

// NewModel creates a new TUI model with initial state.
func NewModel(application *app.App) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot

	h := help.New()
	h.ShowAll = false

	styles := DefaultStyles()

	s.Style = styles.Spinner

	r, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)

	ctx, cancel := context.WithCancel(context.Background())

	vp := viewport.New(10, 10)
	vp.Style = styles.Paragraph

	return Model{
		app:        application,
		ctx:        ctx,
		cancel:     cancel,
		status:     StatusInitializing,
		spinner:    s,
		help:       h,
		showHelp:   false,
		styles:     styles,
		renderer:   r,
		viewport:   vp,
		selections: make(map[string]map[string]bool),
		ready:      false,
	}
}

// SetOptions updates the quiz options in the model.
func (m *Model) SetOptions(options QuizOptions) {
	m.options = options
	if options.Quiz == nil {
		m.status = StatusGenerating
		m.statusMessage = "Generating quiz from pull request..."
	}
}

// currentQuestion returns the question being answered, or nil when the
// quiz is empty or not loaded yet.
func (m Model) currentQuestion() *quiz.Question {
	if m.quiz == nil || m.current < 0 || m.current >= len(m.quiz.Questions) {
		return nil
	}
	return &m.quiz.Questions[m.current]
}

// questionOptions returns the selectable options for a question.
// True/false questions without explicit options get synthesized ones.
func questionOptions(q *quiz.Question) []quiz.Option {
	if len(q.Options) > 0 {
		return q.Options
	}
	if q.Type == quiz.TypeTrueFalse {
		return []quiz.Option{
			{ID: "true", Text: "True"},
			{ID: "false", Text: "False"},
		}
	}
	return nil
}

// toggleSelection records or removes the highlighted option for the
// current question. Single-answer questions keep at most one selection.
func (m *Model) toggleSelection() {
	q := m.currentQuestion()
	if q == nil {
		return
	}
	opts := questionOptions(q)
	if m.cursor < 0 || m.cursor >= len(opts) {
		return
	}

	picked := opts[m.cursor].ID
	selected := m.selections[q.ID]
	if selected == nil {
		selected = make(map[string]bool)
		m.selections[q.ID] = selected
	}

	if selected[picked] {
		delete(selected, picked)
		return
	}
	if !q.CorrectAnswer.Multi {
		// Replace the previous pick for single-answer questions.
		for id := range selected {
			delete(selected, id)
		}
	}
	selected[picked] = true
}

// collectAnswers converts the recorded selections into the shape the
// grading engine expects, preserving the question's option order.
func (m Model) collectAnswers() quiz.Answers {
	answers := make(quiz.Answers, len(m.selections))
	if m.quiz == nil {
		return answers
	}
	for i := range m.quiz.Questions {
		q := &m.quiz.Questions[i]
		selected := m.selections[q.ID]
		if len(selected) == 0 {
			continue
		}
		var picked []string
		for _, opt := range questionOptions(q) {
			if selected[opt.ID] {
				picked = append(picked, opt.ID)
			}
		}
		answers[q.ID] = picked
	}
	return answers
}

// answeredCount returns how many questions have at least one selection.
func (m Model) answeredCount() int {
	count := 0
	if m.quiz == nil {
		return count
	}
	for i := range m.quiz.Questions {
		if len(m.selections[m.quiz.Questions[i].ID]) > 0 {
			count++
		}
	}
	return count
}
