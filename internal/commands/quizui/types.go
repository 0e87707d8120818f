package quizui

import (
	"github.com/tildaslashalef/prquiz/internal/generator"
	"github.com/tildaslashalef/prquiz/internal/quiz"
)

// Status represents the current status of the TUI
type Status int

const (
	// StatusInitializing is the initial status
	StatusInitializing Status = iota
	// StatusGenerating is the status while the quiz is being generated
	StatusGenerating
	// StatusAnswering is the status while the user answers questions
	StatusAnswering
	// StatusViewingResults is the status when the graded quiz is shown
	StatusViewingResults
	// StatusError is the status when an error occurred
	StatusError
)

// QuizOptions contains options for running a quiz session
type QuizOptions struct {
	// Quiz, when set, is taken as-is and no generation happens.
	Quiz *quiz.Quiz
	// Generate describes the pull request to build a quiz from when
	// Quiz is nil.
	Generate generator.Options
}
