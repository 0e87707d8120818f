package quizui

import (
	"github.com/tildaslashalef/prquiz/internal/quiz"
)

// quizReadyMsg is a message for when the quiz is available
type quizReadyMsg struct {
	quiz  *quiz.Quiz
	error error
}

// gradedMsg is a message for when the quiz has been graded
type gradedMsg struct {
	result quiz.Result
}
