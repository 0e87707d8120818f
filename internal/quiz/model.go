// Package quiz defines the quiz domain model, the prompt builder and the
// grading engine.
package quiz

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/tildaslashalef/prquiz/internal/analyzer"
	"github.com/tildaslashalef/prquiz/internal/github"
)

// Question types
const (
	TypeMultipleChoice = "multiple-choice"
	TypeTrueFalse      = "true-false"
	TypeCodeReview     = "code-review"
	TypeExplanation    = "explanation"
)

// Difficulty levels
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Answer holds a question's correct answer, which the model may return as
// either a single string or an array of option ids.
type Answer struct {
	Values []string
	Multi  bool
}

// UnmarshalJSON accepts both a JSON string and a JSON array of strings.
func (a *Answer) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		a.Values = []string{single}
		a.Multi = false
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err == nil {
		a.Values = many
		a.Multi = true
		return nil
	}

	// Booleans show up in true-false questions
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		a.Values = []string{fmt.Sprintf("%t", b)}
		a.Multi = false
		return nil
	}

	return fmt.Errorf("correct answer must be a string, a string array or a boolean, got %s", string(data))
}

// MarshalJSON writes a scalar for single-answer questions and an array for
// multi-answer questions.
func (a Answer) MarshalJSON() ([]byte, error) {
	if a.Multi {
		return json.Marshal(a.Values)
	}
	if len(a.Values) == 0 {
		return json.Marshal("")
	}
	return json.Marshal(a.Values[0])
}

// Single returns the scalar answer value for single-answer questions.
func (a Answer) Single() string {
	if len(a.Values) == 0 {
		return ""
	}
	return a.Values[0]
}

// IsEmpty reports whether no answer value is set.
func (a Answer) IsEmpty() bool {
	return len(a.Values) == 0
}

// Option is one selectable choice of a question.
type Option struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect,omitempty"`
}

// CodeSnippet is an optional code excerpt attached to a question.
type CodeSnippet struct {
	Language string `json:"language"`
	Content  string `json:"content"`
	Filename string `json:"filename,omitempty"`
}

// Question is the canonical question shape produced by the response parser.
// Immutable once constructed.
type Question struct {
	ID            string       `json:"id"`
	Type          string       `json:"type"`
	Content       string       `json:"content"`
	Code          *CodeSnippet `json:"code,omitempty"`
	Options       []Option     `json:"options,omitempty"`
	CorrectAnswer Answer       `json:"correctAnswer"`
	Explanation   string       `json:"explanation"`
	Difficulty    string       `json:"difficulty"`
	Tags          []string     `json:"tags"`
}

// Metadata captures how a quiz was produced.
type Metadata struct {
	GeneratedBy      string               `json:"generated_by"`
	AIProvider       string               `json:"ai_provider"`
	ProcessingTimeMs int64                `json:"processing_time_ms"`
	Complexity       int                  `json:"complexity"`
	FocusAreas       []analyzer.FocusArea `json:"focus_areas"`
}

// Quiz is the produced artifact of one successful generation. Superseded,
// never mutated, by the next generation.
type Quiz struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	PullRequestURL string     `json:"pull_request_url"`
	Questions      []Question `json:"questions"`
	Metadata       Metadata   `json:"metadata"`
	CreatedAt      time.Time  `json:"created_at"`
}

// GenerationContext is the transient input to prompt building and provider
// calls. Computed freshly for every request and never persisted.
type GenerationContext struct {
	PullRequest   *github.PullRequestRecord
	Analysis      *analyzer.Analysis
	QuestionCount int
	Difficulty    string
}

// Answers maps question ids to the set of option ids the user selected.
type Answers map[string][]string
