// Package extractor locates and parses the JSON quiz payload inside raw
// LLM responses, which may wrap it in prose or fenced code blocks.
package extractor

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/tildaslashalef/prquiz/internal/loggy"
	"github.com/tildaslashalef/prquiz/internal/quiz"
)

// ParseError indicates the model output could not be turned into questions.
// It carries the raw response text for diagnostics.
type ParseError struct {
	Message string
	RawText string
}

// Error implements the error interface
func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse model response: %s", e.Message)
}

// QuestionExtractor extracts quiz questions from LLM responses
type QuestionExtractor struct {
	logger *loggy.Logger
}

// NewQuestionExtractor creates a new QuestionExtractor
func NewQuestionExtractor(logger *loggy.Logger) *QuestionExtractor {
	return &QuestionExtractor{
		logger: logger,
	}
}

var codeBlockRegex = regexp.MustCompile("```(?:json)?([\\s\\S]*?)```")

// ExtractQuestions parses the questions array out of raw model output.
// Missing optional fields get fixed defaults and questions without an id
// get a synthesized "question-{n}" id.
func (e *QuestionExtractor) ExtractQuestions(content string) ([]quiz.Question, error) {
	if strings.TrimSpace(content) == "" {
		return nil, &ParseError{Message: "empty response", RawText: content}
	}

	jsonContent, err := extractJSON(content)
	if err != nil {
		e.logger.Debug("failed to locate JSON in response", "error", err)
		return nil, &ParseError{Message: err.Error(), RawText: content}
	}

	var payload struct {
		Questions []json.RawMessage `json:"questions"`
	}
	if err := json.Unmarshal([]byte(jsonContent), &payload); err != nil {
		e.logger.Debug("failed to unmarshal response JSON", "error", err)
		return nil, &ParseError{Message: fmt.Sprintf("invalid JSON: %v", err), RawText: content}
	}
	if payload.Questions == nil {
		return nil, &ParseError{Message: "response JSON has no questions array", RawText: content}
	}

	questions := make([]quiz.Question, 0, len(payload.Questions))
	for i, raw := range payload.Questions {
		var q quiz.Question
		if err := json.Unmarshal(raw, &q); err != nil {
			e.logger.Debug("skipping malformed question entry", "index", i, "error", err)
			continue
		}
		questions = append(questions, normalizeQuestion(q, i))
	}

	e.logger.Debug("extracted questions from response", "count", len(questions))

	return questions, nil
}

// extractJSON locates a JSON object in the content. Fenced code blocks are
// preferred, then the raw content, then the outermost balanced brace pair.
func extractJSON(content string) (string, error) {
	for _, match := range codeBlockRegex.FindAllStringSubmatch(content, -1) {
		if len(match) > 1 {
			potential := strings.TrimSpace(match[1])
			if strings.HasPrefix(potential, "{") && strings.HasSuffix(potential, "}") {
				return potential, nil
			}
		}
	}

	trimmed := strings.TrimSpace(content)
	if strings.HasPrefix(trimmed, "{") && strings.HasSuffix(trimmed, "}") {
		return trimmed, nil
	}

	startIdx := strings.Index(content, "{")
	if startIdx >= 0 {
		depth := 0
		for i, char := range content[startIdx:] {
			switch char {
			case '{':
				depth++
			case '}':
				depth--
				if depth == 0 {
					return content[startIdx : startIdx+i+1], nil
				}
			}
		}
	}

	return "", fmt.Errorf("no JSON object found in response")
}

func normalizeQuestion(q quiz.Question, index int) quiz.Question {
	if q.ID == "" {
		q.ID = fmt.Sprintf("question-%d", index+1)
	}
	if q.Type == "" {
		q.Type = quiz.TypeMultipleChoice
	}
	if q.Difficulty == "" {
		q.Difficulty = quiz.DifficultyMedium
	}
	if q.Tags == nil {
		q.Tags = []string{}
	}
	return q
}
