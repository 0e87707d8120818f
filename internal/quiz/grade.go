package quiz

import "math"

// Result holds the outcome of grading a quiz.
type Result struct {
	Score    int `json:"score"`
	MaxScore int `json:"max_score"`
	Percent  int `json:"percent"`
}

// Grade scores user answers against a quiz.
//
// Multi-answer questions earn partial credit: every correct pick counts for
// one point and every incorrect pick subtracts one, floored at zero. A
// single-answer question is worth one point, earned only when exactly the
// correct option was selected.
func Grade(q *Quiz, answers Answers) Result {
	result := Result{}
	if q == nil {
		return result
	}

	for _, question := range q.Questions {
		selected := answers[question.ID]

		if question.CorrectAnswer.Multi {
			correct := question.CorrectAnswer.Values
			result.MaxScore += len(correct)
			result.Score += scoreMultiAnswer(correct, selected)
			continue
		}

		result.MaxScore++
		if len(selected) == 1 && selected[0] == question.CorrectAnswer.Single() {
			result.Score++
		}
	}

	if result.MaxScore > 0 {
		result.Percent = int(math.Round(100 * float64(result.Score) / float64(result.MaxScore)))
	}

	return result
}

func scoreMultiAnswer(correct, selected []string) int {
	correctSet := make(map[string]struct{}, len(correct))
	for _, c := range correct {
		correctSet[c] = struct{}{}
	}

	hits, misses := 0, 0
	for _, s := range selected {
		if _, ok := correctSet[s]; ok {
			hits++
		} else {
			misses++
		}
	}

	score := hits - misses
	if score < 0 {
		score = 0
	}
	return score
}
