package quiz

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/tildaslashalef/prquiz/internal/analyzer"
	"github.com/tildaslashalef/prquiz/internal/sanitize"
)

// Rendering caps for the built prompt. Files beyond the first maxPromptFiles
// are listed by name only, and each patch preview keeps its first
// maxPatchPreviewLines lines.
const (
	maxPromptFiles       = 5
	maxPatchPreviewLines = 20
)

const generationPromptTemplate = `You are an expert code reviewer creating a quiz about a GitHub pull request. Your **PRIMARY GOAL** is to provide a **VALID JSON response**. The JSON response **MUST** be a complete, parseable JSON object as your final statement.

Follow this schema **EXACTLY** without adding any additional fields:

{
  "questions": [
    {
      "id": "question-1",
      "type": "multiple-choice|true-false|code-review|explanation",
      "content": "The question text",
      "code": {"language": "go", "content": "optional code excerpt", "filename": "optional"},
      "options": [
        {"id": "a", "text": "First option", "isCorrect": true},
        {"id": "b", "text": "Second option", "isCorrect": false}
      ],
      "correctAnswer": "a",
      "explanation": "Why this answer is correct",
      "difficulty": "easy|medium|hard",
      "tags": ["logic"]
    }
  ]
}

IMPORTANT:
- For questions with multiple correct options, "correctAnswer" **MUST** be an array of option ids and every listed id must match an option.
- For single-answer questions, "correctAnswer" is the single correct option id.
- Base every question on the actual changes below, not on generic programming trivia.

## Pull Request
Title: {{.Title}}
Author: {{.Author}}
{{- if .Description}}
Description: {{.Description}}
{{- end}}
Complexity score: {{.Complexity}}/100
Languages: {{.Languages}}
{{- if .Patterns}}
Detected patterns: {{.Patterns}}
{{- end}}

## Changed Files ({{.FileCount}} total{{if .Truncated}}, showing first {{.ShownCount}}{{end}})
{{range .Files}}
### {{.Filename}} ({{.Type}}, {{.Language}}, {{.LinesChanged}} lines changed)
{{- if .Preview}}
` + "```" + `
{{.Preview}}
` + "```" + `
{{- end}}
{{end}}
{{- if .OmittedFiles}}
Also changed: {{.OmittedFiles}}
{{- end}}

## Quiz Requirements
- Generate exactly {{.QuestionCount}} questions.
- Difficulty: {{.Difficulty}}.
- Emphasize these focus areas (relative weights): {{.FocusAreas}}.

Provide the **JSON** response as your **LAST** statement.`

type promptFile struct {
	Filename     string
	Type         string
	Language     string
	LinesChanged int
	Preview      string
}

type promptData struct {
	Title         string
	Author        string
	Description   string
	Complexity    int
	Languages     string
	Patterns      string
	FileCount     int
	ShownCount    int
	Truncated     bool
	Files         []promptFile
	OmittedFiles  string
	QuestionCount int
	Difficulty    string
	FocusAreas    string
}

var promptTmpl = template.Must(template.New("generation").Parse(generationPromptTemplate))

// BuildPrompt renders the provider-agnostic generation prompt for a context.
// Output is deterministic for identical input. Patch previews are sanitized
// before embedding.
func BuildPrompt(ctx *GenerationContext) (string, error) {
	if ctx == nil || ctx.PullRequest == nil || ctx.Analysis == nil {
		return "", fmt.Errorf("generation context is incomplete")
	}

	pr := ctx.PullRequest
	analysis := ctx.Analysis

	data := promptData{
		Title:         pr.Title,
		Author:        pr.Author,
		Description:   strings.TrimSpace(pr.Description),
		Complexity:    analysis.Complexity,
		Languages:     joinOr(analysis.Languages, "unknown"),
		Patterns:      strings.Join(analysis.Patterns, ", "),
		FileCount:     len(analysis.Changes),
		QuestionCount: ctx.QuestionCount,
		Difficulty:    ctx.Difficulty,
		FocusAreas:    formatFocusAreas(analysis.FocusAreas),
	}

	shown := analysis.Changes
	if len(shown) > maxPromptFiles {
		shown = shown[:maxPromptFiles]
		data.Truncated = true

		var omitted []string
		for _, c := range analysis.Changes[maxPromptFiles:] {
			omitted = append(omitted, c.Filename)
		}
		data.OmittedFiles = strings.Join(omitted, ", ")
	}
	data.ShownCount = len(shown)

	for _, c := range shown {
		data.Files = append(data.Files, promptFile{
			Filename:     c.Filename,
			Type:         c.Type,
			Language:     c.Language,
			LinesChanged: c.LinesChanged,
			Preview:      previewPatch(c.Patch),
		})
	}

	var buf bytes.Buffer
	if err := promptTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render generation prompt: %w", err)
	}

	return buf.String(), nil
}

// previewPatch truncates a patch to its first maxPatchPreviewLines lines and
// redacts any credential-shaped content.
func previewPatch(patch string) string {
	if patch == "" {
		return ""
	}

	lines := strings.Split(patch, "\n")
	if len(lines) > maxPatchPreviewLines {
		lines = lines[:maxPatchPreviewLines]
	}

	return sanitize.Sanitize(strings.Join(lines, "\n"))
}

func formatFocusAreas(areas []analyzer.FocusArea) string {
	parts := make([]string, 0, len(areas))
	for _, a := range areas {
		parts = append(parts, fmt.Sprintf("%s (%.1f)", a.Type, a.Weight))
	}
	return strings.Join(parts, ", ")
}

func joinOr(values []string, fallback string) string {
	if len(values) == 0 {
		return fallback
	}
	return strings.Join(values, ", ")
}
