// Package analyzer derives heuristic signals from a fetched pull request:
// an aggregate complexity score, detected languages, change patterns and
// weighted focus areas for question generation.
package analyzer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tildaslashalef/prquiz/internal/github"
	"github.com/tildaslashalef/prquiz/internal/loggy"
)

// CodeChange summarizes a single changed file for prompt building.
type CodeChange struct {
	Type         string `json:"type"`
	Filename     string `json:"filename"`
	Language     string `json:"language"`
	LinesChanged int    `json:"lines_changed"`
	Complexity   int    `json:"complexity"`
	Summary      string `json:"summary"`
	Patch        string `json:"patch,omitempty"`
}

// FocusArea is a weighted emphasis hint passed to the model. Weights are
// relative and deliberately not normalized to sum to 1.
type FocusArea struct {
	Type   string  `json:"type"`
	Weight float64 `json:"weight"`
}

// Analysis is the full output of analyzing a pull request.
type Analysis struct {
	Changes    []CodeChange `json:"changes"`
	Complexity int          `json:"complexity"`
	Languages  []string     `json:"languages"`
	Patterns   []string     `json:"patterns"`
	FocusAreas []FocusArea  `json:"focus_areas"`
}

// Service analyzes pull request records
type Service struct {
	logger *loggy.Logger
}

// NewService creates a new analyzer service
func NewService(logger *loggy.Logger) *Service {
	return &Service{logger: logger}
}

// Analyze computes heuristic signals for a pull request. The complexity
// weighting (files*10 + changedLines/10 + commits*5, clamped to 100) is a
// deliberate heuristic, not a measured metric.
func (s *Service) Analyze(pr *github.PullRequestRecord) *Analysis {
	if pr == nil {
		return &Analysis{
			Changes:    []CodeChange{},
			Languages:  []string{},
			Patterns:   []string{},
			FocusAreas: defaultFocusAreas(),
		}
	}

	analysis := &Analysis{
		Changes:  make([]CodeChange, 0, len(pr.Files)),
		Patterns: []string{},
	}

	totalLines := 0
	languages := make(map[string]struct{})
	patterns := make(map[string]struct{})

	for _, f := range pr.Files {
		linesChanged := f.Additions + f.Deletions
		totalLines += linesChanged

		analysis.Changes = append(analysis.Changes, CodeChange{
			Type:         f.Status,
			Filename:     f.Filename,
			Language:     f.Language,
			LinesChanged: linesChanged,
			Complexity:   min(10, linesChanged/10),
			Summary:      summarizeChange(f),
			Patch:        f.Patch,
		})

		if f.Language != "" {
			languages[f.Language] = struct{}{}
		}

		for _, p := range detectPatterns(f) {
			patterns[p] = struct{}{}
		}
	}

	analysis.Complexity = min(100, len(pr.Files)*10+totalLines/10+len(pr.Commits)*5)
	analysis.Languages = sortedKeys(languages)
	analysis.Patterns = sortedKeys(patterns)
	analysis.FocusAreas = deriveFocusAreas(pr)

	if s.logger != nil {
		s.logger.Debug("analyzed pull request",
			"files", len(pr.Files),
			"changed_lines", totalLines,
			"commits", len(pr.Commits),
			"complexity", analysis.Complexity,
			"patterns", analysis.Patterns,
		)
	}

	return analysis
}

func summarizeChange(f github.FileChange) string {
	switch f.Status {
	case "added":
		return fmt.Sprintf("Added %s (+%d lines)", f.Filename, f.Additions)
	case "deleted":
		return fmt.Sprintf("Deleted %s (-%d lines)", f.Filename, f.Deletions)
	case "renamed":
		return fmt.Sprintf("Renamed to %s (+%d/-%d lines)", f.Filename, f.Additions, f.Deletions)
	default:
		return fmt.Sprintf("Modified %s (+%d/-%d lines)", f.Filename, f.Additions, f.Deletions)
	}
}

// detectPatterns evaluates fixed keyword triggers for a single file.
func detectPatterns(f github.FileChange) []string {
	var found []string

	name := strings.ToLower(f.Filename)
	if strings.Contains(name, "test") {
		found = append(found, "testing")
	}
	if strings.Contains(name, "api") {
		found = append(found, "api")
	}
	if strings.Contains(name, "component") {
		found = append(found, "component")
	}
	if strings.Contains(name, "service") {
		found = append(found, "service")
	}

	patch := f.Patch
	if strings.Contains(patch, "async") || strings.Contains(patch, "await") {
		found = append(found, "async")
	}
	if strings.Contains(patch, "useState") || strings.Contains(patch, "useEffect") {
		found = append(found, "react-hooks")
	}

	return found
}

func defaultFocusAreas() []FocusArea {
	return []FocusArea{
		{Type: "logic", Weight: 0.3},
		{Type: "syntax", Weight: 0.2},
		{Type: "best-practices", Weight: 0.3},
	}
}

func deriveFocusAreas(pr *github.PullRequestRecord) []FocusArea {
	areas := defaultFocusAreas()

	hasSecurity := false
	hasPerformance := false
	for _, f := range pr.Files {
		patch := strings.ToLower(f.Patch)
		if strings.Contains(patch, "password") || strings.Contains(patch, "token") || strings.Contains(patch, "auth") {
			hasSecurity = true
		}
		if strings.Contains(patch, "performance") || strings.Contains(patch, "optimize") || strings.Contains(patch, "cache") {
			hasPerformance = true
		}
	}

	if hasSecurity {
		areas = append(areas, FocusArea{Type: "security", Weight: 0.2})
	}
	if hasPerformance {
		areas = append(areas, FocusArea{Type: "performance", Weight: 0.2})
	}

	return areas
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
