package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/cenkalti/backoff/v4"
	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/tildaslashalef/prquiz/internal/app"
	"github.com/tildaslashalef/prquiz/internal/commands/quizui"
	"github.com/tildaslashalef/prquiz/internal/generator"
	"github.com/tildaslashalef/prquiz/internal/github"
	"github.com/tildaslashalef/prquiz/internal/loggy"
	"github.com/tildaslashalef/prquiz/internal/quiz"
	"github.com/tildaslashalef/prquiz/internal/utils"
)

// GenerateCommand returns the CLI command for generating a quiz
func GenerateCommand() *cli.Command {
	return &cli.Command{
		Name:      "generate",
		Aliases:   []string{"gen"},
		Usage:     "Generate a quiz from a GitHub pull request",
		ArgsUsage: "<pull-request-url | pull-request-number>",
		Description: "Fetches the pull request, analyzes its changes and asks the " +
			"configured LLM provider to produce quiz questions about it. A bare " +
			"number is resolved against the origin remote of the current directory.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "provider",
				Aliases: []string{"p"},
				Usage:   "LLM provider to use (openai, gemini, or ollama)",
			},
			&cli.IntFlag{
				Name:    "questions",
				Aliases: []string{"n"},
				Usage:   "Number of questions to generate",
			},
			&cli.StringFlag{
				Name:    "difficulty",
				Aliases: []string{"d"},
				Usage:   "Question difficulty (easy, medium, or hard)",
			},
			&cli.BoolFlag{
				Name:    "interactive",
				Aliases: []string{"i"},
				Usage:   "Take the quiz in the interactive TUI after generation",
				Value:   true,
			},
			&cli.IntFlag{
				Name:    "retries",
				Aliases: []string{"r"},
				Usage:   "Retry transient failures this many times",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write the generated quiz as JSON to this file",
			},
		},
		Action: generateAction,
	}
}

func generateAction(c *cli.Context) error {
	application, err := app.FromContext(c)
	if err != nil {
		return err
	}

	opts, err := resolveReference(application, c.Args().First())
	if err != nil {
		return err
	}
	opts.Provider = c.String("provider")
	opts.QuestionCount = c.Int("questions")
	opts.Difficulty = c.String("difficulty")

	loggy.Info("Generating quiz",
		"owner", opts.Owner,
		"repo", opts.Repo,
		"number", opts.Number,
		"provider", opts.Provider,
	)

	// Interactive is the default, also when invoked as the app's default
	// action where the flag is not registered.
	interactive := true
	if c.IsSet("interactive") {
		interactive = c.Bool("interactive")
	}

	if interactive && c.String("output") == "" {
		return quizui.NewService(application).Run(c.Context, quizui.QuizOptions{Generate: opts})
	}

	result, err := generateWithRetries(c.Context, application, opts, c.Int("retries"))
	if err != nil {
		printGuidance(err)
		return err
	}

	if path := c.String("output"); path != "" {
		if err := writeQuizJSON(result, path); err != nil {
			return err
		}
		utils.PrintSuccess("Quiz written to " + path)
	}

	printQuizSummary(result)
	return nil
}

// resolveReference turns a PR URL or bare number into generation options.
// Bare numbers need an origin remote pointing at github.com.
func resolveReference(application *app.App, ref string) (generator.Options, error) {
	if ref == "" {
		return generator.Options{}, fmt.Errorf("a pull request URL or number is required")
	}

	if number, err := strconv.Atoi(ref); err == nil {
		cwd, err := os.Getwd()
		if err != nil {
			return generator.Options{}, fmt.Errorf("failed to get current working directory: %w", err)
		}
		owner, repo, err := application.Git.ResolveOriginRepo(cwd)
		if err != nil {
			return generator.Options{}, fmt.Errorf("resolving origin remote for pull request #%d: %w", number, err)
		}
		return generator.Options{Owner: owner, Repo: repo, Number: number}, nil
	}

	owner, repo, number, err := github.ParsePullRequestURL(ref)
	if err != nil {
		return generator.Options{}, err
	}
	return generator.Options{Owner: owner, Repo: repo, Number: number}, nil
}

// generateWithRetries retries transient failures with exponential backoff.
// Credential, not-found and in-flight errors are never retried.
func generateWithRetries(ctx context.Context, application *app.App, opts generator.Options, retries int) (*quiz.Quiz, error) {
	var result *quiz.Quiz

	operation := func() error {
		q, err := application.Generator.Generate(ctx, opts)
		if err != nil {
			if errors.Is(err, generator.ErrGenerationInFlight) {
				return backoff.Permanent(err)
			}
			switch generator.ClassifyError(err) {
			case generator.CategoryNetwork, generator.CategoryRateLimit:
				loggy.Warn("Generation failed, retrying", "error", err)
				return err
			default:
				return backoff.Permanent(err)
			}
		}
		result = q
		return nil
	}

	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(retries)), ctx)
	if err := backoff.Retry(operation, b); err != nil {
		return nil, err
	}
	return result, nil
}

// printGuidance prints an actionable hint next to the error itself.
func printGuidance(err error) {
	utils.PrintError(err.Error())
	category := generator.ClassifyError(err)
	fmt.Println(color.YellowString("  hint: %s", category.Guidance()))
}

func writeQuizJSON(q *quiz.Quiz, path string) error {
	data, err := json.MarshalIndent(q, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode quiz: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write quiz file: %w", err)
	}
	return nil
}

// printQuizSummary prints the quiz metadata and a question table.
func printQuizSummary(q *quiz.Quiz) {
	utils.PrintHeading("Quiz " + q.Name)
	utils.PrintKeyValue("ID", q.ID)
	utils.PrintKeyValue("Pull request", q.PullRequestURL)
	utils.PrintKeyValue("Provider", q.Metadata.AIProvider)
	utils.PrintKeyValue("Complexity", strconv.Itoa(q.Metadata.Complexity))
	utils.PrintDivider()

	rows := make([][]string, 0, len(q.Questions))
	for i, question := range q.Questions {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			question.Type,
			question.Difficulty,
			truncate(question.Content, 70),
		})
	}
	utils.PrintTable("Questions", []string{"#", "Type", "Difficulty", "Question"}, rows)
}

func truncate(s string, limit int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	// Slice on runes so multibyte characters are never split.
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-3]) + "..."
}
