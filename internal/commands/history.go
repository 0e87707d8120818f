package commands

import (
	"errors"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/tildaslashalef/prquiz/internal/app"
	"github.com/tildaslashalef/prquiz/internal/commands/quizui"
	"github.com/tildaslashalef/prquiz/internal/store"
	"github.com/tildaslashalef/prquiz/internal/utils"
)

// HistoryCommand returns the CLI command for browsing past quizzes
func HistoryCommand() *cli.Command {
	return &cli.Command{
		Name:    "history",
		Aliases: []string{"ls"},
		Usage:   "List previously generated quizzes",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"l"},
				Usage:   "Maximum number of quizzes to list",
				Value:   20,
			},
			&cli.StringFlag{
				Name:    "take",
				Aliases: []string{"t"},
				Usage:   "Retake a stored quiz by its ID in the interactive TUI",
			},
		},
		Action: historyAction,
	}
}

func historyAction(c *cli.Context) error {
	application, err := app.FromContext(c)
	if err != nil {
		return err
	}

	if id := c.String("take"); id != "" {
		return retakeQuiz(c, application, id)
	}

	summaries, err := application.Repo.ListQuizzes(c.Context, c.Int("limit"))
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		utils.PrintInfo("No quizzes generated yet. Run 'prquiz generate <pull-request-url>' to create one.")
		return nil
	}

	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			s.ID,
			s.Name,
			s.PullRequestURL,
			s.AIProvider,
			strconv.Itoa(s.Complexity),
			strconv.Itoa(s.QuestionCount),
			s.CreatedAt.Format("2006-01-02 15:04"),
		})
	}
	utils.PrintTable("Quiz history",
		[]string{"ID", "Name", "Pull request", "Provider", "Complexity", "Questions", "Created"},
		rows,
	)
	return nil
}

func retakeQuiz(c *cli.Context, application *app.App, id string) error {
	q, err := application.Repo.GetQuizByID(c.Context, id)
	if err != nil {
		if errors.Is(err, store.ErrQuizNotFound) {
			utils.PrintError("No quiz found with ID " + id)
		}
		return err
	}
	return quizui.NewService(application).Run(c.Context, quizui.QuizOptions{Quiz: q})
}
