package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/tildaslashalef/prquiz/internal/app"
	"github.com/tildaslashalef/prquiz/internal/commands"
)

// Version information - populated at build time
var (
	Version    = "dev"
	BuildTime  = "unknown"
	CommitHash = "unknown"
)

func main() {
	cliApp := &cli.App{
		Name:  "prquiz",
		Usage: "Generate quizzes from GitHub pull requests",
		Description: "prquiz fetches a pull request, analyzes its changes and asks an " +
			"LLM provider to generate quiz questions about it, then lets you take " +
			"the quiz in the terminal.\n\n" +
			"When run without subcommands, prquiz generates a quiz (default action).",
		Version: Version,
		Compiled: func() time.Time {
			t, err := time.Parse(time.RFC3339, BuildTime)
			if err != nil {
				return time.Now()
			}
			return t
		}(),
		Before: func(c *cli.Context) error {
			application, err := app.New()
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}

			// Store the app instance in the context for later use
			c.App.Metadata = map[string]interface{}{
				"app": application,
			}

			return nil
		},
		After: func(c *cli.Context) error {
			if app, ok := c.App.Metadata["app"].(*app.App); ok {
				return app.Shutdown()
			}
			return nil
		},
		Commands: []*cli.Command{
			commands.GenerateCommand(),
			commands.CheckCommand(),
			commands.HistoryCommand(),
			commands.ConfigCommand(),
		},
		Action: func(c *cli.Context) error {
			// Default action is to run the generate command
			return commands.GenerateCommand().Action(c)
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
