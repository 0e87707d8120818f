package commands

import (
	"context"
	"errors"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/tildaslashalef/prquiz/internal/app"
	"github.com/tildaslashalef/prquiz/internal/llm"
	"github.com/tildaslashalef/prquiz/internal/utils"
)

// CheckCommand returns the CLI command for verifying provider connectivity
func CheckCommand() *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "Check connectivity to the configured LLM providers",
		Description: "Validates that each configured provider is reachable and, for " +
			"Ollama, that the configured model is installed locally.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "provider",
				Aliases: []string{"p"},
				Usage:   "Check only this provider (openai, gemini, or ollama)",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Per-provider check timeout",
				Value: 15 * time.Second,
			},
		},
		Action: checkAction,
	}
}

func checkAction(c *cli.Context) error {
	application, err := app.FromContext(c)
	if err != nil {
		return err
	}

	names := configuredProviders(application)
	if only := c.String("provider"); only != "" {
		names = []string{only}
	}
	if len(names) == 0 {
		utils.PrintWarning("No providers configured. Set an API key or an Ollama endpoint.")
		return nil
	}

	timeout := c.Duration("timeout")
	rows := make([][]string, 0, len(names))
	failures := 0

	for _, name := range names {
		status, detail := checkProvider(c.Context, application, name, timeout)
		if status != "ok" {
			failures++
		}
		rows = append(rows, []string{name, status, detail})
	}

	utils.PrintTable("Provider connectivity", []string{"Provider", "Status", "Detail"}, rows)

	if failures > 0 {
		return cli.Exit("", 1)
	}
	utils.PrintSuccess("All checked providers are reachable")
	return nil
}

// configuredProviders lists the providers with usable credentials.
func configuredProviders(application *app.App) []string {
	var names []string
	if application.Config.OpenAI.APIKey != "" {
		names = append(names, llm.ProviderOpenAI)
	}
	if application.Config.Gemini.APIKey != "" {
		names = append(names, llm.ProviderGemini)
	}
	if application.Config.Ollama.Endpoint != "" {
		names = append(names, llm.ProviderOllama)
	}
	return names
}

func checkProvider(ctx context.Context, application *app.App, name string, timeout time.Duration) (status, detail string) {
	provider, err := application.LLM.CreateProvider(name)
	if err != nil {
		return "error", err.Error()
	}

	checkCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := provider.ValidateConnection(checkCtx); err != nil {
		var notInstalled *llm.ModelNotInstalledError
		if errors.As(err, &notInstalled) {
			return "model missing", notInstalled.Error()
		}
		return "unreachable", err.Error()
	}
	return "ok", ""
}
