package commands

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/tildaslashalef/prquiz/internal/app"
	"github.com/tildaslashalef/prquiz/internal/config"
	"github.com/tildaslashalef/prquiz/internal/store"
	"github.com/tildaslashalef/prquiz/internal/utils"
)

// settingKeys are the keys the config overlay understands.
var settingKeys = []string{
	config.SettingDefaultProvider,
	config.SettingQuestionCount,
	config.SettingDifficulty,
}

// ConfigCommand returns the CLI command for persisted settings
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Manage persisted settings",
		Description: "Settings stored here override the environment defaults on " +
			"every run, so they survive across shells and machines sharing the store.",
		Subcommands: []*cli.Command{
			{
				Name:      "set",
				Usage:     "Persist a setting",
				ArgsUsage: "<key> <value>",
				Action:    configSetAction,
			},
			{
				Name:      "get",
				Usage:     "Show a persisted setting",
				ArgsUsage: "<key>",
				Action:    configGetAction,
			},
			{
				Name:   "list",
				Usage:  "List all persisted settings",
				Action: configListAction,
			},
		},
	}
}

func configSetAction(c *cli.Context) error {
	application, err := app.FromContext(c)
	if err != nil {
		return err
	}

	key := c.Args().Get(0)
	value := c.Args().Get(1)
	if key == "" || value == "" {
		return fmt.Errorf("usage: prquiz config set <key> <value>")
	}
	if !isKnownSetting(key) {
		return fmt.Errorf("unknown setting %q; known settings: %v", key, settingKeys)
	}

	if err := application.Repo.SetSetting(c.Context, key, value); err != nil {
		return fmt.Errorf("failed to persist setting: %w", err)
	}
	utils.PrintSuccess(fmt.Sprintf("Set %s = %s", key, value))
	return nil
}

func configGetAction(c *cli.Context) error {
	application, err := app.FromContext(c)
	if err != nil {
		return err
	}

	key := c.Args().Get(0)
	if key == "" {
		return fmt.Errorf("usage: prquiz config get <key>")
	}

	value, err := application.Repo.GetSetting(c.Context, key)
	if err != nil {
		if errors.Is(err, store.ErrSettingNotFound) {
			utils.PrintInfo("Setting " + key + " is not set")
			return nil
		}
		return err
	}
	utils.PrintKeyValue(key, value)
	return nil
}

func configListAction(c *cli.Context) error {
	application, err := app.FromContext(c)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(settingKeys))
	for _, key := range settingKeys {
		value, err := application.Repo.GetSetting(c.Context, key)
		if err != nil {
			if errors.Is(err, store.ErrSettingNotFound) {
				value = "(not set)"
			} else {
				return err
			}
		}
		rows = append(rows, []string{key, value})
	}
	utils.PrintTable("Settings", []string{"Key", "Value"}, rows)
	return nil
}

func isKnownSetting(key string) bool {
	for _, k := range settingKeys {
		if k == key {
			return true
		}
	}
	return false
}
