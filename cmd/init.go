package cmd

import (
	"fmt"

	"commitnotes/internal/config"
	"commitnotes/internal/ui"
	"commitnotes/pkg/errors"
	"commitnotes/pkg/models"
	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
)

var (
	initDefaults bool
	initOutput   string
	initForce    bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a commitnotes config file",
	Long: `Ask for the repository and output locations and save them as a YAML config
file. With --defaults the built-in settings are written without prompting.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

// promptConfig fills cfg interactively. Tests swap it out.
var promptConfig = askConfig

func init() {
	initCmd.Flags().BoolVar(&initDefaults, "defaults", false, "write the default settings without prompting")
	initCmd.Flags().StringVarP(&initOutput, "output", "o", config.LocalConfigFile, "path of the config file to write")
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config file")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	if config.Exists(initOutput) && !initForce {
		return errors.New(errors.ErrCodeUserInput, fmt.Sprintf("config file %s already exists", initOutput)).
			WithContext("path", initOutput).
			WithSuggestions("Pass --force to overwrite it", "Use --output to write somewhere else")
	}

	cfg := config.Default()
	if !initDefaults {
		if err := promptConfig(cfg); err != nil {
			return errors.Wrap(err, errors.ErrCodeUserInput, "setup cancelled")
		}
	}

	if err := config.Validate(cfg); err != nil {
		return err
	}
	if err := config.Save(cfg, initOutput); err != nil {
		return err
	}

	ui.ShowSuccess(cmd.OutOrStdout(), fmt.Sprintf("wrote %s", initOutput))
	return nil
}

func askConfig(cfg *models.Config) error {
	answers := struct {
		Org        string `survey:"org"`
		Repo       string `survey:"repo"`
		IndexFile  string `survey:"index"`
		CommitsDir string `survey:"dir"`
	}{}

	qs := []*survey.Question{
		{
			Name: "org",
			Prompt: &survey.Input{
				Message: "GitHub organization or user:",
				Default: cfg.GitHub.Org,
			},
			Validate: survey.Required,
		},
		{
			Name: "repo",
			Prompt: &survey.Input{
				Message: "Repository:",
				Default: cfg.GitHub.Repo,
			},
			Validate: survey.Required,
		},
		{
			Name: "index",
			Prompt: &survey.Input{
				Message: "Index file:",
				Default: cfg.Output.IndexFile,
			},
			Validate: survey.Required,
		},
		{
			Name: "dir",
			Prompt: &survey.Input{
				Message: "Directory for commit notes:",
				Default: cfg.Output.CommitsDir,
			},
			Validate: survey.Required,
		},
	}
	if err := survey.Ask(qs, &answers); err != nil {
		return err
	}

	cfg.GitHub.Org = answers.Org
	cfg.GitHub.Repo = answers.Repo
	cfg.Output.IndexFile = answers.IndexFile
	cfg.Output.CommitsDir = answers.CommitsDir

	return survey.AskOne(&survey.Confirm{
		Message: "Stage new note files with git?",
		Default: cfg.Git.Stage,
	}, &cfg.Git.Stage)
}
