package main

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"qareport/internal/ui"
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Interactive configuration wizard",
	Long:  "Runs an interactive wizard to set up the Azure DevOps and Confluence connection settings.",
	RunE:  runConfigure,
}

func init() {
	rootCmd.AddCommand(configureCmd)
}

type configureAnswers struct {
	OrgURL       string `survey:"org_url"`
	Project      string `survey:"project"`
	Team         string `survey:"team"`
	PAT          string `survey:"pat"`
	BaseURL      string `survey:"base_url"`
	PageID       string `survey:"page_id"`
	Email        string `survey:"email"`
	APIToken     string `survey:"api_token"`
	SpaceKey     string `survey:"space_key"`
	ParentPageID string `survey:"parent_page_id"`
}

func configureQuestions() []*survey.Question {
	return []*survey.Question{
		{
			Name:     "org_url",
			Prompt:   &survey.Input{Message: "Azure DevOps organization URL:", Default: viper.GetString("azdo.org_url")},
			Validate: survey.Required,
		},
		{
			Name:     "project",
			Prompt:   &survey.Input{Message: "Azure DevOps project:", Default: viper.GetString("azdo.project")},
			Validate: survey.Required,
		},
		{
			Name:     "team",
			Prompt:   &survey.Input{Message: "Azure DevOps team:", Default: viper.GetString("azdo.team")},
			Validate: survey.Required,
		},
		{
			Name:     "pat",
			Prompt:   &survey.Password{Message: "Azure DevOps personal access token:"},
			Validate: survey.Required,
		},
		{
			Name:     "base_url",
			Prompt:   &survey.Input{Message: "Confluence base URL:", Default: viper.GetString("confluence.base_url")},
			Validate: survey.Required,
		},
		{
			Name:     "page_id",
			Prompt:   &survey.Input{Message: "Confluence template page id:", Default: viper.GetString("confluence.page_id")},
			Validate: survey.Required,
		},
		{
			Name:     "email",
			Prompt:   &survey.Input{Message: "Confluence account email:", Default: viper.GetString("confluence.email")},
			Validate: survey.Required,
		},
		{
			Name:     "api_token",
			Prompt:   &survey.Password{Message: "Confluence API token:"},
			Validate: survey.Required,
		},
		{
			Name:   "space_key",
			Prompt: &survey.Input{Message: "Confluence space key (optional, defaults to the template's space):", Default: viper.GetString("confluence.space_key")},
		},
		{
			Name:   "parent_page_id",
			Prompt: &survey.Input{Message: "Parent page id (optional, defaults to the template's parent):", Default: viper.GetString("confluence.parent_page_id")},
		},
	}
}

func runConfigure(cmd *cobra.Command, args []string) error {
	var answers configureAnswers
	if err := survey.Ask(configureQuestions(), &answers); err != nil {
		return fmt.Errorf("wizard failed: %w", err)
	}

	viper.Set("azdo.org_url", answers.OrgURL)
	viper.Set("azdo.project", answers.Project)
	viper.Set("azdo.team", answers.Team)
	viper.Set("azdo.pat", answers.PAT)
	viper.Set("confluence.base_url", answers.BaseURL)
	viper.Set("confluence.page_id", answers.PageID)
	viper.Set("confluence.email", answers.Email)
	viper.Set("confluence.api_token", answers.APIToken)
	if answers.SpaceKey != "" {
		viper.Set("confluence.space_key", answers.SpaceKey)
	}
	if answers.ParentPageID != "" {
		viper.Set("confluence.parent_page_id", answers.ParentPageID)
	}

	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		configFile = "config.yaml"
	}
	viper.SetConfigType("yaml")
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config to %s: %w", configFile, err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), ui.Success("Configuration saved to "+configFile))
	return nil
}
