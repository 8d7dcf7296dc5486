package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// fallbackEnv maps conventional environment variable names to viper keys.
// Values are only applied when the QAREPORT_-prefixed form is absent.
var fallbackEnv = map[string]string{
	"AZDO_ORG_URL":              "azdo.org_url",
	"AZDO_PROJECT":              "azdo.project",
	"AZDO_TEAM":                 "azdo.team",
	"AZDO_PAT":                  "azdo.pat",
	"CONFLUENCE_BASE_URL":       "confluence.base_url",
	"CONFLUENCE_PAGE_ID":        "confluence.page_id",
	"CONFLUENCE_EMAIL":          "confluence.email",
	"CONFLUENCE_API_TOKEN":      "confluence.api_token",
	"CONFLUENCE_SPACE_KEY":      "confluence.space_key",
	"CONFLUENCE_PARENT_PAGE_ID": "confluence.parent_page_id",
}

// Load initializes the configuration from file and environment variables.
func Load(cfgFile string) {
	// explicit .env loading; a missing .env file is fine
	_ = godotenv.Load()

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("QAREPORT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// Honor the conventional unprefixed variables when the prefixed form is not set.
	for env, key := range fallbackEnv {
		prefixed := "QAREPORT_" + strings.ReplaceAll(strings.ToUpper(key), ".", "_")
		if os.Getenv(prefixed) == "" && os.Getenv(env) != "" {
			viper.SetDefault(key, os.Getenv(env))
		}
	}

	// Set defaults
	viper.SetDefault("output.dir", "reports")
	viper.SetDefault("verbose", false)

	// Notification defaults
	slackEnabled := false
	if os.Getenv("SLACK_BOT_USER_TOKEN") != "" {
		slackEnabled = true
	}
	viper.SetDefault("notifications.slack.enabled", slackEnabled)
	viper.SetDefault("notifications.slack.channel", "#qa-reports")

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// TemplateCachePath returns the configured template cache location, defaulting
// to template.html inside the output directory.
func TemplateCachePath() string {
	if p := viper.GetString("output.template_cache"); p != "" {
		return p
	}
	return filepath.Join(viper.GetString("output.dir"), "template.html")
}
