package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// requiredKeys are the configuration values the report run cannot start without.
// Missing values are reported together, before any network call is made.
var requiredKeys = []struct {
	key  string
	env  string
	what string
}{
	{"azdo.org_url", "AZDO_ORG_URL", "Azure DevOps organization URL"},
	{"azdo.project", "AZDO_PROJECT", "Azure DevOps project"},
	{"azdo.team", "AZDO_TEAM", "Azure DevOps team"},
	{"azdo.pat", "AZDO_PAT", "Azure DevOps personal access token"},
	{"confluence.base_url", "CONFLUENCE_BASE_URL", "Confluence base URL"},
	{"confluence.page_id", "CONFLUENCE_PAGE_ID", "Confluence template page id"},
	{"confluence.email", "CONFLUENCE_EMAIL", "Confluence account email"},
	{"confluence.api_token", "CONFLUENCE_API_TOKEN", "Confluence API token"},
}

// Validate checks that all required configuration values are present and
// returns a single error listing every missing key.
func Validate() error {
	var missing []string
	for _, rk := range requiredKeys {
		if strings.TrimSpace(viper.GetString(rk.key)) == "" {
			missing = append(missing, fmt.Sprintf("%s (set %s or %s)", rk.what, rk.key, rk.env))
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("configuration validation failed:\n  %s", strings.Join(missing, "\n  "))
	}
	return nil
}
