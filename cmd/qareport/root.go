package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"qareport/internal/config"
	"qareport/internal/telemetry"
	"qareport/internal/ui"
)

var exit = os.Exit
var cfgFile string

// rootCmd generates the report when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "qareport",
	Short: "Generate and publish the QA sprint status report",
	Long: `qareport queries Azure DevOps for the work items closed during a sprint,
cross-references each item with its manual test suite in Azure Test Plans,
renders the result into an HTML document based on a Confluence template page,
and publishes the document to the team wiki.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	// Unknown flags are warned about, not fatal.
	FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
	Args:               cobra.ArbitraryArgs,
	RunE:               runReport,
}

// Execute runs the root command and reports any failure on stderr.
func Execute() {
	warnUnknownFlags(os.Args[1:])
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exit(1)
	}
}

// warnUnknownFlags surfaces flag-like arguments no registered flag claims.
// The parse whitelist already keeps them non-fatal; this gives them the same
// warning unknown positional arguments get.
func warnUnknownFlags(arguments []string) {
	for _, arg := range arguments {
		if arg == "--" {
			return
		}
		if !strings.HasPrefix(arg, "-") || arg == "-" {
			continue
		}
		name := strings.TrimLeft(arg, "-")
		if i := strings.Index(name, "="); i >= 0 {
			name = name[:i]
		}
		if name == "" || knownFlag(name, strings.HasPrefix(arg, "--")) {
			continue
		}
		fmt.Fprintln(rootCmd.ErrOrStderr(), ui.Warn("ignoring unknown flag: "+arg))
	}
}

func knownFlag(name string, long bool) bool {
	if long {
		return name == "help" ||
			rootCmd.Flags().Lookup(name) != nil ||
			rootCmd.PersistentFlags().Lookup(name) != nil
	}
	short := name[:1]
	return short == "h" ||
		rootCmd.Flags().ShorthandLookup(short) != nil ||
		rootCmd.PersistentFlags().ShorthandLookup(short) != nil
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
	rootCmd.PersistentFlags().String("log-file", "", "Also write logs to this file")

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("log_file", rootCmd.PersistentFlags().Lookup("log-file"))

	rootCmd.Flags().StringVarP(&sprintName, "sprint", "s", "", "Sprint to report on (name, path or id; defaults to the current iteration)")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	config.Load(cfgFile)
	telemetry.InitLogger(viper.GetBool("verbose"), viper.GetString("log_file"))
}
