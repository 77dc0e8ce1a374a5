// Package commands implements the oiwatch CLI.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/wonny/oiwatch/pkg/config"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "oiwatch",
	Short: "OI watch - futures open interest ranking dashboard",
	Long: `OI watch

Fetches the open-interest snapshot of USDT perpetual futures, ranks the
contracts and serves them as a paged chart dashboard.

Usage:
  go run ./cmd/oiwatch [command]

Examples:
  go run ./cmd/oiwatch serve
  go run ./cmd/oiwatch rank --profile full_market --page 2
  go run ./cmd/oiwatch profiles --file configs/profiles.yaml`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig loads the env config and applies global flags
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}
