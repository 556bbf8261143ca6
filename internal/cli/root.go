package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	buildVersion = "dev"
	buildCommit  = "unknown"
	buildDate    = "unknown"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "orschooldata",
	Short: "Serve and manage Oregon school enrollment data",
	Long: `orschooldata loads Oregon Department of Education fall-membership
extracts into Postgres and serves them over an HTTP API.

Examples:
	# Start the API server
	orschooldata serve

	# Run pending database migrations
	orschooldata migrate

	# Ingest extracts from the configured data directory
	orschooldata ingest

	# Ingest two specific years from another directory
	orschooldata ingest --dir /data/extracts --years 2023,2024

	# Print build info
	orschooldata version`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the config file (default configs/config.yaml)")
}

func SetBuildInfo(version, commit, date string) {
	if version != "" {
		buildVersion = version
	}
	if commit != "" {
		buildCommit = commit
	}
	if date != "" {
		buildDate = date
	}

	rootCmd.Version = fmt.Sprintf("%s (%s) %s", buildVersion, buildCommit, buildDate)
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

func BuildInfo() (version, commit, date string) {
	return buildVersion, buildCommit, buildDate
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
