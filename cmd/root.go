package cmd

import (
	"context"
	"os"

	"github.com/inovacc/orgclone/internal/application"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   application.AppName + " <entity>",
	Short: "Mirror every repository of a GitHub user or organization",
	Long: `orgclone mirrors all repositories owned by a GitHub user or organization.

For each repository it will:
  1. Clone it into <dir>/<entity>/<name> when nothing is there yet
  2. Fetch the default branch and fast-forward when a valid mirror exists
  3. Report the repository as unmergeable when local history has diverged
  4. Delete and clone again when the path holds something else

Authentication:
  Token is automatically detected from (in order):
  - --token flag
  - GITHUB_TOKEN environment variable
  - GH_TOKEN environment variable
  - gh CLI (if authenticated via 'gh auth login')
  Without a token, public repositories are mirrored anonymously.

Examples:
  # Mirror an organization into ./golang
  orgclone golang

  # Bare mirrors, no forks, four at a time
  orgclone golang --bare --skip-forks --parallel 4

  # Preview what a run would do
  orgclone list golang

  # JSON logs for scripting
  orgclone golang --no-tui --json --log-level=debug`,
	Version: application.Version,
	Args:    cobra.ExactArgs(1),
	RunE:    runMirror,
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().String("config", "", "Config file (default <user config dir>/orgclone/config.yaml)")
	rootCmd.PersistentFlags().String("token", "", "GitHub personal access token (overrides GITHUB_TOKEN env var)")
	rootCmd.PersistentFlags().String("api-url", "", "GitHub API root, e.g. https://ghe.example.com/api/v3/")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().Bool("json", false, "Output logs in JSON format")

	addMirrorFlags(rootCmd)
}
