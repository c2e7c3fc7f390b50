package cmd

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/inovacc/orgclone/internal/config"
	"github.com/inovacc/orgclone/internal/core"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list <entity>",
	Short: "Show what a mirror run would do without touching disk",
	Long: `Discover the repositories of a GitHub user or organization and print, for
each one, whether a run would clone, update or delete and clone it again.

Examples:
  orgclone list golang
  orgclone list golang --skip-forks --dir /srv/mirrors`,
	Aliases: []string{"ls", "plan"},
	Args:    cobra.ExactArgs(1),
	RunE:    runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().String("dir", config.DefaultBaseDir, "Base directory; mirrors go to <dir>/<entity>/<name>")
	listCmd.Flags().Bool("skip-forks", false, "Skip forked repositories")
}

func runList(cmd *cobra.Command, args []string) error {
	entity := args[0]

	if err := core.ValidateEntityName(entity); err != nil {
		return err
	}

	cmd.SilenceUsage = true

	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.LogLevel, cfg.JSON, cmd.OutOrStdout(), cmd.ErrOrStderr())

	_, client, err := newDiscoveryClient(cmd, cfg, logger)
	if err != nil {
		return err
	}

	baseDir, err := filepath.Abs(cfg.BaseDir)
	if err != nil {
		return fmt.Errorf("invalid base directory: %w", err)
	}

	engine, err := core.NewEngine(core.Options{
		BaseDir:        baseDir,
		Parallel:       cfg.Parallel,
		NetworkRetries: cfg.NetworkRetries,
		Logger:         logger,
	})
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Fetching repositories of '%s'...\n", entity)

	repos, err := client.Discover(cmd.Context(), entity, cfg.SkipForks)
	if err != nil {
		return fmt.Errorf("discover %s: %w", entity, err)
	}

	plan := engine.Plan(entity, repos)

	core.PrintPlan(cmd.OutOrStdout(), entity, baseDir, plan)

	if cfg.JSON {
		for _, p := range plan {
			logger.Info("planned action",
				slog.String("repo", p.Repo.Name),
				slog.String("action", p.Action.String()),
				slog.String("path", p.Path),
				slog.String("reason", p.Reason),
				slog.Bool("fork", p.Repo.IsFork),
			)
		}
	}

	return nil
}
