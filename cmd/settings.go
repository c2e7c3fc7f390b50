package cmd

import (
	"fmt"
	"log/slog"

	"github.com/inovacc/orgclone/internal/auth"
	"github.com/inovacc/orgclone/internal/config"
	"github.com/inovacc/orgclone/internal/github"
	"github.com/inovacc/orgclone/internal/store"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// configPath returns the --config flag or the default location.
func configPath(cmd *cobra.Command) (string, error) {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		return path, nil
	}

	return config.DefaultPath()
}

// loadSettings loads the config file and applies the flags the user set.
func loadSettings(cmd *cobra.Command) (*config.Config, error) {
	path, err := configPath(cmd)
	if err != nil {
		return nil, err
	}

	cfg, err := config.LoadFromPath(path)
	if err != nil {
		return nil, err
	}

	cmd.Flags().Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "dir":
			cfg.BaseDir = f.Value.String()
		case "bare":
			cfg.Bare, _ = cmd.Flags().GetBool(f.Name)
		case "skip-forks":
			cfg.SkipForks, _ = cmd.Flags().GetBool(f.Name)
		case "parallel":
			cfg.Parallel, _ = cmd.Flags().GetInt(f.Name)
		case "network-retries":
			cfg.NetworkRetries, _ = cmd.Flags().GetInt(f.Name)
		case "api-url":
			cfg.APIURL = f.Value.String()
		case "log-level":
			cfg.LogLevel = f.Value.String()
		case "json":
			cfg.JSON, _ = cmd.Flags().GetBool(f.Name)
		case "no-ledger":
			noLedger, _ := cmd.Flags().GetBool(f.Name)
			cfg.Ledger = !noLedger
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// newDiscoveryClient resolves the token and builds the GitHub client.
func newDiscoveryClient(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) (string, *github.Client, error) {
	flagToken, _ := cmd.Flags().GetString("token")

	// Resolve token from multiple sources
	token, source := auth.ResolveToken(flagToken, auth.HostFromAPIURL(cfg.APIURL))

	logger.Debug("token resolved",
		slog.String("source", string(source)),
	)

	client, err := github.NewClient(github.Options{
		Token:   token,
		BaseURL: cfg.APIURL,
		Logger:  logger,
	})
	if err != nil {
		return "", nil, err
	}

	return token, client, nil
}

func openLedger() (*store.Bolt, error) {
	path, err := store.DefaultPath()
	if err != nil {
		return nil, err
	}

	ledger, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}

	return ledger, nil
}
