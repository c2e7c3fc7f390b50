package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/inovacc/orgclone/internal/cli"
	"github.com/inovacc/orgclone/internal/config"
	"github.com/inovacc/orgclone/internal/core"
	"github.com/inovacc/orgclone/internal/progress"
	"github.com/inovacc/orgclone/internal/store"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func runMirror(cmd *cobra.Command, args []string) error {
	entity := args[0]

	// Validate entity name
	if err := core.ValidateEntityName(entity); err != nil {
		return err
	}

	cmd.SilenceUsage = true

	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	noTUI, _ := cmd.Flags().GetBool("no-tui")
	out := cmd.OutOrStdout()
	useTUI := !noTUI && !cfg.JSON && isTerminal(out)

	// Setup logger; the TUI owns the terminal while it runs
	logger := setupLogger(cfg.LogLevel, cfg.JSON, out, cmd.ErrOrStderr())
	engineLogger := logger

	if useTUI {
		engineLogger = slog.New(slog.DiscardHandler)
	}

	token, client, err := newDiscoveryClient(cmd, cfg, engineLogger)
	if err != nil {
		return err
	}

	baseDir, err := filepath.Abs(cfg.BaseDir)
	if err != nil {
		return fmt.Errorf("invalid base directory: %w", err)
	}

	opts := core.Options{
		BaseDir:        baseDir,
		Bare:           cfg.Bare,
		FilterForks:    cfg.SkipForks,
		Parallel:       cfg.Parallel,
		NetworkRetries: cfg.NetworkRetries,
		Token:          token,
		Logger:         engineLogger,
	}

	var recorder *store.RunRecorder

	if cfg.Ledger {
		ledger, err := openLedger()
		if err != nil {
			return err
		}

		defer func() { _ = ledger.Close() }()

		recorder = store.NewRunRecorder(ledger, entity)
		opts.Recorder = recorder
	}

	logger.Info("starting mirror operation",
		slog.String("entity", entity),
		slog.String("base_dir", baseDir),
		slog.Int("parallel", cfg.Parallel),
		slog.Bool("bare", cfg.Bare),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var summary *core.Summary

	if useTUI {
		summary, err = mirrorWithTUI(ctx, opts, client, entity)
	} else {
		summary, err = mirrorBatch(ctx, opts, client, entity, out, cfg.Parallel == 1 && isTerminal(out))
	}

	if err != nil {
		return err
	}

	if recorder != nil {
		if run, err := recorder.Finish(); err != nil {
			logger.Warn("failed to save run", slog.String("error", err.Error()))
		} else {
			logger.Debug("run recorded", slog.String("run_id", run.ID))
		}
	}

	if len(summary.Results) == 0 {
		logger.Warn("no repositories found to mirror", slog.String("entity", entity))
		_, _ = fmt.Fprintln(out, "\nNo repositories found to mirror.")

		return nil
	}

	core.PrintSummary(out, summary)

	if cfg.JSON {
		core.LogSummary(summary, logger)
	}

	return summary.Err()
}

// mirrorBatch runs the mirror operation without TUI
func mirrorBatch(ctx context.Context, opts core.Options, d core.Discoverer, entity string, out io.Writer, showProgress bool) (*core.Summary, error) {
	var samples progress.Sink
	if showProgress {
		samples = progress.NewLinePrinter(out)
	}

	opts.Observer = core.NewBatchPrinter(out, samples)

	engine, err := core.NewEngine(opts)
	if err != nil {
		return nil, err
	}

	return engine.Mirror(ctx, d, entity)
}

// mirrorWithTUI runs the engine in the background and renders it with bubbletea
func mirrorWithTUI(ctx context.Context, opts core.Options, d core.Discoverer, entity string) (*core.Summary, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := cli.NewMirrorModel(entity, cancel)
	p := tea.NewProgram(m)

	opts.Observer = cli.NewProgramObserver(p)

	engine, err := core.NewEngine(opts)
	if err != nil {
		return nil, err
	}

	go func() {
		summary, err := engine.Mirror(ctx, d, entity)
		p.Send(cli.RunDone(summary, err))
	}()

	finalModel, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("UI error: %w", err)
	}

	mirrorModel := finalModel.(*cli.MirrorModel)
	if mirrorModel.Error() != nil {
		return nil, mirrorModel.Error()
	}

	return mirrorModel.Summary(), nil
}

// addMirrorFlags adds the mirror flags to a command
func addMirrorFlags(cmd *cobra.Command) {
	// Layout
	cmd.Flags().String("dir", config.DefaultBaseDir, "Base directory; mirrors go to <dir>/<entity>/<name>")
	cmd.Flags().Bool("bare", false, "Create bare Git repositories")

	// Filtering
	cmd.Flags().Bool("skip-forks", false, "Skip forked repositories")

	// Operation mode
	cmd.Flags().Bool("no-tui", false, "Run without interactive TUI (for scripts/CI)")
	cmd.Flags().Bool("no-ledger", false, "Do not record outcomes in the ledger")

	// Performance
	cmd.Flags().Int("parallel", config.DefaultParallel, "Number of concurrent operations (1-10)")

	// Error recovery
	cmd.Flags().Int("network-retries", config.DefaultNetworkRetries, "Max git network attempts per clone or fetch (1-10)")
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
