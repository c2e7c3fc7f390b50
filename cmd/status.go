package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/inovacc/orgclone/internal/model"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status [entity]",
	Short: "Show the last recorded outcome of every mirror",
	Long: `Print the mirror ledger: the outcome, head and time of the last sync of every
mirrored repository, optionally limited to one user or organization.

Examples:
  orgclone status
  orgclone status golang
  orgclone status golang --output json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStatus,
}

var statusOutput string

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().StringVarP(&statusOutput, "output", "o", "text", "Output format: text, json")
}

// statusReport is the JSON form of the status command
type statusReport struct {
	Mirrors []model.MirrorRecord `json:"mirrors"`
	LastRun *model.RunRecord     `json:"last_run,omitempty"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	var entity string
	if len(args) == 1 {
		entity = args[0]
	}

	if statusOutput != "text" && statusOutput != "json" {
		return fmt.Errorf("unknown output format %q", statusOutput)
	}

	cmd.SilenceUsage = true

	ledger, err := openLedger()
	if err != nil {
		return err
	}

	defer func() { _ = ledger.Close() }()

	mirrors, err := ledger.ListMirrors(entity)
	if err != nil {
		return fmt.Errorf("failed to list mirrors: %w", err)
	}

	runs, err := ledger.ListRuns(entity)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	report := statusReport{Mirrors: mirrors}
	if report.Mirrors == nil {
		report.Mirrors = []model.MirrorRecord{}
	}

	if len(runs) > 0 {
		report.LastRun = &runs[len(runs)-1]
	}

	out := cmd.OutOrStdout()

	// JSON output
	if statusOutput == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")

		return enc.Encode(report)
	}

	if len(mirrors) == 0 {
		_, _ = fmt.Fprintln(out, "No mirrors recorded.")
		_, _ = fmt.Fprintln(out, "\nMirror a user or organization with: orgclone <entity>")

		return nil
	}

	if report.LastRun != nil {
		run := report.LastRun
		_, _ = fmt.Fprintf(out, "Last run: %s (%s) %d repositories, %d failed\n\n",
			run.StartedAt.Local().Format(time.DateTime), run.Entity, run.Total, run.Failed)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ENTITY\tNAME\tOUTCOME\tHEAD\tSYNCED\tLAST SUCCESS")

	for _, m := range mirrors {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			m.Entity, m.Name, m.Outcome, shortHead(m.Head), formatTime(m.SyncedAt), formatTime(m.LastSuccessAt))
	}

	return w.Flush()
}

func shortHead(head string) string {
	if len(head) > 7 {
		return head[:7]
	}

	if head == "" {
		return "-"
	}

	return head
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}

	return t.Local().Format(time.DateTime)
}
