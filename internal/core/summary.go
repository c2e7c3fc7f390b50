package core

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/inovacc/orgclone/internal/model"
)

// Summary is the outcome of one run. Results keep discovery order.
type Summary struct {
	Entity   string
	BaseDir  string
	Results  []model.SyncResult
	Duration time.Duration
}

// Count returns how many repositories ended with outcome o.
func (s *Summary) Count(o model.Outcome) int {
	n := 0

	for _, r := range s.Results {
		if r.Outcome == o {
			n++
		}
	}

	return n
}

// Failures returns the failed results in order.
func (s *Summary) Failures() []model.SyncResult {
	var out []model.SyncResult

	for _, r := range s.Results {
		if r.Failed() {
			out = append(out, r)
		}
	}

	return out
}

// Err is non-nil when at least one repository failed. Unmergeable
// repositories do not count.
func (s *Summary) Err() error {
	if n := len(s.Failures()); n > 0 {
		return fmt.Errorf("%w: %d of %d repositories failed", ErrRunFailed, n, len(s.Results))
	}

	return nil
}

// PrintSummary prints the summary table followed by failed and unmergeable
// repositories.
func PrintSummary(w io.Writer, s *Summary) {
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "═══════════════════════════════════════════════════════════")
	_, _ = fmt.Fprintf(w, "                    Mirror of %s complete\n", s.Entity)
	_, _ = fmt.Fprintln(w, "═══════════════════════════════════════════════════════════")
	_, _ = fmt.Fprintf(w, "  Cloned:         %d\n", s.Count(model.OutcomeCloned))
	_, _ = fmt.Fprintf(w, "  Recloned:       %d\n", s.Count(model.OutcomeRecloned))
	_, _ = fmt.Fprintf(w, "  Fast-forwarded: %d\n", s.Count(model.OutcomeFastForwarded))
	_, _ = fmt.Fprintf(w, "  Up to date:     %d\n", s.Count(model.OutcomeUpToDate))
	_, _ = fmt.Fprintf(w, "  Unmergeable:    %d\n", s.Count(model.OutcomeUnmergeable))
	_, _ = fmt.Fprintf(w, "  Failed:         %d\n", s.Count(model.OutcomeFailed))
	_, _ = fmt.Fprintln(w, "───────────────────────────────────────────────────────────")
	_, _ = fmt.Fprintf(w, "  Total:          %d repositories in %s\n",
		len(s.Results), s.Duration.Round(time.Millisecond))
	_, _ = fmt.Fprintln(w, "═══════════════════════════════════════════════════════════")

	if n := s.Count(model.OutcomeUnmergeable); n > 0 {
		_, _ = fmt.Fprintln(w, "\nUnmergeable repositories (merge manually):")

		for _, r := range s.Results {
			if r.Outcome == model.OutcomeUnmergeable {
				_, _ = fmt.Fprintf(w, "  - %s: %s\n", r.Repo.Name, r.Detail)
			}
		}
	}

	if failures := s.Failures(); len(failures) > 0 {
		_, _ = fmt.Fprintln(w, "\nFailed repositories:")

		for _, r := range failures {
			_, _ = fmt.Fprintf(w, "  - %s: %s\n", r.Repo.Name, truncate(errString(r.Err), 100))
		}
	}
}

// LogSummary logs the final summary after mirroring
func LogSummary(s *Summary, logger *slog.Logger) {
	logger.Info("mirror operation complete",
		slog.String("entity", s.Entity),
		slog.Int("cloned", s.Count(model.OutcomeCloned)),
		slog.Int("recloned", s.Count(model.OutcomeRecloned)),
		slog.Int("fast_forwarded", s.Count(model.OutcomeFastForwarded)),
		slog.Int("up_to_date", s.Count(model.OutcomeUpToDate)),
		slog.Int("unmergeable", s.Count(model.OutcomeUnmergeable)),
		slog.Int("failed", s.Count(model.OutcomeFailed)),
		slog.Duration("duration", s.Duration),
	)

	for _, r := range s.Results {
		switch {
		case r.Failed():
			logger.Error("repository failed",
				slog.String("repo", r.Repo.Name),
				slog.String("path", r.Path),
				slog.String("error", errString(r.Err)),
				slog.Int("retry_count", r.Retries),
			)
		case r.Outcome == model.OutcomeUnmergeable:
			logger.Warn("repository unmergeable",
				slog.String("repo", r.Repo.Name),
				slog.String("detail", r.Detail),
			)
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}

	return s[:n-3] + "..."
}
