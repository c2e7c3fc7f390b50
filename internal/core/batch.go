package core

import (
	"fmt"
	"io"
	"sync"

	"github.com/inovacc/orgclone/internal/model"
	"github.com/inovacc/orgclone/internal/progress"
)

// BatchPrinter is the non-interactive Observer: one line per finished
// repository, plus a live transfer line when Samples is set.
type BatchPrinter struct {
	w       io.Writer
	total   int
	samples progress.Sink

	mu      sync.Mutex
	current int
	pending bool // a progress line without newline is on screen
}

// NewBatchPrinter writes to w. samples may be nil to hide transfer progress.
func NewBatchPrinter(w io.Writer, samples progress.Sink) *BatchPrinter {
	return &BatchPrinter{w: w, samples: samples}
}

func (p *BatchPrinter) RunStarted(entity string, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.total = total
	p.current = 0

	_, _ = fmt.Fprintf(p.w, "Mirroring %d repositories of %s\n", total, entity)
}

func (p *BatchPrinter) RepoStarted(model.RepositoryMetadata, Action) {}

func (p *BatchPrinter) Sample(s progress.Sample) {
	if p.samples == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.pending = true
	p.samples.Sample(s)
}

func (p *BatchPrinter) RepoFinished(result model.SyncResult) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.pending {
		_, _ = fmt.Fprintln(p.w)
		p.pending = false
	}

	p.current++

	pct := 0.0
	if p.total > 0 {
		pct = float64(p.current) / float64(p.total) * 100
	}

	var status, detail string

	switch result.Outcome {
	case model.OutcomeFailed:
		status = "FAIL"
		detail = " - " + truncate(errString(result.Err), 60)
	case model.OutcomeUnmergeable:
		status = "WARN"
		detail = " - " + result.Outcome.String()
	default:
		status = "OK"
		detail = " - " + result.Outcome.String()
	}

	retryInfo := ""
	if result.Retries > 0 {
		retryInfo = fmt.Sprintf(" (retries: %d)", result.Retries)
	}

	_, _ = fmt.Fprintf(p.w, "[%3.0f%%] [%-5s] %-40s%s%s\n", pct, status, result.Repo.Name, detail, retryInfo)
}
