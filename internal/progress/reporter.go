package progress

import (
	"fmt"
	"io"
	"sync"
)

// Reporter receives object transfer samples during a network operation.
// Calls may happen zero or more times per operation.
type Reporter interface {
	Progress(received, total int)
}

// Discard is a Reporter that drops every sample.
var Discard Reporter = discard{}

type discard struct{}

func (discard) Progress(int, int) {}

// Percent returns received as a percentage of total, 0 when total is 0.
func Percent(received, total int) int {
	if total <= 0 {
		return 0
	}

	pct := 100 * received / total
	if pct > 100 {
		return 100
	}

	return pct
}

// Sample is one progress observation attributed to a repository.
type Sample struct {
	Repo     string
	Received int
	Total    int
}

// Percent is the sample's completion percentage.
func (s Sample) Percent() int {
	return Percent(s.Received, s.Total)
}

// Sink consumes samples from many repositories.
type Sink interface {
	Sample(s Sample)
}

// Tagged returns a Reporter that forwards to sink with repo attached.
// A nil sink yields Discard.
func Tagged(repo string, sink Sink) Reporter {
	if sink == nil {
		return Discard
	}

	return &tagged{repo: repo, sink: sink}
}

type tagged struct {
	repo string
	sink Sink
}

func (t *tagged) Progress(received, total int) {
	t.sink.Sample(Sample{Repo: t.repo, Received: received, Total: total})
}

// LinePrinter renders samples as a single overwritten line, e.g.
//
//	\r[repo] 45/100 (45%)
type LinePrinter struct {
	w  io.Writer
	mu sync.Mutex
}

// NewLinePrinter creates a LinePrinter writing to w.
func NewLinePrinter(w io.Writer) *LinePrinter {
	return &LinePrinter{w: w}
}

func (p *LinePrinter) Sample(s Sample) {
	p.mu.Lock()
	defer p.mu.Unlock()

	_, _ = fmt.Fprintf(p.w, "\r[%s] %d/%d (%d%%)", s.Repo, s.Received, s.Total, s.Percent())
}
