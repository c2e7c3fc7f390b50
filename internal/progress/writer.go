package progress

import (
	"bytes"
	"io"
	"regexp"
	"strconv"
	"strings"
	"sync"
)

var fractionRe = regexp.MustCompile(`^(?:remote:\s*)?([A-Za-z ]+):\s+\d+%\s+\((\d+)/(\d+)\)`)

// Writer parses git sideband progress text and reports the object counts.
// Each phase ("Counting objects", "Compressing objects", ...) is an operation
// of its own; within a phase only non-decreasing counts are forwarded.
type Writer struct {
	reporter Reporter

	mu       sync.Mutex
	buf      bytes.Buffer
	phase    string
	received int
}

var _ io.Writer = (*Writer)(nil)

// NewWriter returns a Writer forwarding to r. A nil r is treated as Discard.
func NewWriter(r Reporter) *Writer {
	if r == nil {
		r = Discard
	}

	return &Writer{reporter: r}
}

func (w *Writer) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf.Write(p)

	for {
		data := w.buf.Bytes()

		idx := bytes.IndexAny(data, "\r\n")
		if idx < 0 {
			break
		}

		line := string(data[:idx])
		w.buf.Next(idx + 1)
		w.parseLine(line)
	}

	return len(p), nil
}

func (w *Writer) parseLine(line string) {
	m := fractionRe.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return
	}

	received, err := strconv.Atoi(m[2])
	if err != nil {
		return
	}

	total, err := strconv.Atoi(m[3])
	if err != nil {
		return
	}

	phase := strings.TrimSpace(m[1])
	if phase != w.phase {
		w.phase = phase
		w.received = 0
	}

	if received < w.received {
		return
	}

	w.received = received
	w.reporter.Progress(received, total)
}
