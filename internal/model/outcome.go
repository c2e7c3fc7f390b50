package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// Outcome is the final state of one repository after a sync.
type Outcome int

const (
	OutcomeUnknown Outcome = iota
	OutcomeCloned
	OutcomeFastForwarded
	OutcomeUpToDate
	OutcomeUnmergeable
	OutcomeRecloned
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCloned:
		return "cloned"
	case OutcomeFastForwarded:
		return "fast-forwarded"
	case OutcomeUpToDate:
		return "up-to-date"
	case OutcomeUnmergeable:
		return "unmergeable"
	case OutcomeRecloned:
		return "recloned"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ParseOutcome converts the String form back into an Outcome.
func ParseOutcome(s string) Outcome {
	for o := OutcomeCloned; o <= OutcomeFailed; o++ {
		if o.String() == s {
			return o
		}
	}

	return OutcomeUnknown
}

func (o Outcome) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}

func (o *Outcome) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("outcome: %w", err)
	}

	*o = ParseOutcome(s)

	return nil
}

// SyncResult captures what happened to one repository during a run.
type SyncResult struct {
	Repo     RepositoryMetadata
	Path     string
	Outcome  Outcome
	Head     string // commit the local branch points at afterwards, if known
	Detail   string // extra context, e.g. the diverged tips
	Err      error
	Duration time.Duration
	Retries  int
}

// Failed reports whether the result should count as a failure.
// Unmergeable is informational and not a failure.
func (r SyncResult) Failed() bool {
	return r.Outcome == OutcomeFailed
}
