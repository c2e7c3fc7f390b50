package gitrepo

import (
	"errors"
	"io/fs"
	"os"

	"github.com/inovacc/orgclone/internal/model"
)

// Verdict is the state of a mirror path before syncing.
type Verdict int

const (
	// Absent means nothing exists at the path.
	Absent Verdict = iota + 1
	// ValidMatch means the path is a repository whose origin matches.
	ValidMatch
	// Invalid means something exists at the path that is not the expected mirror.
	Invalid
)

func (v Verdict) String() string {
	switch v {
	case Absent:
		return "absent"
	case ValidMatch:
		return "valid"
	case Invalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// ProbeResult is the outcome of Probe. Repo is set only for ValidMatch;
// Reason explains an Invalid verdict.
type ProbeResult struct {
	Verdict Verdict
	Repo    *Repository
	Reason  error
}

// Probe decides whether path holds a valid mirror of meta.
func Probe(meta model.RepositoryMetadata, path string) ProbeResult {
	if _, err := os.Lstat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ProbeResult{Verdict: Absent}
		}

		return ProbeResult{Verdict: Invalid, Reason: err}
	}

	repo, err := Open(meta, path)
	if err != nil {
		return ProbeResult{Verdict: Invalid, Reason: err}
	}

	return ProbeResult{Verdict: ValidMatch, Repo: repo}
}
