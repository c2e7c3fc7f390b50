package core

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidEntityName is returned for names that cannot be used as a directory.
	ErrInvalidEntityName = errors.New("invalid name")

	// ErrDiverged marks an Unmergeable result: local and remote history split.
	ErrDiverged = errors.New("local and remote history have diverged")

	// ErrRunFailed is returned by Summary.Err when any repository failed.
	ErrRunFailed = errors.New("mirror run failed")
)

// SyncErrorKind categorizes a per-repository failure
type SyncErrorKind int

const (
	CloneFailed SyncErrorKind = iota + 1
	FetchFailed
	MergeUnsupported
	MergeFailed
	FilesystemError
)

func (k SyncErrorKind) String() string {
	switch k {
	case CloneFailed:
		return "clone failed"
	case FetchFailed:
		return "fetch failed"
	case MergeUnsupported:
		return "merge unsupported"
	case MergeFailed:
		return "merge failed"
	case FilesystemError:
		return "filesystem error"
	}
	return "unknown"
}

// SyncError is a failure scoped to one repository. It never aborts the run.
type SyncError struct {
	Kind SyncErrorKind
	Repo string
	Err  error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Repo, e.Kind, e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

// NetworkError wraps transient network failures
type NetworkError struct {
	Operation string
	Err       error
	Attempts  int
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s failed after %d attempts: %v",
		e.Operation, e.Attempts, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
