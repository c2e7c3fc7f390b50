package gitrepo

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedTransport is returned for clone URLs git cannot reach.
	ErrUnsupportedTransport = errors.New("unsupported URL protocol")

	// ErrEmptyRemote is returned by Fetch when origin has no commits yet.
	ErrEmptyRemote = errors.New("remote repository is empty")
)

// OpenErrorKind is why a path could not be opened as the expected mirror.
type OpenErrorKind int

const (
	NotARepository OpenErrorKind = iota + 1
	MissingRemote
	URLMismatch
)

func (k OpenErrorKind) String() string {
	switch k {
	case NotARepository:
		return "not a repository"
	case MissingRemote:
		return "missing origin remote"
	case URLMismatch:
		return "origin url mismatch"
	default:
		return "unknown"
	}
}

// OpenError is returned by Open when a path is not a valid mirror of the metadata.
type OpenError struct {
	Kind     OpenErrorKind
	Path     string
	Expected string
	Actual   string
	Err      error
}

func (e *OpenError) Error() string {
	switch e.Kind {
	case URLMismatch:
		return fmt.Sprintf("%s: %s: found %q, expected %q", e.Path, e.Kind, e.Actual, e.Expected)
	default:
		if e.Err != nil {
			return fmt.Sprintf("%s: %s: %v", e.Path, e.Kind, e.Err)
		}

		return fmt.Sprintf("%s: %s", e.Path, e.Kind)
	}
}

func (e *OpenError) Unwrap() error {
	return e.Err
}
