package model

import (
	"errors"
	"fmt"
	"strings"
)

// VCSSuffix is the suffix every mirrorable clone URL carries.
const VCSSuffix = ".git"

// RepositoryMetadata describes a remote repository as reported by the GitHub API.
// It is a value type and never changes after discovery.
type RepositoryMetadata struct {
	// Name is the repository name, unique per entity
	Name string `json:"name"`

	// CloneURL is the HTTPS clone URL (ends with .git)
	CloneURL string `json:"clone_url"`

	// IsFork reports whether the repository is a fork of another repository
	IsFork bool `json:"fork"`

	// DefaultBranch is the branch the API reports as default, if known
	DefaultBranch string `json:"default_branch,omitempty"`
}

var (
	ErrEmptyName       = errors.New("repository name is empty")
	ErrCloneURLSuffix  = errors.New("clone url does not end in " + VCSSuffix)
	ErrCloneURLMissing = errors.New("clone url is empty")
)

// Validate checks the structural invariants of the metadata.
func (m RepositoryMetadata) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return ErrEmptyName
	}

	if m.CloneURL == "" {
		return fmt.Errorf("%s: %w", m.Name, ErrCloneURLMissing)
	}

	if !strings.HasSuffix(m.CloneURL, VCSSuffix) {
		return fmt.Errorf("%s: %w", m.Name, ErrCloneURLSuffix)
	}

	return nil
}

func (m RepositoryMetadata) String() string {
	return m.Name
}

// FilterForks returns the entries that are not forks, preserving order.
func FilterForks(repos []RepositoryMetadata) []RepositoryMetadata {
	out := make([]RepositoryMetadata, 0, len(repos))

	for _, r := range repos {
		if r.IsFork {
			continue
		}

		out = append(out, r)
	}

	return out
}
