package gitrepo

import (
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/inovacc/orgclone/internal/model"
)

// RemoteName is the remote every mirror fetches from.
const RemoteName = "origin"

// Repository is an opened local mirror bound to its metadata.
type Repository struct {
	Meta model.RepositoryMetadata
	Path string

	repo *git.Repository
}

// Open opens path and verifies it mirrors meta: it must be a repository whose
// origin remote URL equals meta.CloneURL. Failures are *OpenError.
func Open(meta model.RepositoryMetadata, path string) (*Repository, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return nil, &OpenError{Kind: NotARepository, Path: path, Err: err}
	}

	remote, err := repo.Remote(RemoteName)
	if err != nil {
		return nil, &OpenError{Kind: MissingRemote, Path: path, Err: err}
	}

	var actual string
	if urls := remote.Config().URLs; len(urls) > 0 {
		actual = urls[0]
	}

	if actual != meta.CloneURL {
		return nil, &OpenError{
			Kind:     URLMismatch,
			Path:     path,
			Expected: meta.CloneURL,
			Actual:   actual,
		}
	}

	return &Repository{Meta: meta, Path: path, repo: repo}, nil
}

// HasWorkingTree reports whether the repository has a checked out tree.
// Bare mirrors return false.
func (r *Repository) HasWorkingTree() bool {
	_, err := r.repo.Worktree()
	return err == nil
}

// Head returns the commit HEAD resolves to.
func (r *Repository) Head() (plumbing.Hash, error) {
	ref, err := r.repo.Head()
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("resolve HEAD: %w", err)
	}

	return ref.Hash(), nil
}

// BranchHead returns the commit refs/heads/<branch> points at.
func (r *Repository) BranchHead(branch string) (plumbing.Hash, error) {
	ref, err := r.repo.Reference(plumbing.NewBranchReferenceName(branch), true)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("resolve branch %s: %w", branch, err)
	}

	return ref.Hash(), nil
}

// currentBranch returns the branch HEAD points at, or "" when HEAD is detached.
func (r *Repository) currentBranch() string {
	ref, err := r.repo.Storer.Reference(plumbing.HEAD)
	if err != nil {
		return ""
	}

	if ref.Type() != plumbing.SymbolicReference || !ref.Target().IsBranch() {
		return ""
	}

	return ref.Target().Short()
}

func isNotFound(err error) bool {
	return errors.Is(err, plumbing.ErrReferenceNotFound)
}
