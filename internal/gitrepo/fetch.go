package gitrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/inovacc/orgclone/internal/progress"
)

// FallbackBranch is fetched when no other source names a default branch.
const FallbackBranch = "master"

// FetchOptions configures Fetch. An empty Branch means the default branch.
type FetchOptions struct {
	Branch   string
	Progress progress.Reporter
	Auth     transport.AuthMethod
}

// Tip is the fetched head of a remote branch, the input to Merge.
type Tip struct {
	Branch string
	Hash   plumbing.Hash
}

func (t Tip) String() string {
	return fmt.Sprintf("%s/%s@%s", RemoteName, t.Branch, shortHash(t.Hash))
}

// Fetch downloads the branch from origin with every tag and returns its tip.
// The fetch is never shallow.
func (r *Repository) Fetch(ctx context.Context, opts FetchOptions) (*Tip, error) {
	branch := opts.Branch
	if branch == "" {
		branch = r.DefaultBranch(ctx, opts.Auth)
	}

	remoteRef := plumbing.NewRemoteReferenceName(RemoteName, branch)
	refSpec := config.RefSpec(fmt.Sprintf("+%s:%s", plumbing.NewBranchReferenceName(branch), remoteRef))

	err := r.repo.FetchContext(ctx, &git.FetchOptions{
		RemoteName: RemoteName,
		RefSpecs:   []config.RefSpec{refSpec},
		Tags:       git.AllTags,
		Auth:       opts.Auth,
		Progress:   progress.NewWriter(opts.Progress),
	})

	switch {
	case errors.Is(err, transport.ErrEmptyRemoteRepository):
		return nil, ErrEmptyRemote
	case err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate):
		return nil, fmt.Errorf("fetch %s from %s: %w", branch, RemoteName, err)
	}

	ref, err := r.repo.Reference(remoteRef, true)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", remoteRef, err)
	}

	return &Tip{Branch: branch, Hash: ref.Hash()}, nil
}

// DefaultBranch picks the branch to mirror: the API's default branch, else the
// branch origin's HEAD points at, else the local HEAD branch, else master.
func (r *Repository) DefaultBranch(ctx context.Context, auth transport.AuthMethod) string {
	if r.Meta.DefaultBranch != "" {
		return r.Meta.DefaultBranch
	}

	if branch, err := r.remoteHead(ctx, auth); err == nil && branch != "" {
		return branch
	}

	if branch := r.currentBranch(); branch != "" {
		return branch
	}

	return FallbackBranch
}

func (r *Repository) remoteHead(ctx context.Context, auth transport.AuthMethod) (string, error) {
	remote, err := r.repo.Remote(RemoteName)
	if err != nil {
		return "", err
	}

	refs, err := remote.ListContext(ctx, &git.ListOptions{Auth: auth})
	if err != nil {
		return "", err
	}

	for _, ref := range refs {
		if ref.Name() == plumbing.HEAD && ref.Type() == plumbing.SymbolicReference && ref.Target().IsBranch() {
			return ref.Target().Short(), nil
		}
	}

	return "", nil
}
