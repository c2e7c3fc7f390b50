package gitrepo

import (
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Analysis is the relation between the local branch and a fetched tip.
type Analysis int

const (
	// UpToDate: the tip is already contained in the local branch.
	UpToDate Analysis = iota + 1
	// FastForward: the local branch is an ancestor of the tip.
	FastForward
	// Unborn: the local branch does not exist yet.
	Unborn
	// Diverged: both sides have commits the other lacks.
	Diverged
)

func (a Analysis) String() string {
	switch a {
	case UpToDate:
		return "up-to-date"
	case FastForward:
		return "fast-forward"
	case Unborn:
		return "unborn"
	case Diverged:
		return "diverged"
	default:
		return "unknown"
	}
}

// MergeResult reports what Merge did.
type MergeResult struct {
	Analysis Analysis
	Head     plumbing.Hash // local branch tip after the merge
	Detail   string
}

// Analyze compares refs/heads/<tip.Branch> with the fetched tip.
func (r *Repository) Analyze(tip *Tip) (Analysis, plumbing.Hash, error) {
	local, err := r.repo.Reference(plumbing.NewBranchReferenceName(tip.Branch), true)
	if isNotFound(err) {
		return Unborn, plumbing.ZeroHash, nil
	}

	if err != nil {
		return 0, plumbing.ZeroHash, fmt.Errorf("resolve branch %s: %w", tip.Branch, err)
	}

	if local.Hash() == tip.Hash {
		return UpToDate, local.Hash(), nil
	}

	ours, err := r.repo.CommitObject(local.Hash())
	if err != nil {
		return 0, local.Hash(), fmt.Errorf("load local commit: %w", err)
	}

	theirs, err := r.repo.CommitObject(tip.Hash)
	if err != nil {
		return 0, local.Hash(), fmt.Errorf("load fetched commit: %w", err)
	}

	if ok, err := ours.IsAncestor(theirs); err != nil {
		return 0, local.Hash(), fmt.Errorf("ancestry check: %w", err)
	} else if ok {
		return FastForward, local.Hash(), nil
	}

	if ok, err := theirs.IsAncestor(ours); err != nil {
		return 0, local.Hash(), fmt.Errorf("ancestry check: %w", err)
	} else if ok {
		return UpToDate, local.Hash(), nil
	}

	return Diverged, local.Hash(), nil
}

// Merge applies tip to the local branch, fast-forward only. Bare repositories
// are left alone. Diverged history is reported in the result and not touched;
// it is not an error.
func (r *Repository) Merge(tip *Tip) (*MergeResult, error) {
	if !r.HasWorkingTree() {
		head, err := r.BranchHead(tip.Branch)
		if err != nil && !isNotFound(err) {
			return nil, err
		}

		return &MergeResult{Analysis: UpToDate, Head: head, Detail: "bare repository"}, nil
	}

	analysis, local, err := r.Analyze(tip)
	if err != nil {
		return nil, err
	}

	switch analysis {
	case UpToDate:
		return &MergeResult{Analysis: analysis, Head: local}, nil

	case FastForward, Unborn:
		if err := r.fastForward(tip); err != nil {
			return nil, err
		}

		return &MergeResult{
			Analysis: analysis,
			Head:     tip.Hash,
			Detail:   fmt.Sprintf("%s..%s", shortHash(local), shortHash(tip.Hash)),
		}, nil

	default:
		return &MergeResult{
			Analysis: Diverged,
			Head:     local,
			Detail: fmt.Sprintf("%s at %s and %s have diverged, merge manually",
				tip.Branch, shortHash(local), tip),
		}, nil
	}
}

// fastForward points refs/heads/<branch> at the tip, makes it the current
// branch and force checks it out. Local edits in the working tree are lost.
func (r *Repository) fastForward(tip *Tip) error {
	branchRef := plumbing.NewBranchReferenceName(tip.Branch)

	if err := r.repo.Storer.SetReference(plumbing.NewHashReference(branchRef, tip.Hash)); err != nil {
		return fmt.Errorf("update %s: %w", branchRef, err)
	}

	if r.currentBranch() != tip.Branch {
		if err := r.repo.Storer.SetReference(plumbing.NewSymbolicReference(plumbing.HEAD, branchRef)); err != nil {
			return fmt.Errorf("set HEAD to %s: %w", branchRef, err)
		}
	}

	wt, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("open worktree: %w", err)
	}

	if err := wt.Checkout(&git.CheckoutOptions{Branch: branchRef, Force: true}); err != nil {
		return fmt.Errorf("checkout %s: %w", tip.Branch, err)
	}

	return nil
}

func shortHash(h plumbing.Hash) string {
	if h.IsZero() {
		return "(none)"
	}

	return h.String()[:7]
}
