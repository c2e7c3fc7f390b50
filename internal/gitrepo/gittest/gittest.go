// Package gittest builds throwaway git repositories for tests.
package gittest

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// RequireGit skips the test when the git binary (used by the local file
// transport) is not installed.
func RequireGit(t *testing.T) {
	t.Helper()

	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed, skipping test")
	}
}

// Source is a non-bare repository that plays the remote in tests.
type Source struct {
	Path string
	Repo *git.Repository
	t    *testing.T
}

// NewSource initialises an empty repository at <dir>/<name>.
func NewSource(t *testing.T, dir, name string) *Source {
	t.Helper()

	path := filepath.Join(dir, name)

	repo, err := git.PlainInit(path, false)
	if err != nil {
		t.Fatalf("init source: %v", err)
	}

	return &Source{Path: path, Repo: repo, t: t}
}

// Commit writes file with content in the source and commits it.
func (s *Source) Commit(file, content string) plumbing.Hash {
	s.t.Helper()

	return Commit(s.t, s.Repo, s.Path, file, content)
}

// Commit writes file with content in the working tree at root and commits it.
func Commit(t *testing.T, repo *git.Repository, root, file, content string) plumbing.Hash {
	t.Helper()

	if err := os.WriteFile(filepath.Join(root, file), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", file, err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("worktree: %v", err)
	}

	if _, err := wt.Add(file); err != nil {
		t.Fatalf("add %s: %v", file, err)
	}

	hash, err := wt.Commit("update "+file, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Mirror Test",
			Email: "mirror@example.com",
			When:  time.Now(),
		},
	})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}

	return hash
}

// ResetHard moves the current branch of the repository at path to hash.
func ResetHard(t *testing.T, path string, hash plumbing.Hash) {
	t.Helper()

	repo, err := git.PlainOpen(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("worktree: %v", err)
	}

	if err := wt.Reset(&git.ResetOptions{Commit: hash, Mode: git.HardReset}); err != nil {
		t.Fatalf("reset: %v", err)
	}
}

// Head returns the commit HEAD of the repository at path resolves to.
func Head(t *testing.T, path string) plumbing.Hash {
	t.Helper()

	repo, err := git.PlainOpen(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}

	ref, err := repo.Head()
	if err != nil {
		t.Fatalf("head: %v", err)
	}

	return ref.Hash()
}

// DeleteOrigin removes the origin remote of the repository at path.
func DeleteOrigin(t *testing.T, path string) {
	t.Helper()

	repo, err := git.PlainOpen(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}

	if err := repo.DeleteRemote("origin"); err != nil {
		t.Fatalf("delete remote: %v", err)
	}
}
