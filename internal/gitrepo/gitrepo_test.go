package gitrepo

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/inovacc/orgclone/internal/gitrepo/gittest"
	"github.com/inovacc/orgclone/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	source *gittest.Source
	meta   model.RepositoryMetadata
	first  plumbing.Hash
	second plumbing.Hash
	dest   string
}

// newFixture creates a source with two commits and a destination path next to it.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	gittest.RequireGit(t)

	dir := t.TempDir()
	src := gittest.NewSource(t, dir, "widget.git")

	f := &fixture{
		source: src,
		meta:   model.RepositoryMetadata{Name: "widget", CloneURL: src.Path},
		dest:   filepath.Join(dir, "mirror", "widget"),
	}

	f.first = src.Commit("README.md", "first\n")
	f.second = src.Commit("README.md", "second\n")

	return f
}

func (f *fixture) clone(t *testing.T, bare bool) *Repository {
	t.Helper()

	repo, err := Clone(context.Background(), f.meta, f.dest, CloneOptions{Bare: bare})
	require.NoError(t, err)

	return repo
}

func fetchAndMerge(t *testing.T, repo *Repository) (*Tip, *MergeResult) {
	t.Helper()

	tip, err := repo.Fetch(context.Background(), FetchOptions{})
	require.NoError(t, err)

	result, err := repo.Merge(tip)
	require.NoError(t, err)

	return tip, result
}

func requireOpenErrorKind(t *testing.T, err error, kind OpenErrorKind) {
	t.Helper()

	var openErr *OpenError
	require.True(t, errors.As(err, &openErr), "expected *OpenError, got %T: %v", err, err)
	assert.Equal(t, kind, openErr.Kind)
}

func TestProbe_Absent(t *testing.T) {
	result := Probe(model.RepositoryMetadata{Name: "x", CloneURL: "https://example.com/x.git"},
		filepath.Join(t.TempDir(), "missing"))

	assert.Equal(t, Absent, result.Verdict)
	assert.Nil(t, result.Repo)
	assert.NoError(t, result.Reason)
}

func TestProbe_PlainDirectoryIsInvalid(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0o644))

	result := Probe(model.RepositoryMetadata{Name: "x", CloneURL: "https://example.com/x.git"}, dir)

	assert.Equal(t, Invalid, result.Verdict)
	requireOpenErrorKind(t, result.Reason, NotARepository)
}

func TestCloneThenProbe_ValidMatch(t *testing.T) {
	f := newFixture(t)
	f.clone(t, false)

	result := Probe(f.meta, f.dest)
	require.Equal(t, ValidMatch, result.Verdict, "reason: %v", result.Reason)
	require.NotNil(t, result.Repo)

	assert.Equal(t, f.meta, result.Repo.Meta)
	assert.True(t, result.Repo.HasWorkingTree())

	head, err := result.Repo.Head()
	require.NoError(t, err)
	assert.Equal(t, f.second, head)

	content, err := os.ReadFile(filepath.Join(f.dest, "README.md"))
	require.NoError(t, err)
	assert.Equal(t, "second\n", string(content))
}

func TestProbe_MissingRemote(t *testing.T) {
	f := newFixture(t)
	f.clone(t, false)

	gittest.DeleteOrigin(t, f.dest)

	result := Probe(f.meta, f.dest)
	assert.Equal(t, Invalid, result.Verdict)
	requireOpenErrorKind(t, result.Reason, MissingRemote)
}

func TestProbe_URLMismatch(t *testing.T) {
	f := newFixture(t)
	f.clone(t, false)

	other := f.meta
	other.CloneURL = "https://github.com/someone/widget.git"

	result := Probe(other, f.dest)
	assert.Equal(t, Invalid, result.Verdict)
	requireOpenErrorKind(t, result.Reason, URLMismatch)

	var openErr *OpenError
	require.ErrorAs(t, result.Reason, &openErr)
	assert.Equal(t, f.meta.CloneURL, openErr.Actual)
	assert.Equal(t, other.CloneURL, openErr.Expected)
	assert.Contains(t, openErr.Error(), "origin url mismatch")
}

func TestClone_Bare(t *testing.T) {
	f := newFixture(t)
	repo := f.clone(t, true)

	assert.False(t, repo.HasWorkingTree())
	assert.NoDirExists(t, filepath.Join(f.dest, ".git"))
	assert.FileExists(t, filepath.Join(f.dest, "HEAD"))
	assert.NoFileExists(t, filepath.Join(f.dest, "README.md"))

	result := Probe(f.meta, f.dest)
	require.Equal(t, ValidMatch, result.Verdict, "reason: %v", result.Reason)
	assert.False(t, result.Repo.HasWorkingTree())
}

func TestClone_EmptyRemote(t *testing.T) {
	gittest.RequireGit(t)

	dir := t.TempDir()
	src := gittest.NewSource(t, dir, "void.git")
	meta := model.RepositoryMetadata{Name: "void", CloneURL: src.Path}
	dest := filepath.Join(dir, "mirror", "void")

	repo, err := Clone(context.Background(), meta, dest, CloneOptions{})
	require.NoError(t, err)
	assert.True(t, repo.HasWorkingTree())

	result := Probe(meta, dest)
	require.Equal(t, ValidMatch, result.Verdict, "reason: %v", result.Reason)

	_, err = repo.Fetch(context.Background(), FetchOptions{})
	assert.ErrorIs(t, err, ErrEmptyRemote)
}

func TestClone_UnsupportedURL(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "bad")
	meta := model.RepositoryMetadata{Name: "bad", CloneURL: "not-a-url"}

	repo, err := Clone(context.Background(), meta, dest, CloneOptions{})
	require.Error(t, err)
	assert.Nil(t, repo)
	assert.ErrorIs(t, err, ErrUnsupportedTransport)
	assert.Contains(t, err.Error(), "unsupported URL protocol")
	assert.NoDirExists(t, dest)
}

func TestValidateCloneURL(t *testing.T) {
	tests := []struct {
		url     string
		wantErr bool
	}{
		{url: "https://github.com/golang/go.git"},
		{url: "http://git.example.com/team/tool.git"},
		{url: "git@github.com:golang/go.git"},
		{url: "ssh://git@github.com/golang/go.git"},
		{url: "git://example.com/project.git"},
		{url: "file:///srv/git/project.git"},
		{url: "/srv/git/project.git"},
		{url: "not-a-url", wantErr: true},
		{url: "relative/path.git", wantErr: true},
		{url: "", wantErr: true},
		{url: "ftp://example.com/project.git", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			err := ValidateCloneURL(tt.url)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedTransport)
				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestTokenAuth(t *testing.T) {
	auth := TokenAuth("https://github.com/golang/go.git", "secret")
	basic, ok := auth.(*githttp.BasicAuth)
	require.True(t, ok)
	assert.Equal(t, "x-access-token", basic.Username)
	assert.Equal(t, "secret", basic.Password)

	assert.Nil(t, TokenAuth("https://github.com/golang/go.git", ""))
	assert.Nil(t, TokenAuth("git@github.com:golang/go.git", "secret"))
}

func TestFetchMerge_UpToDate(t *testing.T) {
	f := newFixture(t)
	repo := f.clone(t, false)

	tip, result := fetchAndMerge(t, repo)

	assert.Equal(t, "master", tip.Branch)
	assert.Equal(t, f.second, tip.Hash)
	assert.Equal(t, UpToDate, result.Analysis)
	assert.Equal(t, f.second, result.Head)
}

func TestFetchMerge_FastForwardRestoresTip(t *testing.T) {
	f := newFixture(t)
	f.clone(t, false)

	gittest.ResetHard(t, f.dest, f.first)
	require.Equal(t, f.first, gittest.Head(t, f.dest))

	repo, err := Open(f.meta, f.dest)
	require.NoError(t, err)

	_, result := fetchAndMerge(t, repo)

	assert.Equal(t, FastForward, result.Analysis)
	assert.Equal(t, f.second, result.Head)
	assert.Equal(t, f.second, gittest.Head(t, f.dest))

	content, err := os.ReadFile(filepath.Join(f.dest, "README.md"))
	require.NoError(t, err)
	assert.Equal(t, "second\n", string(content))
}

func TestFetchMerge_PicksUpNewCommits(t *testing.T) {
	f := newFixture(t)
	repo := f.clone(t, false)

	third := f.source.Commit("CHANGELOG.md", "v1\n")

	tip, result := fetchAndMerge(t, repo)

	assert.Equal(t, third, tip.Hash)
	assert.Equal(t, FastForward, result.Analysis)
	assert.Equal(t, third, gittest.Head(t, f.dest))
	assert.FileExists(t, filepath.Join(f.dest, "CHANGELOG.md"))
}

func TestFetchMerge_LocalAheadIsUpToDate(t *testing.T) {
	f := newFixture(t)
	repo := f.clone(t, false)

	local := gittest.Commit(t, repo.repo, f.dest, "LOCAL.md", "mine\n")

	_, result := fetchAndMerge(t, repo)

	assert.Equal(t, UpToDate, result.Analysis)
	assert.Equal(t, local, gittest.Head(t, f.dest))
}

func TestFetchMerge_DivergedLeavesHeadUntouched(t *testing.T) {
	f := newFixture(t)
	repo := f.clone(t, false)

	upstream := f.source.Commit("UPSTREAM.md", "theirs\n")
	local := gittest.Commit(t, repo.repo, f.dest, "LOCAL.md", "mine\n")

	tip, result := fetchAndMerge(t, repo)

	assert.Equal(t, upstream, tip.Hash)
	assert.Equal(t, Diverged, result.Analysis)
	assert.Equal(t, local, result.Head)
	assert.Contains(t, result.Detail, "diverged")
	assert.Equal(t, local, gittest.Head(t, f.dest))
	assert.NoFileExists(t, filepath.Join(f.dest, "UPSTREAM.md"))
}

func TestMerge_BareIsNoop(t *testing.T) {
	f := newFixture(t)
	repo := f.clone(t, true)

	third := f.source.Commit("CHANGELOG.md", "v1\n")

	tip, result := fetchAndMerge(t, repo)

	assert.Equal(t, third, tip.Hash)
	assert.Equal(t, UpToDate, result.Analysis)
	assert.Equal(t, "bare repository", result.Detail)
	assert.Equal(t, f.second, result.Head, "head must be the local branch, not the fetched tip")

	branch, err := repo.BranchHead("master")
	require.NoError(t, err)
	assert.Equal(t, f.second, branch)
}

func TestMerge_UnbornBranchIsCreated(t *testing.T) {
	f := newFixture(t)

	local, err := git.PlainInit(f.dest, false)
	require.NoError(t, err)

	_, err = local.CreateRemote(&config.RemoteConfig{Name: RemoteName, URLs: []string{f.meta.CloneURL}})
	require.NoError(t, err)

	repo, err := Open(f.meta, f.dest)
	require.NoError(t, err)

	_, result := fetchAndMerge(t, repo)

	assert.Equal(t, Unborn, result.Analysis)
	assert.Equal(t, f.second, result.Head)
	assert.Equal(t, f.second, gittest.Head(t, f.dest))
	assert.FileExists(t, filepath.Join(f.dest, "README.md"))
}

func TestDefaultBranch(t *testing.T) {
	f := newFixture(t)
	repo := f.clone(t, false)
	ctx := context.Background()

	assert.Equal(t, "master", repo.DefaultBranch(ctx, nil))

	repo.Meta.DefaultBranch = "main"
	assert.Equal(t, "main", repo.DefaultBranch(ctx, nil))
}

func TestFetch_UnknownBranch(t *testing.T) {
	f := newFixture(t)
	repo := f.clone(t, false)

	_, err := repo.Fetch(context.Background(), FetchOptions{Branch: "does-not-exist"})
	assert.Error(t, err)
}

func TestOpenErrorKind_String(t *testing.T) {
	assert.Equal(t, "not a repository", NotARepository.String())
	assert.Equal(t, "missing origin remote", MissingRemote.String())
	assert.Equal(t, "origin url mismatch", URLMismatch.String())
	assert.Equal(t, "unknown", OpenErrorKind(0).String())

	assert.Equal(t, "absent", Absent.String())
	assert.Equal(t, "valid", ValidMatch.String())
	assert.Equal(t, "invalid", Invalid.String())
	assert.Equal(t, "diverged", Diverged.String())
}
