package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/transport"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/inovacc/orgclone/internal/model"
	"github.com/inovacc/orgclone/internal/progress"
)

// CloneOptions configures Clone.
type CloneOptions struct {
	Bare     bool
	Progress progress.Reporter
	Auth     transport.AuthMethod
}

// Clone clones meta.CloneURL into path (full history, all tags) and returns
// the bound handle. path must not hold anything yet.
func Clone(ctx context.Context, meta model.RepositoryMetadata, path string, opts CloneOptions) (*Repository, error) {
	if err := ValidateCloneURL(meta.CloneURL); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	repo, err := git.PlainCloneContext(ctx, path, opts.Bare, &git.CloneOptions{
		URL:        meta.CloneURL,
		RemoteName: RemoteName,
		Auth:       opts.Auth,
		Progress:   progress.NewWriter(opts.Progress),
		Tags:       git.AllTags,
	})

	switch {
	case errors.Is(err, transport.ErrEmptyRemoteRepository):
		return initEmpty(meta, path, opts.Bare)
	case err != nil:
		return nil, fmt.Errorf("clone %s: %w", meta.CloneURL, err)
	}

	return &Repository{Meta: meta, Path: path, repo: repo}, nil
}

// initEmpty creates the mirror of a remote without commits so later runs can
// fetch into it.
func initEmpty(meta model.RepositoryMetadata, path string, bare bool) (*Repository, error) {
	repo, err := git.PlainInit(path, bare)
	if err != nil {
		return nil, fmt.Errorf("init %s: %w", path, err)
	}

	if _, err := repo.CreateRemote(&config.RemoteConfig{
		Name: RemoteName,
		URLs: []string{meta.CloneURL},
	}); err != nil {
		return nil, fmt.Errorf("add remote %s: %w", RemoteName, err)
	}

	return &Repository{Meta: meta, Path: path, repo: repo}, nil
}

// ValidateCloneURL rejects URLs without a transport git can use. Bare words
// such as "not-a-url" would otherwise be taken as relative local paths.
func ValidateCloneURL(raw string) error {
	ep, err := transport.NewEndpoint(raw)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrUnsupportedTransport, raw, err)
	}

	switch ep.Protocol {
	case "http", "https", "ssh", "git":
		return nil
	case "file":
		if strings.HasPrefix(raw, "file://") || filepath.IsAbs(raw) {
			return nil
		}
	}

	return fmt.Errorf("%w: %q", ErrUnsupportedTransport, raw)
}

// TokenAuth returns HTTP basic auth carrying token for http(s) clone URLs,
// nil otherwise.
func TokenAuth(cloneURL, token string) transport.AuthMethod {
	if token == "" {
		return nil
	}

	if !strings.HasPrefix(cloneURL, "https://") && !strings.HasPrefix(cloneURL, "http://") {
		return nil
	}

	return &githttp.BasicAuth{Username: "x-access-token", Password: token}
}
