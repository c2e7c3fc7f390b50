package core

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/inovacc/orgclone/internal/gitrepo"
	"github.com/inovacc/orgclone/internal/model"
	"github.com/inovacc/orgclone/internal/progress"
)

// Action is what the engine does with a repository after probing its path.
type Action int

const (
	ActionClone Action = iota + 1
	ActionUpdate
	ActionReclone
)

func (a Action) String() string {
	switch a {
	case ActionClone:
		return "clone"
	case ActionUpdate:
		return "update"
	case ActionReclone:
		return "reclone"
	default:
		return "unknown"
	}
}

// actionFor maps a probe verdict to the transition the engine takes.
func actionFor(v gitrepo.Verdict) Action {
	switch v {
	case gitrepo.ValidMatch:
		return ActionUpdate
	case gitrepo.Invalid:
		return ActionReclone
	default:
		return ActionClone
	}
}

// SyncRepository brings the mirror at path in line with meta:
//
//	absent              -> clone                      (Cloned)
//	invalid             -> delete, clone              (Recloned)
//	valid               -> fetch, fast-forward merge  (FastForwarded, UpToDate, Unmergeable)
//
// Failures are returned in the result with a *SyncError and never panic.
func (e *Engine) SyncRepository(ctx context.Context, meta model.RepositoryMetadata, path string) model.SyncResult {
	start := time.Now()

	unlock := e.locks.Lock(path)
	defer unlock()

	logger := e.logger.With(slog.String("repo", meta.Name))
	reporter := progress.Tagged(meta.Name, e.sink())

	probe := gitrepo.Probe(meta, path)
	action := actionFor(probe.Verdict)

	logger.Debug("probed local copy",
		slog.String("path", path),
		slog.String("verdict", probe.Verdict.String()),
	)

	e.started(meta, action)

	var result model.SyncResult

	switch action {
	case ActionReclone:
		logger.Warn("local copy is not a valid mirror, re-cloning",
			slog.String("path", path),
			slog.Any("reason", probe.Reason),
		)

		if err := os.RemoveAll(path); err != nil {
			result = failed(meta, path, FilesystemError, err)
			break
		}

		result = e.clone(ctx, meta, path, reporter, model.OutcomeRecloned)

	case ActionUpdate:
		result = e.update(ctx, probe.Repo, reporter)

	default:
		result = e.clone(ctx, meta, path, reporter, model.OutcomeCloned)
	}

	result.Duration = time.Since(start)

	if result.Failed() {
		logger.Error("repository sync failed",
			slog.String("action", action.String()),
			slog.String("error", errString(result.Err)),
			slog.Int("retries", result.Retries),
		)
	} else {
		logger.Info("repository synced",
			slog.String("outcome", result.Outcome.String()),
			slog.String("head", result.Head),
			slog.Duration("duration", result.Duration),
		)
	}

	e.finish(result)

	return result
}

func (e *Engine) clone(ctx context.Context, meta model.RepositoryMetadata, path string, reporter progress.Reporter, outcome model.Outcome) model.SyncResult {
	var repo *gitrepo.Repository

	retries, err := withNetworkRetry(ctx, "clone", e.opts.NetworkRetries, e.opts.RetryBackoff, func() error {
		var err error

		repo, err = gitrepo.Clone(ctx, meta, path, gitrepo.CloneOptions{
			Bare:     e.opts.Bare,
			Progress: reporter,
			Auth:     gitrepo.TokenAuth(meta.CloneURL, e.opts.Token),
		})
		if err != nil {
			// partial clones would be seen as invalid on the next attempt
			_ = os.RemoveAll(path)
		}

		return err
	})
	if err != nil {
		result := failed(meta, path, CloneFailed, err)
		result.Retries = retries

		return result
	}

	result := model.SyncResult{
		Repo:    meta,
		Path:    path,
		Outcome: outcome,
		Retries: retries,
	}

	// empty remotes have no HEAD yet
	if head, err := repo.Head(); err == nil {
		result.Head = head.String()
	}

	return result
}

func (e *Engine) update(ctx context.Context, repo *gitrepo.Repository, reporter progress.Reporter) model.SyncResult {
	meta := repo.Meta

	var tip *gitrepo.Tip

	retries, err := withNetworkRetry(ctx, "fetch", e.opts.NetworkRetries, e.opts.RetryBackoff, func() error {
		var err error

		tip, err = repo.Fetch(ctx, gitrepo.FetchOptions{
			Progress: reporter,
			Auth:     gitrepo.TokenAuth(meta.CloneURL, e.opts.Token),
		})

		return err
	})

	switch {
	case errors.Is(err, gitrepo.ErrEmptyRemote):
		return model.SyncResult{
			Repo:    meta,
			Path:    repo.Path,
			Outcome: model.OutcomeUpToDate,
			Detail:  "remote has no commits",
			Retries: retries,
		}
	case err != nil:
		result := failed(meta, repo.Path, FetchFailed, err)
		result.Retries = retries

		return result
	}

	merged, err := repo.Merge(tip)
	if err != nil {
		result := failed(meta, repo.Path, MergeFailed, err)
		result.Retries = retries

		return result
	}

	result := model.SyncResult{
		Repo:    meta,
		Path:    repo.Path,
		Detail:  merged.Detail,
		Retries: retries,
	}

	if !merged.Head.IsZero() {
		result.Head = merged.Head.String()
	}

	switch merged.Analysis {
	case gitrepo.FastForward, gitrepo.Unborn:
		result.Outcome = model.OutcomeFastForwarded
	case gitrepo.Diverged:
		result.Outcome = model.OutcomeUnmergeable
		result.Err = &SyncError{Kind: MergeUnsupported, Repo: meta.Name, Err: ErrDiverged}
	default:
		result.Outcome = model.OutcomeUpToDate
	}

	return result
}

func failed(meta model.RepositoryMetadata, path string, kind SyncErrorKind, err error) model.SyncResult {
	return model.SyncResult{
		Repo:    meta,
		Path:    path,
		Outcome: model.OutcomeFailed,
		Err:     &SyncError{Kind: kind, Repo: meta.Name, Err: err},
	}
}

func errString(err error) string {
	if err == nil {
		return "unknown error"
	}

	return err.Error()
}
