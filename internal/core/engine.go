package core

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/inovacc/orgclone/internal/model"
	"github.com/inovacc/orgclone/internal/progress"
)

const (
	// MaxParallel bounds the worker pool.
	MaxParallel = 10
	// MaxNetworkRetries bounds clone and fetch attempts.
	MaxNetworkRetries = 10
)

// Discoverer lists the repositories of a user or organization.
type Discoverer interface {
	Discover(ctx context.Context, entity string, filterForks bool) ([]model.RepositoryMetadata, error)
}

// Observer follows a run. Sample receives transfer progress tagged with the
// repository name. Implementations must be safe for concurrent use.
type Observer interface {
	progress.Sink
	RunStarted(entity string, total int)
	RepoStarted(repo model.RepositoryMetadata, action Action)
	RepoFinished(result model.SyncResult)
}

// Recorder persists results, e.g. into the mirror ledger.
type Recorder interface {
	Record(result model.SyncResult) error
}

// Options configures an Engine
type Options struct {
	BaseDir        string      // mirrors live under BaseDir/<entity>/<name>
	Bare           bool        // clone without working trees
	FilterForks    bool        // drop forks after discovery
	Parallel       int         // worker count, default 1
	NetworkRetries int         // clone/fetch attempts, default 1
	RetryBackoff   BackoffFunc // default ExponentialBackoff
	Token          string      // optional HTTP auth for clone and fetch
	Logger         *slog.Logger
	Observer       Observer
	Recorder       Recorder
}

// Validate bounds-checks the options after defaults are applied.
func (o Options) Validate() error {
	if o.BaseDir == "" {
		return fmt.Errorf("base directory cannot be empty")
	}

	if o.Parallel < 1 || o.Parallel > MaxParallel {
		return fmt.Errorf("parallel must be between 1 and %d, got %d", MaxParallel, o.Parallel)
	}

	if o.NetworkRetries < 1 || o.NetworkRetries > MaxNetworkRetries {
		return fmt.Errorf("network retries must be between 1 and %d, got %d", MaxNetworkRetries, o.NetworkRetries)
	}

	return nil
}

// Engine mirrors repositories to disk. It holds no global state and is safe
// for concurrent use; work on the same path is serialized.
type Engine struct {
	opts   Options
	logger *slog.Logger
	locks  *pathLocks
}

// NewEngine applies defaults to opts and validates them.
func NewEngine(opts Options) (*Engine, error) {
	if opts.Parallel == 0 {
		opts.Parallel = 1
	}

	if opts.NetworkRetries == 0 {
		opts.NetworkRetries = 1
	}

	if opts.RetryBackoff == nil {
		opts.RetryBackoff = ExponentialBackoff
	}

	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	if err := opts.Validate(); err != nil {
		return nil, err
	}

	return &Engine{
		opts:   opts,
		logger: opts.Logger,
		locks:  newPathLocks(),
	}, nil
}

// PathFor returns where the mirror of name owned by entity lives.
func (e *Engine) PathFor(entity, name string) string {
	return filepath.Join(e.opts.BaseDir, entity, name)
}

// Mirror discovers every repository of entity and syncs them all.
// Discovery errors abort the run; per-repository errors are in the summary.
func (e *Engine) Mirror(ctx context.Context, d Discoverer, entity string) (*Summary, error) {
	if err := ValidateEntityName(entity); err != nil {
		return nil, err
	}

	e.logger.Info("discovering repositories",
		slog.String("entity", entity),
		slog.Bool("skip_forks", e.opts.FilterForks),
	)

	repos, err := d.Discover(ctx, entity, e.opts.FilterForks)
	if err != nil {
		return nil, fmt.Errorf("discover %s: %w", entity, err)
	}

	e.logger.Info("discovered repositories",
		slog.String("entity", entity),
		slog.Int("count", len(repos)),
	)

	return e.Run(ctx, entity, repos), nil
}

// Run syncs repos with a bounded worker pool. Results keep the order of
// repos. Once ctx is done no new repository starts; the unscheduled ones
// are reported as failed with the context error.
func (e *Engine) Run(ctx context.Context, entity string, repos []model.RepositoryMetadata) *Summary {
	start := time.Now()

	total := len(repos)
	results := make([]model.SyncResult, total)

	if e.opts.Observer != nil {
		e.opts.Observer.RunStarted(entity, total)
	}

	type job struct {
		index int
		repo  model.RepositoryMetadata
	}

	// Work queue
	workQueue := make(chan job)

	var wg sync.WaitGroup

	// Spawn workers
	for i := 0; i < min(e.opts.Parallel, max(total, 1)); i++ {
		wg.Go(func() {
			for j := range workQueue {
				result := e.syncOne(ctx, entity, j.repo)
				e.record(result)
				results[j.index] = result
			}
		})
	}

	// Queue work
	scheduled := 0

queue:
	for ; scheduled < total; scheduled++ {
		select {
		case <-ctx.Done():
			break queue
		case workQueue <- job{index: scheduled, repo: repos[scheduled]}:
		}
	}

	close(workQueue)

	// Wait for completion
	wg.Wait()

	for i := scheduled; i < total; i++ {
		results[i] = e.cancelled(ctx, repos[i], e.PathFor(entity, repos[i].Name))
		e.record(results[i])
	}

	return &Summary{
		Entity:   entity,
		BaseDir:  e.opts.BaseDir,
		Results:  results,
		Duration: time.Since(start),
	}
}

// syncOne guards the path derived from an API-provided name before syncing.
func (e *Engine) syncOne(ctx context.Context, entity string, repo model.RepositoryMetadata) model.SyncResult {
	path := e.PathFor(entity, repo.Name)

	if err := ctx.Err(); err != nil {
		return e.cancelled(ctx, repo, path)
	}

	if err := ValidateEntityName(repo.Name); err != nil {
		result := model.SyncResult{
			Repo:    repo,
			Path:    path,
			Outcome: model.OutcomeFailed,
			Err:     &SyncError{Kind: FilesystemError, Repo: repo.Name, Err: err},
		}
		e.finish(result)

		return result
	}

	return e.SyncRepository(ctx, repo, path)
}

func (e *Engine) cancelled(ctx context.Context, repo model.RepositoryMetadata, path string) model.SyncResult {
	result := model.SyncResult{
		Repo:    repo,
		Path:    path,
		Outcome: model.OutcomeFailed,
		Err:     ctx.Err(),
	}
	e.finish(result)

	return result
}

func (e *Engine) record(result model.SyncResult) {
	if e.opts.Recorder == nil {
		return
	}

	if err := e.opts.Recorder.Record(result); err != nil {
		e.logger.Warn("failed to record result",
			slog.String("repo", result.Repo.Name),
			slog.String("error", err.Error()),
		)
	}
}

// sink returns the observer as a progress.Sink, nil when there is none.
func (e *Engine) sink() progress.Sink {
	if e.opts.Observer == nil {
		return nil
	}

	return e.opts.Observer
}

func (e *Engine) started(repo model.RepositoryMetadata, action Action) {
	if e.opts.Observer != nil {
		e.opts.Observer.RepoStarted(repo, action)
	}
}

func (e *Engine) finish(result model.SyncResult) {
	if e.opts.Observer != nil {
		e.opts.Observer.RepoFinished(result)
	}
}

// ValidateEntityName rejects names that would escape the base directory.
func ValidateEntityName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidEntityName)
	}

	// Check for path traversal attempts
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q contains illegal characters", ErrInvalidEntityName, name)
	}

	return nil
}
