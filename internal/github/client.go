package github

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v82/github"
	"github.com/inovacc/orgclone/internal/application"
	"github.com/inovacc/orgclone/internal/model"
	"golang.org/x/oauth2"
)

// DefaultPerPage is the page size used for repository listings.
const DefaultPerPage = 100

// Options configures a discovery Client.
type Options struct {
	Token      string       // optional; anonymous requests when empty
	BaseURL    string       // API root, defaults to https://api.github.com/
	PerPage    int          // page size, defaults to DefaultPerPage
	Namespaces []Namespace  // resolution order, defaults to DefaultNamespaces()
	HTTPClient *http.Client // base transport
	Logger     *slog.Logger
}

// Client lists repositories through the GitHub REST API.
type Client struct {
	client     *github.Client
	perPage    int
	namespaces []Namespace
	logger     *slog.Logger
}

// NewClient creates a discovery client.
func NewClient(opts Options) (*Client, error) {
	httpClient := opts.HTTPClient

	if opts.Token != "" {
		ctx := context.Background()
		if httpClient != nil {
			ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)
		}

		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token})
		httpClient = oauth2.NewClient(ctx, ts)
	}

	client := github.NewClient(httpClient)
	client.UserAgent = application.UserAgent

	if opts.BaseURL != "" {
		u, err := url.Parse(opts.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid api url %q: %w", opts.BaseURL, err)
		}

		if !strings.HasSuffix(u.Path, "/") {
			u.Path += "/"
		}

		client.BaseURL = u
	}

	perPage := opts.PerPage
	if perPage <= 0 {
		perPage = DefaultPerPage
	}

	namespaces := opts.Namespaces
	if len(namespaces) == 0 {
		namespaces = DefaultNamespaces()
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		client:     client,
		perPage:    perPage,
		namespaces: namespaces,
		logger:     logger,
	}, nil
}

// Discover lists every repository of entity, trying each namespace in order.
// With filterForks set, forks are removed from the result after pagination.
func (c *Client) Discover(ctx context.Context, entity string, filterForks bool) ([]model.RepositoryMetadata, error) {
	var lastErr *DiscoveryError

	for _, ns := range c.namespaces {
		repos, err := c.listAll(ctx, ns, entity)
		if err == nil {
			c.logger.Info("discovered repositories",
				slog.String("entity", entity),
				slog.String("namespace", ns.Name()),
				slog.Int("count", len(repos)),
			)

			if filterForks {
				before := len(repos)
				repos = model.FilterForks(repos)

				c.logger.Debug("filtered forks",
					slog.Int("before", before),
					slog.Int("after", len(repos)),
				)
			}

			return repos, nil
		}

		lastErr = classify(ns.Name(), entity, err)

		// A cancelled run must not fall through to the next namespace.
		if ctx.Err() != nil {
			return nil, lastErr
		}

		c.logger.Debug("namespace lookup failed",
			slog.String("entity", entity),
			slog.String("namespace", ns.Name()),
			slog.String("error", err.Error()),
		)
	}

	if lastErr == nil {
		return nil, &DiscoveryError{Entity: entity, Err: errors.New("no namespaces configured")}
	}

	return nil, lastErr
}

// listAll walks the pages of one namespace until a short page is returned.
func (c *Client) listAll(ctx context.Context, ns Namespace, entity string) ([]model.RepositoryMetadata, error) {
	var all []model.RepositoryMetadata

	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		repos, _, err := ns.ListPage(ctx, c.client, entity, github.ListOptions{
			Page:    page,
			PerPage: c.perPage,
		})
		if err != nil {
			return nil, err
		}

		for _, r := range repos {
			meta := toMetadata(r)
			if err := meta.Validate(); err != nil {
				c.logger.Warn("ignoring repository",
					slog.String("entity", entity),
					slog.String("error", err.Error()),
				)

				continue
			}

			all = append(all, meta)
		}

		c.logger.Debug("fetched page",
			slog.String("namespace", ns.Name()),
			slog.Int("page", page),
			slog.Int("entries", len(repos)),
		)

		if len(repos) < c.perPage {
			return all, nil
		}
	}
}

func toMetadata(r *github.Repository) model.RepositoryMetadata {
	return model.RepositoryMetadata{
		Name:          r.GetName(),
		CloneURL:      r.GetCloneURL(),
		IsFork:        r.GetFork(),
		DefaultBranch: r.GetDefaultBranch(),
	}
}
