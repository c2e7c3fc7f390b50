package github

import (
	"context"

	"github.com/google/go-github/v82/github"
)

// Namespace is one kind of GitHub account an entity name may refer to.
type Namespace interface {
	// Name is the URL segment of the namespace ("users", "orgs")
	Name() string

	// ListPage fetches a single page of the entity's repositories.
	ListPage(ctx context.Context, client *github.Client, entity string, opts github.ListOptions) ([]*github.Repository, *github.Response, error)
}

var (
	// Users resolves the entity as an individual account.
	Users Namespace = userNamespace{}

	// Orgs resolves the entity as an organization.
	Orgs Namespace = orgNamespace{}
)

// DefaultNamespaces is the resolution order used when Options.Namespaces is empty.
func DefaultNamespaces() []Namespace {
	return []Namespace{Users, Orgs}
}

type userNamespace struct{}

func (userNamespace) Name() string { return "users" }

func (userNamespace) ListPage(ctx context.Context, client *github.Client, entity string, opts github.ListOptions) ([]*github.Repository, *github.Response, error) {
	return client.Repositories.ListByUser(ctx, entity, &github.RepositoryListByUserOptions{
		ListOptions: opts,
	})
}

type orgNamespace struct{}

func (orgNamespace) Name() string { return "orgs" }

func (orgNamespace) ListPage(ctx context.Context, client *github.Client, entity string, opts github.ListOptions) ([]*github.Repository, *github.Response, error) {
	return client.Repositories.ListByOrg(ctx, entity, &github.RepositoryListByOrgOptions{
		ListOptions: opts,
	})
}
