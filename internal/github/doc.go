// Package github discovers every repository owned by a GitHub user or
// organization.
//
// An entity name is resolved against an ordered chain of [Namespace] values
// (users first, then orgs by default). The first namespace whose complete
// listing succeeds wins. Listings are paginated with a fixed page size; a page
// shorter than the page size ends the listing.
//
//	client, err := github.NewClient(github.Options{Token: token})
//	repos, err := client.Discover(ctx, "kubernetes", true)
//
// Failures are reported as [*DiscoveryError]; use errors.Is(err,
// [ErrInvalidEntity]) to detect an entity that exists in no namespace.
package github
