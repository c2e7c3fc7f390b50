// Package gitrepo wraps the on-disk mirror of one remote repository.
//
// A [Repository] is a handle bound to the [model.RepositoryMetadata] it
// mirrors. The binding is only valid while the handle's "origin" remote URL
// equals the metadata's clone URL; [Open] and [Probe] enforce that.
//
// Updates are fast-forward only. [Repository.Merge] never creates merge
// commits; diverged history is reported and left untouched.
package gitrepo
