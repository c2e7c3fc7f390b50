// Package model defines the values passed between discovery, the sync engine
// and the mirror ledger.
//
// # RepositoryMetadata
//
// [RepositoryMetadata] is what discovery knows about a remote repository. It is
// a value type and is passed by copy:
//
//	type RepositoryMetadata struct {
//	    Name          string // unique per user or organization
//	    CloneURL      string // ends with .git
//	    IsFork        bool
//	    DefaultBranch string // may be empty
//	}
//
// # Outcome and SyncResult
//
// Every repository of a run ends in exactly one [Outcome]. [SyncResult] carries
// the outcome together with the local path, the resulting head and the error,
// if any. Only [OutcomeFailed] counts as a failure; [OutcomeUnmergeable] is
// reported but leaves the run successful.
//
// # Ledger records
//
// [MirrorRecord] and [RunRecord] are the JSON documents the store keeps about
// the last sync of each mirror path and about each run.
package model
