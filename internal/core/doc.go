// Package core mirrors the repositories of one GitHub user or organization.
//
// An [Engine] takes the repository list produced by discovery and brings every
// local copy under {BaseDir}/{entity}/{name} in line with its remote:
//
//   - nothing on disk: clone
//   - a repository whose origin matches: fetch, then fast-forward if possible
//   - anything else: delete the path and clone again
//
// Diverged history is never merged. Such repositories end as
// [model.OutcomeUnmergeable] with the local branch untouched.
//
// Repositories are processed by a bounded worker pool ([Options.Parallel]).
// A failure affects only its own repository; the run continues and the
// [Summary] reports it. Paths are locked individually so two workers never
// touch the same mirror.
//
// Progress, per-repository events and ledger writes go through the
// [Observer] and [Recorder] interfaces, so the same engine drives the
// batch printer and the TUI.
package core
