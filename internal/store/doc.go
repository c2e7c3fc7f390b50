// Package store is the mirror ledger, a BoltDB file that remembers the last
// outcome of every mirror path and a summary of every run.
//
// # Store Interface
//
// The [Store] interface defines methods for:
//   - Mirror records keyed by absolute path (SaveMirror, GetMirror, ListMirrors)
//   - Run records keyed by run ID (SaveRun, ListRuns)
//
// # Recording a run
//
// [RunRecorder] adapts a [Store] to the sync engine's Recorder:
//
//	path, err := store.DefaultPath()
//	ledger, err := store.Open(path)
//	rec := store.NewRunRecorder(ledger, "golang")
//	// pass rec to core.Options.Recorder, then
//	run, err := rec.Finish()
//
// The ledger is informational. The filesystem stays the source of truth for
// what is mirrored; a lost ledger only loses history.
package store
