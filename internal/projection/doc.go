// Package projection implements the State Reconciler component.
//
// A Projection is the client-held view of one pipeline run: named tasks
// with status and progress, an append-only log sequence, and the overall
// pipeline status. Apply folds one decoded event into the projection and
// returns a Delta describing what changed, so consumers can re-render
// incrementally and the merge rules can be tested without any transport.
//
// A Projection has exactly one owner (the Watcher bound to its
// subscription key) and performs no locking of its own.
package projection
