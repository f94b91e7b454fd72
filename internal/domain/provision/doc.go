// Package provision contains core domain types for a provisioning run.
//
// It defines Invoker (who started the run), StageResult (the outcome of one
// pipeline stage) and Report (the full record of a run) with Clone helpers
// to avoid leaking internal references.
package provision
