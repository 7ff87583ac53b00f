// Package orchestration evaluates batches of independent expressions
// concurrently and aggregates their results. It talks to the presentation
// layer only through the ProgressReporter and ResultPresenter interfaces.
package orchestration
