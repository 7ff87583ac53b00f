// Package tui implements the interactive workbench: an expression input,
// a scrollable history of results, and a live metrics panel fed by the
// evaluator's operation observer, runtime memory stats and system load.
package tui
