// Package logging provides the structured logging interface used by the
// calculator front-ends. The arithmetic packages never log; the CLI, the
// batch orchestrator and the HTTP service log through Logger, which is backed
// by zerolog by default and by the standard library logger where a plain
// text sink is wanted.
package logging
