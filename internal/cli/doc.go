// Package cli implements the terminal front end: result and error
// presentation, the batch progress spinner, the interactive prompt and
// shell completion scripts.
package cli
