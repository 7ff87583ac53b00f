// Package ui holds the color themes shared by the command line, the
// REPL and the terminal workbench. Themes are process-wide and guarded
// by a mutex so the REPL can switch them while a batch is printing.
package ui
