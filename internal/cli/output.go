// # Naming Conventions
//
// Functions in this package follow consistent naming patterns based on their behavior:
//
//   - Display* functions write formatted output to an [io.Writer].
//     They handle presentation logic and colorization.
//     Examples: [DisplayResult], [DisplayQuietResult], [DisplayProgress].
//
//   - Format* functions return a formatted string without performing I/O.
//     They are pure functions suitable for composition.
//     Examples: [FormatQuietResult], [FormatValue].
//
//   - Write* functions write data to files on the filesystem.
//     They handle file creation, directory setup, and error handling.
//     Examples: [WriteResultsToFile].

package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/xgallom/brno-number/internal/expr"
	"github.com/xgallom/brno-number/internal/format"
	"github.com/xgallom/brno-number/internal/orchestration"
	"github.com/xgallom/brno-number/internal/ui"
)

// OutputConfig holds configuration for result output.
type OutputConfig struct {
	// OutputFile is the path to save the results (empty for no file output).
	OutputFile string
	// Quiet prints bare values, one per line.
	Quiet bool
	// Verbose adds the value kind and the evaluation time.
	Verbose bool
	// Dump prints the limb dump of every numeric result.
	Dump bool
}

// PresentationOptions converts the config to orchestration options.
func (c OutputConfig) PresentationOptions() orchestration.PresentationOptions {
	return orchestration.PresentationOptions{Quiet: c.Quiet, Verbose: c.Verbose, Dump: c.Dump}
}

// WriteResultsToFile writes evaluated lines to config.OutputFile, creating
// parent directories as needed. Failed lines are written as comments.
//
// Returns:
//   - error: An error if the file cannot be written.
func WriteResultsToFile(results []orchestration.Result, config OutputConfig) error {
	if config.OutputFile == "" {
		return nil
	}

	dir := filepath.Dir(config.OutputFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(config.OutputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	fmt.Fprintf(file, "# numcalc results\n")
	fmt.Fprintf(file, "# Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(file, "# Lines: %d\n\n", len(results))
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(file, "# %s: error: %v\n", r.Expr, r.Err)
			continue
		}
		fmt.Fprintf(file, "%s = %s\n", r.Expr, r.Value)
		if config.Dump && !r.Value.IsBool {
			fmt.Fprintf(file, "%s\n", r.Value.Number.DumpString())
		}
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// FormatQuietResult returns the bare value, suitable for scripting.
// Large values are never truncated in quiet mode.
func FormatQuietResult(v expr.Value) string {
	return v.String()
}

// DisplayQuietResult prints the bare value on its own line.
func DisplayQuietResult(out io.Writer, v expr.Value) {
	fmt.Fprintln(out, FormatQuietResult(v))
}

// FormatValue colors a value by kind and truncates long decimals.
func FormatValue(v expr.Value) string {
	s, cut := truncate(v.String())
	var colored string
	switch {
	case v.IsBool:
		colored = ui.Paint(ui.ColorMagenta, s)
	case v.Number.Kind().String() == "ordinary":
		colored = ui.Paint(ui.ColorGreen, s)
	default:
		colored = ui.Paint(ui.ColorYellow, s)
	}
	if cut {
		colored += ui.Paint(ui.ColorGrey, " (truncated)")
	}
	return colored
}

// DisplayResult prints one evaluated expression.
//
// Parameters:
//   - v: The value to print.
//   - src: The source expression, shown in verbose mode.
//   - duration: The evaluation time, shown in verbose mode.
//   - config: Output configuration.
//   - out: The output writer.
func DisplayResult(v expr.Value, src string, duration time.Duration, config OutputConfig, out io.Writer) {
	if config.Quiet {
		DisplayQuietResult(out, v)
		return
	}
	if config.Verbose {
		fmt.Fprintf(out, "%s = %s  %s  %s\n",
			src, FormatValue(v),
			ui.Paint(ui.ColorMagenta, "["+v.Kind()+"]"),
			ui.Paint(ui.ColorGrey, format.FormatExecutionDuration(duration)))
	} else {
		fmt.Fprintln(out, FormatValue(v))
	}
	if (config.Dump || v.Dump) && !v.IsBool {
		fmt.Fprintln(out, ui.Paint(ui.ColorGrey, v.Number.DumpString()))
	}
}

// SaveResults writes the results to config.OutputFile, if set, and
// reports where they went unless quiet.
func SaveResults(out io.Writer, results []orchestration.Result, config OutputConfig) error {
	if config.OutputFile == "" {
		return nil
	}
	if err := WriteResultsToFile(results, config); err != nil {
		return err
	}
	if !config.Quiet {
		fmt.Fprintf(out, "%s✓ Results saved to: %s%s%s\n",
			ui.ColorGreen(), ui.ColorCyan(), config.OutputFile, ui.ColorReset())
	}
	return nil
}
