package cli

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	apperrors "github.com/xgallom/brno-number/internal/errors"
	"github.com/xgallom/brno-number/internal/expr"
	"github.com/xgallom/brno-number/internal/format"
	"github.com/xgallom/brno-number/internal/metrics"
	"github.com/xgallom/brno-number/internal/orchestration"
	"github.com/xgallom/brno-number/internal/ui"
)

// CLIProgressReporter implements orchestration.ProgressReporter with a
// spinner and progress bar.
type CLIProgressReporter struct{}

var _ orchestration.ProgressReporter = CLIProgressReporter{}

// DisplayProgress delegates to the package-level DisplayProgress.
func (CLIProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan orchestration.ProgressUpdate, numTasks int, out io.Writer) {
	DisplayProgress(wg, progressChan, numTasks, out)
}

// CLIResultPresenter implements orchestration.ResultPresenter for CLI output.
type CLIResultPresenter struct{}

var (
	_ orchestration.ResultPresenter   = CLIResultPresenter{}
	_ orchestration.DurationFormatter = CLIResultPresenter{}
	_ orchestration.ErrorHandler      = CLIResultPresenter{}
)

// PresentResult prints a value, or the error of a failed line.
func (p CLIResultPresenter) PresentResult(result orchestration.Result, opts orchestration.PresentationOptions, out io.Writer) {
	if result.Err != nil {
		p.printError(result.Expr, result.Err, out)
		return
	}
	DisplayResult(result.Value, result.Expr, result.Duration,
		OutputConfig{Quiet: opts.Quiet, Verbose: opts.Verbose, Dump: opts.Dump}, out)
}

// PresentSummary prints a table of lines, kinds and durations.
// Uses manual padding to correctly handle ANSI color codes.
func (p CLIResultPresenter) PresentSummary(results []orchestration.Result, out io.Writer) {
	fmt.Fprintf(out, "\n--- Batch Summary ---\n")

	maxExprLen := len("Expression")
	maxDurationLen := len("Duration")
	failed := 0
	var total time.Duration
	for _, res := range results {
		src, _ := truncate(res.Expr)
		maxExprLen = max(maxExprLen, len(src))
		maxDurationLen = max(maxDurationLen, len(p.FormatDuration(res.Duration)))
		total += res.Duration
		if res.Err != nil {
			failed++
		}
	}

	fmt.Fprintf(out, "%s#%s     %sExpression%s%s   %sDuration%s%s   %sStatus%s\n",
		ui.ColorUnderline(), ui.ColorReset(),
		ui.ColorUnderline(), ui.ColorReset(), padRight("", maxExprLen-len("Expression")),
		ui.ColorUnderline(), ui.ColorReset(), padRight("", maxDurationLen-len("Duration")),
		ui.ColorUnderline(), ui.ColorReset())

	for _, res := range results {
		src, _ := truncate(res.Expr)
		duration := p.FormatDuration(res.Duration)
		var status string
		if res.Err != nil {
			status = ui.Paint(ui.ColorRed, "❌ "+errorLabel(res.Err))
		} else {
			status = ui.Paint(ui.ColorGreen, "✅ "+res.Value.Kind())
		}
		fmt.Fprintf(out, "%-5d %s%s   %s%s   %s\n",
			res.Index+1,
			ui.Paint(ui.ColorBlue, src), padRight("", maxExprLen-len(src)),
			ui.Paint(ui.ColorYellow, duration), padRight("", maxDurationLen-len(duration)),
			status)
	}

	fmt.Fprintf(out, "\n%d lines, %d failed, %s total evaluation time\n",
		len(results), failed, p.FormatDuration(total))
}

// padRight returns s followed by length spaces.
func padRight(s string, length int) string {
	if length <= 0 {
		return s
	}
	return s + fmt.Sprintf("%*s", length, "")
}

// FormatDuration formats a duration; zero is shown as "< 1µs".
func (CLIResultPresenter) FormatDuration(d time.Duration) string {
	if d == 0 {
		return "< 1µs"
	}
	return format.FormatExecutionDuration(d)
}

// HandleError prints err and returns the matching exit code.
func (p CLIResultPresenter) HandleError(err error, duration time.Duration, out io.Writer) int {
	if err == nil {
		return apperrors.ExitSuccess
	}
	code := apperrors.ExitCodeFor(err)
	switch code {
	case apperrors.ExitErrorTimeout:
		fmt.Fprintf(out, "%sTimed out after %s.%s\n", ui.ColorRed(), p.FormatDuration(duration), ui.ColorReset())
	case apperrors.ExitErrorCanceled:
		fmt.Fprintf(out, "%sCanceled after %s.%s\n", ui.ColorYellow(), p.FormatDuration(duration), ui.ColorReset())
	default:
		fmt.Fprintf(out, "%sError: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
	}
	return code
}

func (CLIResultPresenter) printError(src string, err error, out io.Writer) {
	var syn *expr.SyntaxError
	if errors.As(err, &syn) {
		fmt.Fprintf(out, "%s%s%s\n", ui.ColorGrey(), src, ui.ColorReset())
		fmt.Fprintf(out, "%s%*s^%s\n", ui.ColorRed(), syn.Pos, "", ui.ColorReset())
	}
	fmt.Fprintf(out, "%sError: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
}

// errorLabel names the class of err for the summary table.
func errorLabel(err error) string {
	var syn *expr.SyntaxError
	switch {
	case errors.As(err, &syn):
		return "syntax error"
	case apperrors.IsContextError(err):
		return "timeout"
	}
	switch apperrors.ExitCodeFor(err) {
	case apperrors.ExitErrorEval:
		return "eval error"
	case apperrors.ExitErrorConfig:
		return "invalid"
	}
	return "error"
}

// DisplayMemoryStats shows memory statistics between two snapshots.
func DisplayMemoryStats(before, after metrics.MemorySnapshot, out io.Writer) {
	fmt.Fprintf(out, "\nMemory Stats:\n")
	fmt.Fprintf(out, "  Heap in use:     %s\n", metrics.FormatBytes(after.HeapAlloc))
	fmt.Fprintf(out, "  Allocated:       %s\n", metrics.FormatBytes(after.Allocated(before)))
	fmt.Fprintf(out, "  GC cycles:       %d\n", after.NumGC-before.NumGC)
	if pause := after.PauseTotalNs - before.PauseTotalNs; pause > 0 {
		fmt.Fprintf(out, "  GC pause total:  %.2fms\n", float64(pause)/1e6)
	} else {
		fmt.Fprintf(out, "  GC pause total:  0ms\n")
	}
}
