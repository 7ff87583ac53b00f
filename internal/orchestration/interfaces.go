package orchestration

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/xgallom/brno-number/internal/expr"
)

// Result is the outcome of evaluating one line of a batch.
type Result struct {
	// Index is the position of the line in the batch.
	Index int
	// Expr is the source text.
	Expr string
	// Value is the result. It is the zero Value if Err is set.
	Value expr.Value
	// Duration is the wall time of the evaluation.
	Duration time.Duration
	Err      error
}

// PresentationOptions configures how results are presented to the user.
type PresentationOptions struct {
	Quiet   bool
	Verbose bool
	Dump    bool
}

// ProgressUpdate reports that the line at Index reached Value (0 to 1).
type ProgressUpdate struct {
	Index int
	Value float64
}

// Evaluator evaluates one line of a batch.
type Evaluator interface {
	Evaluate(ctx context.Context, index int, src string) (expr.Value, error)
}

// EnvEvaluator evaluates every line in its own fork of Base, so lines see
// the variables defined before the batch but not each other's assignments.
type EnvEvaluator struct {
	Base *expr.Env
}

// Evaluate implements Evaluator.
func (e EnvEvaluator) Evaluate(ctx context.Context, _ int, src string) (expr.Value, error) {
	return expr.Eval(ctx, src, e.Base.Fork())
}

// ProgressReporter displays batch progress. This interface keeps the
// orchestration layer independent of spinners and progress bars.
type ProgressReporter interface {
	// DisplayProgress consumes updates until progressChan is closed, then
	// calls wg.Done. It runs in its own goroutine.
	DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, numTasks int, out io.Writer)
}

// ProgressReporterFunc is a function adapter that implements ProgressReporter.
type ProgressReporterFunc func(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, numTasks int, out io.Writer)

// DisplayProgress calls the underlying function.
func (f ProgressReporterFunc) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, numTasks int, out io.Writer) {
	f(wg, progressChan, numTasks, out)
}

// NullProgressReporter drains the progress channel without output.
// Used in quiet mode and tests.
type NullProgressReporter struct{}

// DisplayProgress drains the channel without output.
func (NullProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, _ int, _ io.Writer) {
	defer wg.Done()
	DrainChannel(progressChan)
}

// ResultPresenter renders results.
type ResultPresenter interface {
	// PresentResult displays a single evaluated line.
	PresentResult(result Result, opts PresentationOptions, out io.Writer)
	// PresentSummary displays totals for a batch of more than one line.
	PresentSummary(results []Result, out io.Writer)
}

// DurationFormatter formats durations for display.
type DurationFormatter interface {
	FormatDuration(d time.Duration) string
}

// ErrorHandler reports an error and returns the matching exit code.
type ErrorHandler interface {
	HandleError(err error, duration time.Duration, out io.Writer) int
}
