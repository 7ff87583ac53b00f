package orchestration

import (
	"context"
	"io"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/xgallom/brno-number/internal/config"
	apperrors "github.com/xgallom/brno-number/internal/errors"
)

const tracerName = "github.com/xgallom/brno-number/internal/orchestration"

// EvaluateBatch evaluates exprs concurrently with at most cfg.Workers
// evaluations in flight and returns one Result per line, in input order.
//
// Failures are recorded per line and never cancel the other lines; only
// ctx cancels the batch. Each evaluation runs in an OpenTelemetry span
// named "expr.eval" carrying the line index and source.
//
// Parameters:
//   - ctx: Cancels pending and running evaluations.
//   - exprs: The lines to evaluate.
//   - evaluator: Evaluates a single line.
//   - cfg: The application configuration (Workers).
//   - progressReporter: Displays progress; use NullProgressReporter for quiet mode.
//   - out: The writer handed to the progress reporter.
//
// Returns:
//   - []Result: The result of every line.
func EvaluateBatch(ctx context.Context, exprs []string, evaluator Evaluator, cfg config.AppConfig, progressReporter ProgressReporter, out io.Writer) []Result {
	results := make([]Result, len(exprs))
	if len(exprs) == 0 {
		return results
	}

	g, ctx := errgroup.WithContext(ctx)
	if cfg.Workers > 0 {
		g.SetLimit(cfg.Workers)
	}
	// Each line sends exactly one update, so sends never block.
	progressChan := make(chan ProgressUpdate, len(exprs))

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go progressReporter.DisplayProgress(&displayWg, progressChan, len(exprs), out)

	tracer := otel.Tracer(tracerName)
	for i, src := range exprs {
		g.Go(func() error {
			spanCtx, span := tracer.Start(ctx, "expr.eval", trace.WithAttributes(
				attribute.Int("line", i),
				attribute.String("expr", src),
			))
			start := time.Now()
			v, err := evaluator.Evaluate(spanCtx, i, src)
			results[i] = Result{Index: i, Expr: src, Value: v, Duration: time.Since(start), Err: err}
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			} else {
				span.SetAttributes(attribute.String("kind", v.Kind()))
			}
			span.End()
			progressChan <- ProgressUpdate{Index: i, Value: 1}
			return nil
		})
	}

	_ = g.Wait()
	close(progressChan)
	displayWg.Wait()

	return results
}

// AnalyzeResults presents every result in input order, followed by a
// summary when there is more than one, and returns the exit code of the
// first failure, or ExitSuccess.
//
// Parameters:
//   - results: The batch results.
//   - opts: Presentation options.
//   - presenter: Renders results and the summary.
//   - out: The destination writer.
//
// Returns:
//   - int: An exit code from the apperrors package.
func AnalyzeResults(results []Result, opts PresentationOptions, presenter ResultPresenter, out io.Writer) int {
	var firstErr error
	for _, res := range results {
		presenter.PresentResult(res, opts, out)
		if res.Err != nil && firstErr == nil {
			firstErr = res.Err
		}
	}
	if len(results) > 1 && !opts.Quiet {
		presenter.PresentSummary(results, out)
	}
	return apperrors.ExitCodeFor(firstErr)
}
