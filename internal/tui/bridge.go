package tui

import (
	"io"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	apperrors "github.com/xgallom/brno-number/internal/errors"
	"github.com/xgallom/brno-number/internal/expr"
	"github.com/xgallom/brno-number/internal/format"
	"github.com/xgallom/brno-number/internal/orchestration"
)

// programRef is a shared reference to the tea.Program.
// Because bubbletea copies the model on every Update, we need a pointer
// that survives copies so the bridge goroutines can send messages.
type programRef struct {
	mu      sync.RWMutex
	program *tea.Program
}

// SetProgram sets the tea.Program reference (thread-safe).
func (r *programRef) SetProgram(p *tea.Program) {
	r.mu.Lock()
	r.program = p
	r.mu.Unlock()
}

// Send sends a message to the bubbletea program (thread-safe).
func (r *programRef) Send(msg tea.Msg) {
	r.mu.RLock()
	p := r.program
	r.mu.RUnlock()
	if p != nil {
		p.Send(msg)
	}
}

// opObserver forwards engine operations to the workbench.
type opObserver struct {
	ref *programRef
}

var _ expr.Observer = opObserver{}

func (o opObserver) ObserveOp(ev expr.OpEvent) {
	o.ref.Send(OpMsg{Op: ev.Op, Result: ev.Result, Duration: ev.Duration})
}

// TUIProgressReporter implements orchestration.ProgressReporter.
// It drains the progress channel and forwards updates as bubbletea messages.
type TUIProgressReporter struct {
	ref *programRef
}

var _ orchestration.ProgressReporter = (*TUIProgressReporter)(nil)

// DisplayProgress drains the progress channel and sends ProgressMsg to the TUI.
func (t *TUIProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan orchestration.ProgressUpdate, numTasks int, _ io.Writer) {
	defer wg.Done()

	agg := orchestration.NewProgressAggregator(numTasks)
	if agg == nil {
		orchestration.DrainChannel(progressChan)
		return
	}

	for update := range progressChan {
		ap := agg.Update(update)
		t.ref.Send(ProgressMsg{
			Index:           ap.Index,
			AverageProgress: ap.AverageProgress,
			ETA:             ap.ETA,
		})
	}
}

// TUIResultPresenter implements orchestration.ResultPresenter.
// It sends results to the history panel instead of writing to stdout.
type TUIResultPresenter struct {
	ref *programRef
}

var (
	_ orchestration.ResultPresenter   = (*TUIResultPresenter)(nil)
	_ orchestration.DurationFormatter = (*TUIResultPresenter)(nil)
	_ orchestration.ErrorHandler      = (*TUIResultPresenter)(nil)
)

// PresentResult adds the line to the history.
func (t *TUIResultPresenter) PresentResult(result orchestration.Result, _ orchestration.PresentationOptions, _ io.Writer) {
	t.ref.Send(EntryMsg{Entry: Entry{
		Expr:     result.Expr,
		Value:    result.Value,
		Err:      result.Err,
		Duration: result.Duration,
		Batch:    true,
	}})
}

// PresentSummary does nothing; the batch command reports completion
// with a BatchDoneMsg for batches of any size.
func (t *TUIResultPresenter) PresentSummary([]orchestration.Result, io.Writer) {}

// FormatDuration delegates to the shared formatter.
func (t *TUIResultPresenter) FormatDuration(d time.Duration) string {
	return format.FormatExecutionDuration(d)
}

// HandleError adds the error to the history and returns the exit code.
func (t *TUIResultPresenter) HandleError(err error, duration time.Duration, _ io.Writer) int {
	t.ref.Send(EntryMsg{Entry: Entry{Err: err, Duration: duration}})
	return apperrors.ExitCodeFor(err)
}

func batchDone(results []orchestration.Result) BatchDoneMsg {
	msg := BatchDoneMsg{Lines: len(results)}
	for _, r := range results {
		if r.Err != nil {
			msg.Failed++
		}
	}
	return msg
}
