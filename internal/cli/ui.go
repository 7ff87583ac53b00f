//go:generate mockgen -source=ui.go -destination=mocks/mock_ui.go -package=mocks

package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/xgallom/brno-number/internal/format"
	"github.com/xgallom/brno-number/internal/orchestration"
)

const (
	// TruncationLimit is the length from which a displayed value is cut
	// in standard output to avoid cluttering the terminal.
	TruncationLimit = 120
	// DisplayEdges is the number of characters kept at each end of a
	// truncated value.
	DisplayEdges = 40
	// ProgressRefreshRate defines the refresh frequency of the progress bar.
	ProgressRefreshRate = 200 * time.Millisecond
	// ProgressBarWidth defines the width in characters of the progress bar.
	ProgressBarWidth = 40
)

// Spinner abstracts the terminal spinner so DisplayProgress can be tested
// without a terminal.
type Spinner interface {
	// Start begins the spinner animation.
	Start()
	// Stop halts the spinner animation.
	Stop()
	// UpdateSuffix sets the text that is displayed after the spinner.
	UpdateSuffix(suffix string)
}

// realSpinner adapts spinner.Spinner to Spinner.
type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start() { rs.s.Start() }

func (rs *realSpinner) Stop() { rs.s.Stop() }

func (rs *realSpinner) UpdateSuffix(suffix string) {
	rs.s.Lock()
	rs.s.Suffix = suffix
	rs.s.Unlock()
}

var newSpinner = func(options ...spinner.Option) Spinner {
	s := spinner.New(spinner.CharSets[11], ProgressRefreshRate, options...)
	return &realSpinner{s}
}

// DisplayProgress shows a spinner with an aggregated progress bar until
// progressChan is closed. It calls wg.Done on return.
//
// Parameters:
//   - wg: Signaled when the display has stopped.
//   - progressChan: Per-line progress updates.
//   - numTasks: Number of lines in the batch.
//   - out: Destination of the spinner.
func DisplayProgress(wg *sync.WaitGroup, progressChan <-chan orchestration.ProgressUpdate, numTasks int, out io.Writer) {
	defer wg.Done()
	agg := orchestration.NewProgressAggregator(numTasks)
	if agg == nil {
		orchestration.DrainChannel(progressChan)
		return
	}

	s := newSpinner(spinner.WithWriter(out))
	s.UpdateSuffix(progressSuffix(agg, 0, 0))
	s.Start()
	defer s.Stop()

	ticker := time.NewTicker(ProgressRefreshRate)
	defer ticker.Stop()

	for {
		select {
		case update, ok := <-progressChan:
			if !ok {
				s.UpdateSuffix(progressSuffix(agg, 1, 0))
				return
			}
			p := agg.Update(update)
			s.UpdateSuffix(progressSuffix(agg, p.AverageProgress, p.ETA))
		case <-ticker.C:
			s.UpdateSuffix(progressSuffix(agg, agg.CalculateAverage(), agg.GetETA()))
		}
	}
}

func progressSuffix(agg *orchestration.ProgressAggregator, avg float64, eta time.Duration) string {
	label := "Evaluating"
	if agg.IsMultiTask() {
		label = fmt.Sprintf("Evaluating %d lines", agg.NumTasks())
	}
	return fmt.Sprintf(" %s %s", label, format.FormatProgressBarWithETA(avg, eta, ProgressBarWidth))
}

// truncate shortens s to its first and last DisplayEdges characters when
// it is longer than TruncationLimit.
func truncate(s string) (string, bool) {
	if len(s) <= TruncationLimit {
		return s, false
	}
	return s[:DisplayEdges] + "..." + s[len(s)-DisplayEdges:], true
}
