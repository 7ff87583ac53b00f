package orchestration

import (
	"time"

	"github.com/xgallom/brno-number/internal/format"
)

// ProgressAggregator combines per-line progress into a batch fraction
// and ETA. Both the CLI spinner and the workbench use it.
type ProgressAggregator struct {
	state    *format.ProgressWithETA
	numTasks int
}

// NewProgressAggregator returns an aggregator for numTasks lines, or nil
// if numTasks <= 0.
func NewProgressAggregator(numTasks int) *ProgressAggregator {
	if numTasks <= 0 {
		return nil
	}
	return &ProgressAggregator{
		state:    format.NewProgressWithETA(numTasks),
		numTasks: numTasks,
	}
}

// AggregatedProgress holds the result of processing a single progress update.
type AggregatedProgress struct {
	// Index is the line that sent the update.
	Index int
	// Value is the raw progress of that line (0.0 to 1.0).
	Value float64
	// AverageProgress is the completed fraction of the batch.
	AverageProgress float64
	// ETA is the estimated time remaining based on smoothed progress rate.
	ETA time.Duration
}

// Update processes a single progress update and returns the aggregated result.
func (a *ProgressAggregator) Update(update ProgressUpdate) AggregatedProgress {
	avgProgress, eta := a.state.UpdateWithETA(update.Index, update.Value)
	return AggregatedProgress{
		Index:           update.Index,
		Value:           update.Value,
		AverageProgress: avgProgress,
		ETA:             eta,
	}
}

// CalculateAverage returns the current average progress without updating.
func (a *ProgressAggregator) CalculateAverage() float64 {
	return a.state.CalculateAverage()
}

// GetETA returns the current ETA estimate without updating.
func (a *ProgressAggregator) GetETA() time.Duration {
	return a.state.GetETA()
}

// NumTasks returns the number of lines being tracked.
func (a *ProgressAggregator) NumTasks() int {
	return a.numTasks
}

// IsMultiTask reports whether more than one line is tracked.
func (a *ProgressAggregator) IsMultiTask() bool {
	return a.numTasks > 1
}

// DrainChannel reads all updates until the channel is closed.
func DrainChannel(progressChan <-chan ProgressUpdate) {
	for range progressChan {
	}
}
