package tui

import (
	"time"

	"github.com/xgallom/brno-number/internal/expr"
)

// Entry is one line of the history panel.
type Entry struct {
	Expr     string
	Value    expr.Value
	Err      error
	Duration time.Duration
	// Allocated is the number of bytes allocated by the evaluation.
	Allocated uint64
	// Batch marks lines loaded from -e or --file rather than typed.
	Batch bool
}

// EvalResultMsg carries the outcome of an interactive evaluation.
type EvalResultMsg struct {
	Entry Entry
	// Generation identifies the evaluation so a result arriving after
	// cancellation can be dropped.
	Generation uint64
}

// EntryMsg adds a batch result to the history.
type EntryMsg struct {
	Entry Entry
}

// ProgressMsg reports batch progress.
type ProgressMsg struct {
	Index           int
	AverageProgress float64
	ETA             time.Duration
}

// BatchDoneMsg is sent when a preloaded batch has been presented.
type BatchDoneMsg struct {
	Lines  int
	Failed int
}

// OpMsg reports one engine operation, forwarded from the evaluator's
// observer.
type OpMsg struct {
	Op       string
	Result   string
	Duration time.Duration
}

// TickMsg drives periodic sampling.
type TickMsg time.Time

// MemStatsMsg carries a runtime memory sample.
type MemStatsMsg struct {
	HeapAlloc    uint64
	HeapSys      uint64
	NumGC        uint32
	PauseTotalNs uint64
	NumGoroutine int
}

// SysStatsMsg carries a system-wide CPU and memory sample.
type SysStatsMsg struct {
	CPUPercent   float64
	MemPercent   float64
	MemAvailable uint64
}
