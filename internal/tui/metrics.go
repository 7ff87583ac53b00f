package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/xgallom/brno-number/internal/format"
	"github.com/xgallom/brno-number/internal/metrics"
)

// sparkSamples is the number of samples kept for each sparkline.
const sparkSamples = 40

// MetricsModel displays runtime memory, system load and engine operation
// counts.
type MetricsModel struct {
	mem      MemStatsMsg
	cpu      *Window
	sysMem   *Window
	evals    *Window
	lastEval time.Duration
	memAvail uint64
	ops      map[string]int
	results  map[string]int
	width    int
	height   int
}

// NewMetricsModel creates a new metrics panel.
func NewMetricsModel() MetricsModel {
	return MetricsModel{
		cpu:     NewWindow(sparkSamples),
		sysMem:  NewWindow(sparkSamples),
		evals:   NewWindow(sparkSamples),
		ops:     make(map[string]int),
		results: make(map[string]int),
	}
}

// SetSize updates dimensions and fits the sparklines to the width.
func (m *MetricsModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	n := max(w-24, 8)
	m.cpu.Resize(n)
	m.sysMem.Resize(n)
	m.evals.Resize(n)
}

// UpdateMemStats updates memory statistics.
func (m *MetricsModel) UpdateMemStats(msg MemStatsMsg) {
	m.mem = msg
}

// UpdateSysStats records a system load sample.
func (m *MetricsModel) UpdateSysStats(msg SysStatsMsg) {
	m.cpu.Push(msg.CPUPercent)
	m.sysMem.Push(msg.MemPercent)
	m.memAvail = msg.MemAvailable
}

// RecordOp counts an engine operation by name and result kind.
func (m *MetricsModel) RecordOp(msg OpMsg) {
	m.ops[msg.Op]++
	m.results[msg.Result]++
}

// RecordEval adds the wall time of an evaluated line.
func (m *MetricsModel) RecordEval(d time.Duration) {
	m.lastEval = d
	m.evals.Push(float64(d))
}

// TotalOps returns the number of recorded operations.
func (m MetricsModel) TotalOps() int {
	total := 0
	for _, n := range m.ops {
		total += n
	}
	return total
}

// View renders the metrics panel.
func (m MetricsModel) View() string {
	var rows []string
	rows = append(rows, panelTitleStyle.Render("Metrics"))

	pipe := metricLabelStyle.Render(" | ")
	rows = append(rows, fmt.Sprintf(" %s %s%s%s %s%s%s %s",
		metricLabelStyle.Render("Heap:"),
		metricValueStyle.Render(metrics.FormatBytes(m.mem.HeapAlloc)+" / "+metrics.FormatBytes(m.mem.HeapSys)),
		pipe,
		metricLabelStyle.Render("GC:"),
		metricValueStyle.Render(fmt.Sprintf("%d (%.1fms)", m.mem.NumGC, float64(m.mem.PauseTotalNs)/1e6)),
		pipe,
		metricLabelStyle.Render("Goroutines:"),
		metricValueStyle.Render(fmt.Sprintf("%d", m.mem.NumGoroutine))))

	rows = append(rows,
		sparkRow("CPU:", fmt.Sprintf("%5.1f%%", m.cpu.Last()), cpuSparklineStyle.Render(RenderSparkline(m.cpu.Values()))),
		sparkRow("Memory:", fmt.Sprintf("%5.1f%%", m.sysMem.Last()), cpuSparklineStyle.Render(RenderSparkline(m.sysMem.Values()))+
			metricLabelStyle.Render(" "+metrics.FormatBytes(m.memAvail)+" free")),
		sparkRow("Eval time:", format.FormatExecutionDuration(m.lastEval),
			evalSparklineStyle.Render(RenderSparkline(ScaleToPercent(m.evals.Values())))),
	)

	rows = append(rows, " "+metricLabelStyle.Render(fmt.Sprintf("Operations (%d):", m.TotalOps()))+" "+countList(m.ops))
	rows = append(rows, " "+metricLabelStyle.Render("Results:   ")+" "+countList(m.results))

	return panelStyle.
		Width(max(m.width-2, 0)).
		Height(max(m.height-2, 0)).
		Render(strings.Join(rows, "\n"))
}

func sparkRow(label, value, spark string) string {
	return fmt.Sprintf(" %s %s %s",
		metricLabelStyle.Render(fmt.Sprintf("%-11s", label)),
		metricValueStyle.Render(fmt.Sprintf("%-8s", value)),
		spark)
}

// countList renders counts as "name N" pairs in name order.
func countList(counts map[string]int) string {
	if len(counts) == 0 {
		return metricLabelStyle.Render("none")
	}
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + " " + metricValueStyle.Render(fmt.Sprintf("%d", counts[name]))
	}
	return strings.Join(parts, "  ")
}
