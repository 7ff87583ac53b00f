package tui

// sparklineChars are the eight block heights, lowest first.
var sparklineChars = [8]rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Window keeps the most recent samples up to a fixed limit.
type Window struct {
	samples []float64
	limit   int
}

// NewWindow returns an empty window holding at most limit samples.
func NewWindow(limit int) *Window {
	w := &Window{}
	w.Resize(limit)
	return w
}

// Push appends v, dropping the oldest sample once the window is full.
func (w *Window) Push(v float64) {
	if len(w.samples) == w.limit {
		copy(w.samples, w.samples[1:])
		w.samples = w.samples[:w.limit-1]
	}
	w.samples = append(w.samples, v)
}

func (w *Window) Len() int { return len(w.samples) }

func (w *Window) Cap() int { return w.limit }

// Last returns the newest sample, or 0 when empty.
func (w *Window) Last() float64 {
	if len(w.samples) == 0 {
		return 0
	}
	return w.samples[len(w.samples)-1]
}

// Values returns the samples oldest first. The result is a copy.
func (w *Window) Values() []float64 {
	if len(w.samples) == 0 {
		return nil
	}
	return append([]float64(nil), w.samples...)
}

// Resize changes the limit, discarding the oldest samples that no longer fit.
func (w *Window) Resize(limit int) {
	limit = max(limit, 1)
	if drop := len(w.samples) - limit; drop > 0 {
		w.samples = append(w.samples[:0], w.samples[drop:]...)
	}
	w.limit = limit
	if cap(w.samples) < limit {
		grown := make([]float64, len(w.samples), limit)
		copy(grown, w.samples)
		w.samples = grown
	}
}

// RenderSparkline draws percentages (0..100) as a row of block glyphs.
// Out of range values are clamped.
func RenderSparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	runes := make([]rune, len(values))
	for i, v := range values {
		v = min(max(v, 0), 100)
		runes[i] = sparklineChars[int(v/100*7)]
	}
	return string(runes)
}

// ScaleToPercent maps samples onto 0..100 relative to the largest one,
// so durations of any magnitude can be drawn with RenderSparkline.
func ScaleToPercent(values []float64) []float64 {
	peak := 0.0
	for _, v := range values {
		peak = max(peak, v)
	}
	scaled := make([]float64, len(values))
	if peak <= 0 {
		return scaled
	}
	for i, v := range values {
		scaled[i] = v / peak * 100
	}
	return scaled
}
