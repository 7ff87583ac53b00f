package format

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

const maxETA = 24 * time.Hour

// ProgressState tracks per-worker completion fractions.
type ProgressState struct {
	progresses []float64
	numWorkers int
}

// NewProgressState returns a state for n workers, all at zero.
func NewProgressState(n int) *ProgressState {
	if n < 0 {
		n = 0
	}
	return &ProgressState{progresses: make([]float64, n), numWorkers: n}
}

// Update records the fraction reported by worker index. Out of range
// indices are ignored and the fraction is clamped to [0, 1].
func (s *ProgressState) Update(index int, fraction float64) {
	if index < 0 || index >= s.numWorkers {
		return
	}
	s.progresses[index] = clamp01(fraction)
}

// CalculateAverage returns the mean completion across workers.
func (s *ProgressState) CalculateAverage() float64 {
	if s.numWorkers == 0 {
		return 0
	}
	var sum float64
	for _, p := range s.progresses {
		sum += p
	}
	return sum / float64(s.numWorkers)
}

// ProgressWithETA adds a smoothed completion rate to ProgressState.
// It is safe for concurrent use.
type ProgressWithETA struct {
	*ProgressState
	mu           sync.Mutex
	numWorkers   int
	startTime    time.Time
	lastUpdate   time.Time
	lastProgress float64
	progressRate float64 // fraction per second
}

// NewProgressWithETA returns a tracker for n workers starting now.
func NewProgressWithETA(n int) *ProgressWithETA {
	now := time.Now()
	return &ProgressWithETA{
		ProgressState: NewProgressState(n),
		numWorkers:    n,
		startTime:     now,
		lastUpdate:    now,
	}
}

// Update records a worker fraction without recomputing the rate.
func (p *ProgressWithETA) Update(index int, fraction float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ProgressState.Update(index, fraction)
}

// CalculateAverage returns the mean completion across workers.
func (p *ProgressWithETA) CalculateAverage() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ProgressState.CalculateAverage()
}

// UpdateWithETA records a worker fraction and returns the overall
// progress together with the current estimate.
func (p *ProgressWithETA) UpdateWithETA(index int, fraction float64) (float64, time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.ProgressState.Update(index, fraction)
	progress := p.ProgressState.CalculateAverage()

	now := time.Now()
	if dt := now.Sub(p.lastUpdate).Seconds(); dt > 0 && progress > p.lastProgress {
		rate := (progress - p.lastProgress) / dt
		if p.progressRate == 0 {
			p.progressRate = rate
		} else {
			p.progressRate = 0.3*rate + 0.7*p.progressRate
		}
		p.lastUpdate = now
		p.lastProgress = progress
	}
	return progress, p.etaLocked(progress)
}

// GetETA returns the current estimate, or zero when none is available.
func (p *ProgressWithETA) GetETA() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.etaLocked(p.ProgressState.CalculateAverage())
}

func (p *ProgressWithETA) etaLocked(progress float64) time.Duration {
	if p.progressRate <= 0 || progress <= 0 || progress >= 1 {
		return 0
	}
	seconds := (1 - progress) / p.progressRate
	eta := time.Duration(seconds * float64(time.Second))
	if eta > maxETA || eta < 0 {
		return maxETA
	}
	return eta
}

// ProgressBar renders progress as a bar of length cells.
func ProgressBar(progress float64, length int) string {
	if length <= 0 {
		return ""
	}
	filled := int(clamp01(progress) * float64(length))
	return strings.Repeat("█", filled) + strings.Repeat("░", length-filled)
}

// FormatProgressBarWithETA renders "[bar] 42.0% ETA: 3s".
func FormatProgressBarWithETA(progress float64, eta time.Duration, width int) string {
	return fmt.Sprintf("[%s] %5.1f%% ETA: %s", ProgressBar(progress, width), clamp01(progress)*100, FormatETA(eta))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
