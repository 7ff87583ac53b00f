package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// HeaderModel renders the top bar: title, version, session time and
// the number of evaluated lines.
type HeaderModel struct {
	startTime time.Time
	version   string
	lines     int
	dump      bool
	width     int
}

// NewHeaderModel creates a new header.
func NewHeaderModel(version string) HeaderModel {
	return HeaderModel{
		startTime: time.Now(),
		version:   version,
	}
}

// SetLines updates the evaluated line count.
func (h *HeaderModel) SetLines(n int) {
	h.lines = n
}

// SetDump records whether dumps are shown.
func (h *HeaderModel) SetDump(on bool) {
	h.dump = on
}

// SetWidth updates the available width.
func (h *HeaderModel) SetWidth(w int) {
	h.width = w
}

// View renders the header.
func (h HeaderModel) View() string {
	titleText := "numcalc workbench"
	if h.version != "" && h.version != "dev" {
		titleText += " " + h.version
	}
	title := titleStyle.Render(titleText)
	pipe := versionStyle.Render(" | ")

	session := elapsedStyle.Render("Session: " + time.Since(h.startTime).Round(time.Second).String())
	lines := elapsedStyle.Render(fmt.Sprintf("Lines: %d", h.lines))
	dump := versionStyle.Render("dump off")
	if h.dump {
		dump = elapsedStyle.Render("dump on")
	}

	row := title + pipe + session + pipe + lines + pipe + dump
	if gap := h.width - 2 - lipgloss.Width(row); gap > 0 {
		row += spaces(gap)
	}
	return headerStyle.Width(h.width).Render(row)
}

// spaces returns a string of n space characters.
func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}
