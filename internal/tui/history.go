package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/xgallom/brno-number/internal/expr"
	"github.com/xgallom/brno-number/internal/format"
	"github.com/xgallom/brno-number/internal/metrics"
)

// maxEntries bounds the history panel; older entries are dropped.
const maxEntries = 500

// HistoryModel is the scrollable list of evaluated lines.
type HistoryModel struct {
	entries  []Entry
	viewport viewport.Model
	dump     bool
	width    int
	height   int
}

// NewHistoryModel creates an empty history.
func NewHistoryModel() HistoryModel {
	return HistoryModel{viewport: viewport.New(0, 0)}
}

// SetSize updates the panel dimensions.
func (h *HistoryModel) SetSize(w, height int) {
	h.width = w
	h.height = height
	h.viewport.Width = max(w-4, 0)
	h.viewport.Height = max(height-3, 0)
	h.refresh()
}

// SetDump shows or hides the limb dump of numeric entries.
func (h *HistoryModel) SetDump(on bool) {
	h.dump = on
	h.refresh()
}

// Add appends an entry and scrolls to it.
func (h *HistoryModel) Add(e Entry) {
	h.entries = append(h.entries, e)
	if len(h.entries) > maxEntries {
		h.entries = h.entries[len(h.entries)-maxEntries:]
	}
	h.refresh()
	h.viewport.GotoBottom()
}

// Note appends a free-form line such as a batch summary.
func (h *HistoryModel) Note(text string) {
	h.Add(Entry{Expr: "# " + text})
}

// Clear removes all entries.
func (h *HistoryModel) Clear() {
	h.entries = nil
	h.refresh()
}

// Len returns the number of entries.
func (h HistoryModel) Len() int { return len(h.entries) }

// Update forwards scrolling messages to the viewport.
func (h HistoryModel) Update(msg tea.Msg) (HistoryModel, tea.Cmd) {
	var cmd tea.Cmd
	h.viewport, cmd = h.viewport.Update(msg)
	return h, cmd
}

func (h *HistoryModel) refresh() {
	lines := make([]string, 0, len(h.entries))
	for _, e := range h.entries {
		lines = append(lines, h.renderEntry(e))
	}
	h.viewport.SetContent(strings.Join(lines, "\n"))
}

func (h HistoryModel) renderEntry(e Entry) string {
	if strings.HasPrefix(e.Expr, "# ") && e.Err == nil && e.Duration == 0 {
		return kindStyle.Render(e.Expr)
	}

	mark := "  "
	if e.Batch {
		mark = batchMarkStyle.Render("▸ ")
	}
	src := mark + exprStyle.Render(e.Expr)

	if e.Err != nil {
		var syn *expr.SyntaxError
		if errors.As(e.Err, &syn) {
			src += "\n  " + errorStyle.Render(caret(syn.Pos))
		}
		return src + "\n    " + errorStyle.Render("✗ "+e.Err.Error())
	}

	meta := kindStyle.Render(fmt.Sprintf("  [%s, %s", e.Value.Kind(), format.FormatExecutionDuration(e.Duration)))
	if e.Allocated > 0 {
		meta += kindStyle.Render(", " + metrics.FormatBytes(e.Allocated))
	}
	meta += kindStyle.Render("]")

	out := src + "\n    = " + renderValue(e.Value, max(h.viewport.Width-6, 20)) + meta
	if (h.dump || e.Value.Dump) && !e.Value.IsBool {
		out += "\n" + dumpStyle.Render(e.Value.Number.DumpString())
	}
	return out
}

// caret points at column pos of the expression.
func caret(pos int) string {
	return strings.Repeat(" ", pos) + "^"
}

// renderValue colors a value by kind and cuts it to width.
func renderValue(v expr.Value, width int) string {
	s := v.String()
	if lipgloss.Width(s) > width && width > 3 {
		s = s[:width-3] + "..."
	}
	switch {
	case v.IsBool:
		return boolStyle.Render(s)
	case v.Number.Kind().String() == "ordinary":
		return valueStyle.Render(s)
	}
	return specialStyle.Render(s)
}

// View renders the history panel.
func (h HistoryModel) View() string {
	title := panelTitleStyle.Render("History")
	if h.Len() == 0 {
		h.viewport.SetContent(kindStyle.Render("Type an expression such as 1/3 + 2^-4 and press enter."))
	}
	return panelStyle.
		Width(max(h.width-2, 0)).
		Height(max(h.height-2, 0)).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, h.viewport.View()))
}
