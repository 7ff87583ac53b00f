package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/xgallom/brno-number/internal/ui"
)

// Style variables for the workbench.
// Initialized from the ui theme system via initTUIStyles().
var (
	panelStyle         lipgloss.Style
	panelTitleStyle    lipgloss.Style
	headerStyle        lipgloss.Style
	titleStyle         lipgloss.Style
	versionStyle       lipgloss.Style
	elapsedStyle       lipgloss.Style
	exprStyle          lipgloss.Style
	valueStyle         lipgloss.Style
	specialStyle       lipgloss.Style
	boolStyle          lipgloss.Style
	kindStyle          lipgloss.Style
	dumpStyle          lipgloss.Style
	errorStyle         lipgloss.Style
	batchMarkStyle     lipgloss.Style
	metricLabelStyle   lipgloss.Style
	metricValueStyle   lipgloss.Style
	promptStyle        lipgloss.Style
	statusRunningStyle lipgloss.Style
	statusPausedStyle  lipgloss.Style
	statusIdleStyle    lipgloss.Style
	cpuSparklineStyle  lipgloss.Style
	evalSparklineStyle lipgloss.Style
)

func init() {
	initTUIStyles()
}

// initTUIStyles rebuilds all styles from the current ui theme.
// Called at package init and again from Run() after InitTheme has been invoked.
func initTUIStyles() {
	t := ui.GetCurrentTUITheme()

	panelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Foreground(t.Text)

	panelTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Accent)

	headerStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Accent).
		Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Accent)

	versionStyle = lipgloss.NewStyle().Foreground(t.Dim)
	elapsedStyle = lipgloss.NewStyle().Foreground(t.Accent)

	exprStyle = lipgloss.NewStyle().Foreground(t.Text)
	valueStyle = lipgloss.NewStyle().Foreground(t.Success).Bold(true)
	specialStyle = lipgloss.NewStyle().Foreground(t.Warning).Bold(true)
	boolStyle = lipgloss.NewStyle().Foreground(t.Info).Bold(true)
	kindStyle = lipgloss.NewStyle().Foreground(t.Dim)
	dumpStyle = lipgloss.NewStyle().Foreground(t.Dim).PaddingLeft(4)
	errorStyle = lipgloss.NewStyle().Foreground(t.Error)
	batchMarkStyle = lipgloss.NewStyle().Foreground(t.Info)

	metricLabelStyle = lipgloss.NewStyle().Foreground(t.Dim)
	metricValueStyle = lipgloss.NewStyle().Foreground(t.Accent).Bold(true)

	promptStyle = lipgloss.NewStyle().Foreground(t.Accent).Bold(true)

	statusRunningStyle = lipgloss.NewStyle().Foreground(t.Success).Bold(true)
	statusPausedStyle = lipgloss.NewStyle().Foreground(t.Warning).Bold(true)
	statusIdleStyle = lipgloss.NewStyle().Foreground(t.Dim)

	cpuSparklineStyle = lipgloss.NewStyle().Foreground(t.Accent)
	evalSparklineStyle = lipgloss.NewStyle().Foreground(t.Warning)
}
