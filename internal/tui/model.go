package tui

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/xgallom/brno-number/internal/config"
	apperrors "github.com/xgallom/brno-number/internal/errors"
	"github.com/xgallom/brno-number/internal/expr"
	"github.com/xgallom/brno-number/internal/format"
	"github.com/xgallom/brno-number/internal/metrics"
	"github.com/xgallom/brno-number/internal/orchestration"
	"github.com/xgallom/brno-number/internal/sysmon"
)

// Layout constants for the workbench.
const (
	headerHeight             = 1
	inputHeight              = 2
	footerHeight             = 1
	minBodyHeight            = 6
	HistoryPanelWidthPercent = 60
	tickInterval             = 500 * time.Millisecond
)

// LayoutManager holds terminal dimensions and provides layout calculations.
type LayoutManager struct {
	width  int
	height int
}

// bodyHeight returns the available height for the main body panels.
func (l LayoutManager) bodyHeight() int {
	return max(l.height-headerHeight-inputHeight-footerHeight, minBodyHeight)
}

func (l LayoutManager) historyWidth() int {
	return l.width * HistoryPanelWidthPercent / 100
}

func (l LayoutManager) metricsWidth() int {
	return l.width - l.historyWidth()
}

// EvalState tracks the evaluation in flight, if any.
type EvalState struct {
	cancel     context.CancelFunc
	generation uint64
	src        string
	busy       bool
	batch      bool
	progress   float64
	eta        time.Duration
}

// Model is the root bubbletea model of the workbench.
type Model struct {
	header  HeaderModel
	history HistoryModel
	metrics MetricsModel
	input   textinput.Model
	spinner spinner.Model
	help    help.Model
	keymap  KeyMap

	EvalState
	LayoutManager

	parentCtx context.Context
	config    config.AppConfig
	env       *expr.Env
	ref       *programRef
	mem       *metrics.MemoryCollector
	preload   []string
	inputs    []string
	inputPos  int
	lines     int
	paused    bool
	dump      bool
}

// NewModel creates the workbench model. Lines in preload are evaluated
// as a batch when the program starts.
func NewModel(parentCtx context.Context, cfg config.AppConfig, preload []string, version string) Model {
	ref := &programRef{}
	maxExp := cfg.MaxPowerExp
	if maxExp <= 0 {
		maxExp = expr.DefaultMaxPowerExp
	}
	env := expr.NewEnv(expr.WithMaxPowerExp(maxExp), expr.WithObserver(opObserver{ref: ref}))

	ti := textinput.New()
	ti.Prompt = "numcalc> "
	ti.PromptStyle = promptStyle
	ti.Placeholder = "1/3 + 2^-4"
	if cfg.MaxExprLen > 0 {
		ti.CharLimit = cfg.MaxExprLen
	}
	ti.Focus()

	history := NewHistoryModel()
	history.SetDump(cfg.Dump)
	header := NewHeaderModel(version)
	header.SetDump(cfg.Dump)

	return Model{
		header:    header,
		history:   history,
		metrics:   NewMetricsModel(),
		input:     ti,
		spinner:   spinner.New(spinner.WithSpinner(spinner.MiniDot)),
		help:      help.New(),
		keymap:    DefaultKeyMap(),
		parentCtx: parentCtx,
		config:    cfg,
		env:       env,
		ref:       ref,
		mem:       metrics.NewMemoryCollector(),
		preload:   preload,
		dump:      cfg.Dump,
		EvalState: EvalState{batch: len(preload) > 0},
	}
}

// Init returns the initial commands.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, tickCmd(), sampleMemStatsCmd(), watchContextCmd(m.parentCtx)}
	if len(m.preload) > 0 {
		cmds = append(cmds, batchCmd(m.ref, m.parentCtx, m.preload, m.env, m.config), m.spinner.Tick)
	}
	return tea.Batch(cmds...)
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layoutPanels()
		return m, nil

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.history, cmd = m.history.Update(msg)
		return m, cmd

	case EvalResultMsg:
		if msg.Generation != m.generation || !m.busy {
			return m, nil // stale result of a canceled evaluation
		}
		m.finishEval()
		m.addEntry(msg.Entry)
		return m, nil

	case EntryMsg:
		m.addEntry(msg.Entry)
		return m, nil

	case ProgressMsg:
		m.progress = msg.AverageProgress
		m.eta = msg.ETA
		return m, nil

	case BatchDoneMsg:
		m.batch = false
		m.history.Note(fmt.Sprintf("batch: %d lines, %d failed", msg.Lines, msg.Failed))
		return m, nil

	case OpMsg:
		m.metrics.RecordOp(msg)
		return m, nil

	case spinner.TickMsg:
		if !m.busy && !m.batch {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case TickMsg:
		if m.paused {
			return m, tickCmd()
		}
		return m, tea.Batch(sampleMemStatsCmd(), sampleSysStatsCmd(m.parentCtx), tickCmd())

	case MemStatsMsg:
		m.metrics.UpdateMemStats(msg)
		return m, nil

	case SysStatsMsg:
		m.metrics.UpdateSysStats(msg)
		return m, nil

	case contextDoneMsg:
		m.cancelEval()
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.cancelEval()
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Cancel):
		if m.busy {
			src := m.src
			m.cancelEval()
			m.addEntry(Entry{Expr: src, Err: context.Canceled})
		}
		return m, nil

	case key.Matches(msg, m.keymap.Eval):
		return m.startEval()

	case key.Matches(msg, m.keymap.HistPrev):
		m.recall(-1)
		return m, nil

	case key.Matches(msg, m.keymap.HistNext):
		m.recall(+1)
		return m, nil

	case key.Matches(msg, m.keymap.PageUp), key.Matches(msg, m.keymap.PageDown):
		var cmd tea.Cmd
		m.history, cmd = m.history.Update(msg)
		return m, cmd

	case key.Matches(msg, m.keymap.ToggleDump):
		m.dump = !m.dump
		m.history.SetDump(m.dump)
		m.header.SetDump(m.dump)
		return m, nil

	case key.Matches(msg, m.keymap.ClearLog):
		m.history.Clear()
		return m, nil

	case key.Matches(msg, m.keymap.ResetVars):
		m.env.Clear()
		m.history.Note("variables cleared")
		return m, nil

	case key.Matches(msg, m.keymap.Pause):
		m.paused = !m.paused
		return m, nil

	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.layoutPanels()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// startEval evaluates the input line in the background.
func (m Model) startEval() (tea.Model, tea.Cmd) {
	src := strings.TrimSpace(m.input.Value())
	if src == "" || m.busy {
		return m, nil
	}
	m.input.Reset()
	m.inputs = append(m.inputs, src)
	m.inputPos = len(m.inputs)

	if src == ":vars" {
		m.listVars()
		return m, nil
	}

	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if m.config.Timeout > 0 {
		ctx, cancel = context.WithTimeout(m.parentCtx, m.config.Timeout)
	} else {
		ctx, cancel = context.WithCancel(m.parentCtx)
	}
	m.generation++
	m.cancel = cancel
	m.src = src
	m.busy = true
	return m, tea.Batch(evalCmd(ctx, m.env, m.mem, src, m.generation), m.spinner.Tick)
}

func (m *Model) finishEval() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.busy = false
}

// cancelEval abandons the evaluation in flight; its result is dropped.
func (m *Model) cancelEval() {
	if m.busy {
		m.generation++
	}
	m.finishEval()
}

func (m *Model) addEntry(e Entry) {
	m.history.Add(e)
	if e.Expr != "" && (e.Err == nil || e.Duration > 0) {
		m.lines++
		m.header.SetLines(m.lines)
		m.metrics.RecordEval(e.Duration)
	}
}

func (m *Model) listVars() {
	names := m.env.Names()
	if len(names) == 0 {
		m.history.Note("no variables defined")
		return
	}
	for _, name := range names {
		n, _ := m.env.Get(name)
		m.history.Note(name + " = " + expr.FormatNumber(n))
	}
}

// recall moves through previously entered lines; dir is -1 for older.
func (m *Model) recall(dir int) {
	if len(m.inputs) == 0 {
		return
	}
	m.inputPos = min(max(m.inputPos+dir, 0), len(m.inputs))
	if m.inputPos == len(m.inputs) {
		m.input.Reset()
		return
	}
	m.input.SetValue(m.inputs[m.inputPos])
	m.input.CursorEnd()
}

// View renders the workbench.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, m.history.View(), m.metrics.View())
	return lipgloss.JoinVertical(lipgloss.Left,
		m.header.View(),
		body,
		m.input.View(),
		m.statusLine(),
		m.help.View(m.keymap),
	)
}

func (m Model) statusLine() string {
	switch {
	case m.busy:
		return statusRunningStyle.Render(m.spinner.View() + " evaluating " + truncateText(m.src, 40) + " (esc to cancel)")
	case m.batch:
		return statusRunningStyle.Render(m.spinner.View() + " batch " + format.FormatProgressBarWithETA(m.progress, m.eta, 30))
	case m.paused:
		return statusPausedStyle.Render("metrics paused")
	}
	return statusIdleStyle.Render("ready")
}

func truncateText(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func (m *Model) layoutPanels() {
	m.header.SetWidth(m.width)
	m.help.Width = m.width
	m.input.Width = max(m.width-len(m.input.Prompt)-2, 10)
	body := m.bodyHeight()
	if m.help.ShowAll {
		body = max(body-3, minBodyHeight)
	}
	m.history.SetSize(m.historyWidth(), body)
	m.metrics.SetSize(m.metricsWidth(), body)
}

// Run is the public entry point for the workbench mode.
// It creates the bubbletea program, runs it, and returns the exit code.
func Run(ctx context.Context, cfg config.AppConfig, preload []string, version string) int {
	// Rebuild styles from the current ui theme (set by app.Run via InitTheme).
	initTUIStyles()

	model := NewModel(ctx, cfg, preload, version)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	// Inject the program reference before running so bridge goroutines can Send.
	model.ref.SetProgram(p)

	finalModel, err := p.Run()
	if m, ok := finalModel.(Model); ok {
		m.cancelEval()
	}
	if err != nil && !apperrors.IsContextError(err) && ctx.Err() == nil {
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

// evalCmd evaluates src against env and reports the entry.
func evalCmd(ctx context.Context, env *expr.Env, mem *metrics.MemoryCollector, src string, gen uint64) tea.Cmd {
	return func() tea.Msg {
		before := mem.Snapshot()
		start := time.Now()
		v, err := expr.Eval(ctx, src, env)
		e := Entry{Expr: src, Value: v, Err: err, Duration: time.Since(start)}
		e.Allocated = mem.Snapshot().Allocated(before)
		return EvalResultMsg{Entry: e, Generation: gen}
	}
}

// batchCmd evaluates preloaded lines through the orchestration layer,
// each in its own fork of env.
func batchCmd(ref *programRef, ctx context.Context, exprs []string, env *expr.Env, cfg config.AppConfig) tea.Cmd {
	return func() tea.Msg {
		if cfg.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
			defer cancel()
		}
		presenter := &TUIResultPresenter{ref: ref}
		results := orchestration.EvaluateBatch(ctx, exprs, orchestration.EnvEvaluator{Base: env}, cfg,
			&TUIProgressReporter{ref: ref}, io.Discard)
		orchestration.AnalyzeResults(results, orchestration.PresentationOptions{Quiet: true}, presenter, io.Discard)
		return batchDone(results)
	}
}

// tickCmd returns a command that sends a TickMsg after tickInterval.
func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// sampleMemStatsCmd reads runtime memory stats and returns a MemStatsMsg.
func sampleMemStatsCmd() tea.Cmd {
	return func() tea.Msg {
		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)
		return MemStatsMsg{
			HeapAlloc:    ms.HeapAlloc,
			HeapSys:      ms.HeapSys,
			NumGC:        ms.NumGC,
			PauseTotalNs: ms.PauseTotalNs,
			NumGoroutine: runtime.NumGoroutine(),
		}
	}
}

// sampleSysStatsCmd reads system-wide CPU and memory stats.
func sampleSysStatsCmd(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		s := sysmon.Sample(ctx)
		return SysStatsMsg{CPUPercent: s.CPUPercent, MemPercent: s.MemPercent, MemAvailable: s.MemAvailable}
	}
}

type contextDoneMsg struct{}

// watchContextCmd waits for the parent context and quits the program.
func watchContextCmd(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		<-ctx.Done()
		return contextDoneMsg{}
	}
}
