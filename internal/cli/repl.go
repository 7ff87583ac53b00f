package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"

	"github.com/xgallom/brno-number/internal/expr"
	"github.com/xgallom/brno-number/internal/metrics"
	"github.com/xgallom/brno-number/internal/ui"
)

// Prompt is shown before every input line.
const Prompt = "numcalc> "

// REPLConfig holds configuration for the REPL session.
type REPLConfig struct {
	// Timeout bounds each evaluation.
	Timeout time.Duration
	// Verbose shows kinds and timings.
	Verbose bool
	// Dump prints the limb dump of every result.
	Dump bool
	// ShowMemory prints allocation figures after each evaluation.
	ShowMemory bool
}

// lineReader reads one line of input.
type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(line string)
	Close() error
}

// bufioReader reads lines from a non-terminal input and echoes the prompt.
type bufioReader struct {
	r   *bufio.Reader
	out io.Writer
}

func (b *bufioReader) Prompt(prompt string) (string, error) {
	fmt.Fprint(b.out, ui.Paint(ui.ColorGreen, prompt))
	line, err := b.r.ReadString('\n')
	if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (b *bufioReader) AppendHistory(string) {}

func (b *bufioReader) Close() error { return nil }

// REPL is an interactive session over a single variable environment.
type REPL struct {
	config  REPLConfig
	env     *expr.Env
	mem     *metrics.MemoryCollector
	in      io.Reader
	out     io.Writer
	reader  lineReader
	verbose bool
	dump    bool
}

// NewREPL creates a REPL over env reading from stdin.
//
// Parameters:
//   - env: The variable environment; assignments persist between lines.
//   - config: REPL configuration.
//
// Returns:
//   - *REPL: A new REPL instance.
func NewREPL(env *expr.Env, config REPLConfig) *REPL {
	return &REPL{
		config:  config,
		env:     env,
		mem:     metrics.NewMemoryCollector(),
		in:      os.Stdin,
		out:     os.Stdout,
		verbose: config.Verbose,
		dump:    config.Dump,
	}
}

// SetInput sets a custom input reader (useful for testing).
func (r *REPL) SetInput(in io.Reader) {
	r.in = in
}

// SetOutput sets a custom output writer (useful for testing).
func (r *REPL) SetOutput(out io.Writer) {
	r.out = out
}

// newReader uses liner with history and completion on a terminal, and a
// plain line reader otherwise.
func (r *REPL) newReader() lineReader {
	if f, ok := r.in.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		l := liner.NewLiner()
		l.SetCtrlCAborts(true)
		l.SetCompleter(r.complete)
		return l
	}
	return &bufioReader{r: bufio.NewReader(r.in), out: r.out}
}

// Start runs the session until :quit, end of input, or ctx is canceled.
func (r *REPL) Start(ctx context.Context) {
	r.reader = r.newReader()
	defer r.reader.Close()

	r.printBanner()
	fmt.Fprintf(r.out, "Type %s:help%s for commands.\n\n", ui.ColorYellow(), ui.ColorReset())

	for ctx.Err() == nil {
		input, err := r.reader.Prompt(Prompt)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				continue
			}
			if !errors.Is(err, io.EOF) {
				fmt.Fprintf(r.out, "%sRead error: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
			}
			fmt.Fprintln(r.out, "\nGoodbye!")
			return
		}

		input = strings.TrimSpace(input)
		if input == "" || strings.HasPrefix(input, "#") {
			continue
		}
		r.reader.AppendHistory(input)

		if !r.processCommand(ctx, input) {
			return
		}
	}
}

func (r *REPL) printBanner() {
	fmt.Fprintf(r.out, "\n%s╔══════════════════════════════════════════════════════════╗%s\n", ui.ColorCyan(), ui.ColorReset())
	fmt.Fprintf(r.out, "%s║%s     %sExact Rational Calculator - Interactive Mode%s         %s║%s\n",
		ui.ColorCyan(), ui.ColorReset(), ui.ColorBold(), ui.ColorReset(), ui.ColorCyan(), ui.ColorReset())
	fmt.Fprintf(r.out, "%s╚══════════════════════════════════════════════════════════╝%s\n\n", ui.ColorCyan(), ui.ColorReset())
}

func (r *REPL) printHelp() {
	cmd := func(name, desc string) {
		fmt.Fprintf(r.out, "  %s%-14s%s - %s\n", ui.ColorYellow(), name, ui.ColorReset(), desc)
	}
	fmt.Fprintf(r.out, "%sExpressions:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintln(r.out, "  1/3 + 2^-4      x = 7/9      x * ans      1/3 < 1/2")
	fmt.Fprintln(r.out, "  operators: + - * / ^  == != < > <= >=   constants: zero one nan undefined")
	fmt.Fprintln(r.out, "  functions: neg(x) sqrt(x[, digits]) dump(x)")
	fmt.Fprintf(r.out, "%sCommands:%s\n", ui.ColorBold(), ui.ColorReset())
	cmd(":help", "Display this help")
	cmd(":vars", "List variables")
	cmd(":clear", "Delete all variables")
	cmd(":dump", "Toggle the limb dump of results")
	cmd(":verbose", "Toggle kinds and timings")
	cmd(":mem", "Toggle memory statistics")
	cmd(":theme <name>", "Change color theme ("+strings.Join(ui.ThemeNames(), ", ")+")")
	cmd(":quit", "Exit interactive mode")
}

// processCommand runs a :command or evaluates an expression.
// Returns false if the REPL should exit.
func (r *REPL) processCommand(ctx context.Context, input string) bool {
	if !strings.HasPrefix(input, ":") {
		r.evaluate(ctx, input)
		return true
	}

	parts := strings.Fields(input)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case ":help", ":h", ":?":
		r.printHelp()
	case ":vars", ":v":
		r.cmdVars()
	case ":clear":
		r.env.Clear()
		fmt.Fprintln(r.out, "Variables cleared.")
	case ":dump":
		r.dump = !r.dump
		fmt.Fprintf(r.out, "Dump: %s\n", onOff(r.dump))
	case ":verbose":
		r.verbose = !r.verbose
		fmt.Fprintf(r.out, "Verbose: %s\n", onOff(r.verbose))
	case ":mem":
		r.config.ShowMemory = !r.config.ShowMemory
		fmt.Fprintf(r.out, "Memory statistics: %s\n", onOff(r.config.ShowMemory))
	case ":theme":
		r.cmdTheme(args)
	case ":quit", ":exit", ":q":
		fmt.Fprintf(r.out, "%sGoodbye!%s\n", ui.ColorGreen(), ui.ColorReset())
		return false
	default:
		fmt.Fprintf(r.out, "%sUnknown command: %s%s\n", ui.ColorRed(), cmd, ui.ColorReset())
		fmt.Fprintf(r.out, "Type %s:help%s to see available commands.\n", ui.ColorYellow(), ui.ColorReset())
	}
	return true
}

func (r *REPL) evaluate(ctx context.Context, src string) {
	if r.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.Timeout)
		defer cancel()
	}

	before := r.mem.Snapshot()
	start := time.Now()
	v, err := expr.Eval(ctx, src, r.env)
	duration := time.Since(start)
	if err != nil {
		CLIResultPresenter{}.printError(src, err, r.out)
		return
	}

	DisplayResult(v, src, duration, OutputConfig{Verbose: r.verbose, Dump: r.dump}, r.out)
	if r.config.ShowMemory {
		DisplayMemoryStats(before, r.mem.Snapshot(), r.out)
	}
}

func (r *REPL) cmdVars() {
	names := r.env.Names()
	if len(names) == 0 {
		fmt.Fprintln(r.out, "No variables defined.")
		return
	}
	for _, name := range names {
		n, _ := r.env.Get(name)
		s, _ := truncate(expr.FormatNumber(n))
		fmt.Fprintf(r.out, "  %s%s%s = %s\n", ui.ColorCyan(), name, ui.ColorReset(), s)
	}
}

func (r *REPL) cmdTheme(args []string) {
	if len(args) == 0 {
		fmt.Fprintf(r.out, "Current theme: %s (available: %s)\n",
			ui.GetCurrentTheme().Name, strings.Join(ui.ThemeNames(), ", "))
		return
	}
	if err := ui.SetTheme(args[0]); err != nil {
		fmt.Fprintf(r.out, "%s%v%s\n", ui.ColorRed(), err, ui.ColorReset())
		return
	}
	fmt.Fprintf(r.out, "Theme changed to: %s\n", ui.Paint(ui.ColorGreen, args[0]))
}

// complete offers variables, constants, functions and commands for the
// word under the cursor.
func (r *REPL) complete(line string) []string {
	start := strings.LastIndexFunc(line, func(c rune) bool {
		return !(c == '_' || c == ':' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9')
	}) + 1
	head, word := line[:start], line[start:]
	if word == "" {
		return nil
	}

	candidates := r.env.Names()
	for name := range expr.Constants {
		candidates = append(candidates, name)
	}
	for name := range expr.Functions {
		candidates = append(candidates, name+"(")
	}
	if start == 0 {
		candidates = append(candidates, ":help", ":vars", ":clear", ":dump", ":verbose", ":mem", ":theme", ":quit")
	}

	var out []string
	for _, c := range candidates {
		if strings.HasPrefix(c, word) {
			out = append(out, head+c)
		}
	}
	sort.Strings(out)
	return out
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
