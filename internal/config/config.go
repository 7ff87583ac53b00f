// Package config parses command-line flags and environment variables into
// the application configuration.
package config

import (
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	apperrors "github.com/xgallom/brno-number/internal/errors"
)

// EnvPrefix is the prefix of every environment variable override.
const EnvPrefix = "NUMCALC_"

// Defaults applied before flags and environment overrides.
const (
	DefaultTimeout     = 1 * time.Minute
	DefaultAddr        = ":8080"
	DefaultMaxPowerExp = 1_000_000
	DefaultMaxExprLen  = 4096
	DefaultLogLevel    = "info"
	DefaultTheme       = "dark"
)

// Mode selects what the application does after configuration.
type Mode int

// Run modes, in increasing precedence.
const (
	ModeREPL Mode = iota
	ModeExpressions
	ModeBatch
	ModeTUI
	ModeServe
	ModeCompletion
)

// String returns the mode name used in logs.
func (m Mode) String() string {
	switch m {
	case ModeREPL:
		return "repl"
	case ModeExpressions:
		return "expressions"
	case ModeBatch:
		return "batch"
	case ModeTUI:
		return "tui"
	case ModeServe:
		return "serve"
	case ModeCompletion:
		return "completion"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// AppConfig holds the resolved configuration.
type AppConfig struct {
	// Exprs are expressions given with -e or as positional arguments.
	Exprs []string
	// BatchFile is a file with one expression per line.
	BatchFile string
	// REPL forces the interactive prompt.
	REPL bool
	// TUI starts the terminal workbench.
	TUI bool
	// Serve starts the HTTP evaluation service.
	Serve bool
	// Addr is the listen address of the service.
	Addr string
	// Timeout bounds a whole run (expressions or batch) or a single request.
	Timeout time.Duration
	// Workers is the batch concurrency; 0 selects a value from the CPU count.
	Workers int
	// MaxPowerExp bounds the magnitude of exponents accepted by ^.
	MaxPowerExp int64
	// MaxExprLen bounds the length of expressions accepted by the service.
	MaxExprLen int
	// Quiet prints bare results only.
	Quiet bool
	// Verbose adds kinds and timings to results.
	Verbose bool
	// Dump prints the hex debug dump of each numeric result.
	Dump bool
	// OutputFile receives the results in addition to stdout.
	OutputFile string
	// Theme is the color theme name.
	Theme string
	// NoColor disables colors.
	NoColor bool
	// LogLevel is the zerolog level name.
	LogLevel string
	// Completion is the shell to generate a completion script for.
	Completion string
	// Version prints build and CPU information and exits.
	Version bool
}

// Mode returns the run mode implied by the configuration.
func (c AppConfig) Mode() Mode {
	switch {
	case c.Completion != "":
		return ModeCompletion
	case c.Serve:
		return ModeServe
	case c.TUI:
		return ModeTUI
	case c.REPL:
		return ModeREPL
	case c.BatchFile != "":
		return ModeBatch
	case len(c.Exprs) > 0:
		return ModeExpressions
	}
	return ModeREPL
}

// Validate checks value ranges and mode conflicts.
func (c AppConfig) Validate() error {
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("--timeout must be positive, got %s", c.Timeout)
	}
	if c.Workers < 0 {
		return apperrors.NewConfigError("--workers must not be negative, got %d", c.Workers)
	}
	if c.MaxPowerExp <= 0 {
		return apperrors.NewConfigError("--max-exp must be positive, got %d", c.MaxPowerExp)
	}
	if c.MaxExprLen <= 0 {
		return apperrors.NewConfigError("--max-len must be positive, got %d", c.MaxExprLen)
	}
	if c.Quiet && c.Verbose {
		return apperrors.NewConfigError("--quiet and --verbose are mutually exclusive")
	}
	interactive := 0
	for _, on := range []bool{c.REPL, c.TUI, c.Serve} {
		if on {
			interactive++
		}
	}
	if interactive > 1 {
		return apperrors.NewConfigError("--repl, --tui and --serve are mutually exclusive")
	}
	if c.Completion != "" && !isSupportedShell(c.Completion) {
		return apperrors.NewConfigError("unsupported shell %q for --completion (bash, zsh, fish, powershell)", c.Completion)
	}
	return nil
}

func isSupportedShell(shell string) bool {
	switch shell {
	case "bash", "zsh", "fish", "powershell":
		return true
	}
	return false
}

// stringList is a repeatable string flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, "; ") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// ParseConfig parses args into an AppConfig.
//
// Precedence is command-line flags, then NUMCALC_* environment variables,
// then defaults. Positional arguments are appended to the expressions.
//
// Parameters:
//   - programName: The name shown in usage output.
//   - args: Command-line arguments without the program name.
//   - errorWriter: Destination of usage and parse errors.
//
// Returns:
//   - AppConfig: The resolved configuration.
//   - error: flag.ErrHelp for -h, or a ConfigError.
func ParseConfig(programName string, args []string, errorWriter io.Writer) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)

	cfg := AppConfig{}
	var exprs stringList
	fs.Var(&exprs, "e", "Evaluate an expression (repeatable).")
	fs.Var(&exprs, "expr", "Alias for -e.")
	fs.StringVar(&cfg.BatchFile, "f", "", "Evaluate each line of a file.")
	fs.StringVar(&cfg.BatchFile, "file", "", "Alias for -f.")
	fs.BoolVar(&cfg.REPL, "repl", false, "Start the interactive prompt.")
	fs.BoolVar(&cfg.TUI, "tui", false, "Start the terminal workbench.")
	fs.BoolVar(&cfg.Serve, "serve", false, "Start the HTTP evaluation service.")
	fs.StringVar(&cfg.Addr, "addr", DefaultAddr, "Listen address for --serve.")
	fs.DurationVar(&cfg.Timeout, "timeout", DefaultTimeout, "Maximum run time (e.g. 30s, 5m).")
	fs.IntVar(&cfg.Workers, "workers", 0, "Batch concurrency (0 = from CPU count).")
	fs.Int64Var(&cfg.MaxPowerExp, "max-exp", DefaultMaxPowerExp, "Largest exponent accepted by ^.")
	fs.IntVar(&cfg.MaxExprLen, "max-len", DefaultMaxExprLen, "Longest expression accepted by --serve.")
	fs.BoolVar(&cfg.Quiet, "q", false, "Print bare results only.")
	fs.BoolVar(&cfg.Quiet, "quiet", false, "Alias for -q.")
	fs.BoolVar(&cfg.Verbose, "v", false, "Show value kinds and timings.")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Alias for -v.")
	fs.BoolVar(&cfg.Dump, "dump", false, "Print the hex limb dump of each result.")
	fs.StringVar(&cfg.OutputFile, "o", "", "Also write results to a file.")
	fs.StringVar(&cfg.OutputFile, "output", "", "Alias for -o.")
	fs.StringVar(&cfg.Theme, "theme", DefaultTheme, "Color theme (dark, light, orange, none).")
	fs.BoolVar(&cfg.NoColor, "no-color", false, "Disable colors.")
	fs.StringVar(&cfg.LogLevel, "log-level", DefaultLogLevel, "Log level (debug, info, warn, error).")
	fs.BoolVar(&cfg.Version, "version", false, "Print version and CPU features.")
	fs.StringVar(&cfg.Completion, "completion", "", "Print a completion script (bash, zsh, fish, powershell).")

	fs.Usage = func() {
		fmt.Fprintf(errorWriter, "Usage: %s [flags] [expression ...]\n\n", programName)
		fmt.Fprintln(errorWriter, "Evaluates exact rational expressions such as '(1/3 + 2^-4) * 7'.")
		fmt.Fprintln(errorWriter, "Without expressions an interactive prompt is started.")
		fmt.Fprintln(errorWriter)
		fmt.Fprintln(errorWriter, "Flags:")
		fs.PrintDefaults()
		fmt.Fprintf(errorWriter, "\nEvery flag can also be set with %s<FLAG> (e.g. %sTIMEOUT=30s).\n", EnvPrefix, EnvPrefix)
	}

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return AppConfig{}, err
		}
		return AppConfig{}, apperrors.NewConfigError("%v", err)
	}

	cfg.Exprs = append(cfg.Exprs, exprs...)
	applyEnvOverrides(&cfg, fs)
	cfg.Exprs = append(cfg.Exprs, fs.Args()...)
	cfg = ApplyAdaptiveDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}
