package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/xgallom/brno-number/internal/cli"
	"github.com/xgallom/brno-number/internal/config"
	apperrors "github.com/xgallom/brno-number/internal/errors"
	"github.com/xgallom/brno-number/internal/expr"
	"github.com/xgallom/brno-number/internal/logging"
	"github.com/xgallom/brno-number/internal/orchestration"
	"github.com/xgallom/brno-number/internal/server"
	"github.com/xgallom/brno-number/internal/tui"
	"github.com/xgallom/brno-number/internal/ui"
)

// Application represents the numcalc application instance.
type Application struct {
	Config    config.AppConfig
	ErrWriter io.Writer
	Stdin     io.Reader
	Logger    logging.Logger
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithStdin sets the reader used by the REPL and by "--file -".
func WithStdin(r io.Reader) AppOption {
	return func(a *Application) { a.Stdin = r }
}

// WithLogger replaces the default stderr logger.
func WithLogger(l logging.Logger) AppOption {
	return func(a *Application) { a.Logger = l }
}

// New creates a new Application instance by parsing command-line arguments.
// args[0] is the program name.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter, Stdin: os.Stdin}
	for _, opt := range opts {
		opt(app)
	}
	if app.Logger == nil {
		app.Logger = logging.NewConsoleLogger(errWriter, "numcalc")
	}

	programName := "numcalc"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter)
	if err != nil {
		return nil, err
	}
	app.Config = cfg
	return app, nil
}

// Run executes the application based on the configured mode and returns
// the process exit code.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.Version {
		PrintVersion(out)
		return apperrors.ExitSuccess
	}

	if err := logging.SetLevel(a.Config.LogLevel); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	ui.InitTheme(a.Config.Theme, a.Config.NoColor)

	mode := a.Config.Mode()
	a.Logger.Debug("starting", logging.String("mode", mode.String()), logging.Int("workers", a.Config.Workers))

	switch mode {
	case config.ModeCompletion:
		return a.runCompletion(out)
	case config.ModeServe:
		return a.runServe(ctx)
	case config.ModeTUI:
		return a.runTUI(ctx)
	case config.ModeREPL:
		return a.runREPL(ctx, out)
	}
	return a.runBatch(ctx, out)
}

// runCompletion generates shell completion scripts.
func (a *Application) runCompletion(out io.Writer) int {
	if err := cli.GenerateCompletion(out, a.Config.Completion, ui.ThemeNames()); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error generating completion: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	return apperrors.ExitSuccess
}

// runServe starts the HTTP service and blocks until a signal arrives.
func (a *Application) runServe(ctx context.Context) int {
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	sec := server.DefaultSecurityConfig()
	sec.MaxExprLen = a.Config.MaxExprLen
	srv := server.New(server.Config{
		Addr:           a.Config.Addr,
		RequestTimeout: a.Config.Timeout,
		MaxPowerExp:    a.Config.MaxPowerExp,
		Security:       sec,
	}, a.Logger)

	if err := srv.Run(ctx); err != nil {
		a.Logger.Error("server stopped", err)
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

// runTUI launches the workbench, preloading any expressions or batch file.
func (a *Application) runTUI(ctx context.Context) int {
	preload, err := orchestration.CollectExpressions(a.Config, a.Stdin)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGTERM)
	defer stopSignals()
	return tui.Run(ctx, a.Config, preload, Version)
}

// runREPL starts the interactive prompt. Ctrl-C is handled by the line
// editor, so only SIGTERM ends the session from outside.
func (a *Application) runREPL(ctx context.Context, out io.Writer) int {
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGTERM)
	defer stopSignals()

	env := expr.NewEnv(expr.WithMaxPowerExp(a.Config.MaxPowerExp))
	repl := cli.NewREPL(env, cli.REPLConfig{
		Timeout: a.Config.Timeout,
		Verbose: a.Config.Verbose,
		Dump:    a.Config.Dump,
	})
	repl.SetInput(a.Stdin)
	repl.SetOutput(out)
	repl.Start(ctx)
	return apperrors.ExitSuccess
}

// runBatch evaluates the command-line expressions and the batch file.
func (a *Application) runBatch(ctx context.Context, out io.Writer) int {
	exprs, err := orchestration.CollectExpressions(a.Config, a.Stdin)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitErrorConfig
	}

	ctx, cancelTimeout := context.WithTimeout(ctx, a.Config.Timeout)
	defer cancelTimeout()
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	var reporter orchestration.ProgressReporter = cli.CLIProgressReporter{}
	if a.Config.Quiet || len(exprs) < 2 {
		reporter = orchestration.NullProgressReporter{}
	}

	env := expr.NewEnv(expr.WithMaxPowerExp(a.Config.MaxPowerExp))
	start := time.Now()
	results := orchestration.EvaluateBatch(ctx, exprs, orchestration.EnvEvaluator{Base: env}, a.Config, reporter, a.ErrWriter)
	a.Logger.Debug("batch evaluated",
		logging.Int("lines", len(results)),
		logging.Duration("elapsed", time.Since(start)))

	outCfg := cli.OutputConfig{
		OutputFile: a.Config.OutputFile,
		Quiet:      a.Config.Quiet,
		Verbose:    a.Config.Verbose,
		Dump:       a.Config.Dump,
	}
	code := orchestration.AnalyzeResults(results, outCfg.PresentationOptions(), cli.CLIResultPresenter{}, out)

	if err := cli.SaveResults(out, results, outCfg); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error writing results: %v\n", err)
		if code == apperrors.ExitSuccess {
			code = apperrors.ExitErrorGeneric
		}
	}
	if ctx.Err() != nil && code == apperrors.ExitSuccess {
		code = apperrors.ExitCodeFor(ctx.Err())
	}
	return code
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
