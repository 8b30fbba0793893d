package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/big"
	"time"

	"github.com/agbru/combicalc/internal/cli"
	"github.com/agbru/combicalc/internal/combin"
	"github.com/agbru/combicalc/internal/config"
	apperrors "github.com/agbru/combicalc/internal/errors"
	"github.com/agbru/combicalc/internal/logging"
	"github.com/agbru/combicalc/internal/orchestration"
	"github.com/agbru/combicalc/internal/server"
	"github.com/agbru/combicalc/internal/service"
	"github.com/agbru/combicalc/internal/ui"
)

// Application represents the combicalc application instance.
// It encapsulates the configuration and provides methods to run
// the application in its CLI and server modes.
type Application struct {
	// Config holds the parsed application configuration.
	Config config.AppConfig
	// Factory provides access to the registered counters.
	Factory combin.CounterFactory
	// ErrWriter is the writer for error output (typically os.Stderr).
	ErrWriter io.Writer
}

// New creates a new Application instance by parsing command-line arguments.
// It validates the configuration and returns an error if parsing or validation fails.
//
// Parameters:
//   - args: The command-line arguments (typically os.Args).
//   - errWriter: The writer for error output.
//
// Returns:
//   - *Application: A new application instance.
//   - error: An error if configuration parsing or validation fails.
func New(args []string, errWriter io.Writer) (*Application, error) {
	factory := combin.GlobalFactory()

	// args[0] is program name, args[1:] are the actual arguments
	programName := "combicalc"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter, factory.List())
	if err != nil {
		return nil, err
	}
	return &Application{
		Config:    cfg,
		Factory:   factory,
		ErrWriter: errWriter,
	}, nil
}

// Run executes the application based on the configured mode.
// It dispatches to the appropriate handler (completion, server, or one CLI
// operation).
//
// Parameters:
//   - ctx: The context for managing cancellation and timeouts.
//   - out: The writer for standard output.
//
// Returns:
//   - int: An exit code (0 for success, non-zero for errors).
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.Completion != "" {
		return a.runCompletion(out)
	}

	// Respects --no-color, NO_COLOR and COMBICALC_THEME.
	ui.InitTheme(a.Config.NoColor)

	if a.Config.ServerMode {
		return a.runServer()
	}
	return a.runOperation(ctx, out)
}

// runCompletion generates shell completion scripts.
func (a *Application) runCompletion(out io.Writer) int {
	if err := cli.GenerateCompletion(out, a.Config.Completion, a.Factory.List()); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error generating completion: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	return apperrors.ExitSuccess
}

// runServer starts the HTTP server mode.
func (a *Application) runServer() int {
	srv := server.NewServer(a.Factory, a.Config)
	if err := srv.Start(); err != nil {
		fmt.Fprintf(a.ErrWriter, "Server error: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

// runOperation runs the configured -op under the timeout and signal
// lifecycle.
func (a *Application) runOperation(ctx context.Context, out io.Writer) int {
	ctx, lc := SetupLifecycle(ctx, a.Config.Timeout)
	defer lc.Cleanup()

	interactive := !a.Config.JSONOutput && !a.Config.Quiet
	if interactive {
		cli.PrintExecutionConfig(a.Config, out)
	}

	svc := service.NewEnumerationService(a.Factory, service.Limits{})
	outputCfg := cli.OutputConfig{
		OutputFile: a.Config.OutputFile,
		JSON:       a.Config.JSONOutput,
		Quiet:      a.Config.Quiet,
		Verbose:    a.Config.Verbose,
	}

	start := time.Now()
	var result any
	var err error
	switch a.Config.Op {
	case config.OpCount:
		var code int
		result, code, err = a.count(ctx, svc, interactive, out)
		if code != apperrors.ExitSuccess {
			return code
		}
	case config.OpRank:
		var c combin.Combination
		if c, err = a.Config.ParsedCombination(); err == nil {
			result, err = svc.Rank(ctx, a.Config.N, a.Config.K, c)
		}
	case config.OpUnrank:
		var r *big.Int
		if r, err = a.Config.ParsedRank(); err == nil {
			result, err = svc.Unrank(ctx, a.Config.N, a.Config.K, r)
		}
	case config.OpPartition:
		result, err = svc.Partition(ctx, a.Config.N, a.Config.K, a.Config.Workers)
	case config.OpSweep:
		return a.sweep(ctx, out)
	default:
		err = apperrors.NewConfigError("unrecognized operation: '%s'", a.Config.Op)
	}
	if err != nil {
		err = apperrors.NewEnumerationError(a.Config.Op, err)
		return apperrors.HandleRunError(err, time.Since(start), out, ui.Colors{})
	}

	if interactive {
		fmt.Fprintln(out)
	}
	if err := cli.DisplayResultWithConfig(out, result, outputCfg); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error writing result: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

// count computes C(n, k). With -algo all and several registered counters,
// every counter runs concurrently first and must agree; the comparison table
// is only shown in interactive output.
func (a *Application) count(ctx context.Context, svc service.Service, interactive bool, out io.Writer) (any, int, error) {
	counters := cli.GetCountersToRun(a.Config, a.Factory)
	if interactive {
		cli.PrintExecutionMode(counters, out)
	}

	name := a.Config.Algo
	if len(counters) > 1 {
		tableOut := out
		if !interactive {
			tableOut = io.Discard
		}
		results := orchestration.ExecuteCounts(ctx, counters, a.Config.N, a.Config.K)
		if code := orchestration.AnalyzeCountResults(results, tableOut); code != apperrors.ExitSuccess {
			if !interactive {
				fmt.Fprintf(a.ErrWriter, "Counter comparison failed with exit code %d\n", code)
			}
			return nil, code, nil
		}
	}
	if name == "all" {
		name = ""
	}
	resp, err := svc.Count(ctx, name, a.Config.N, a.Config.K)
	return resp, apperrors.ExitSuccess, err
}

// sweep enumerates the whole space across the configured workers and checks
// the result.
func (a *Application) sweep(ctx context.Context, out io.Writer) int {
	start := time.Now()
	p, err := combin.NewPartition(a.Config.N, a.Config.K, a.Config.Workers)
	if err != nil {
		err = apperrors.NewEnumerationError(config.OpSweep, err)
		return apperrors.HandleRunError(err, time.Since(start), out, ui.Colors{})
	}

	opts := orchestration.SweepOptions{Logger: logging.NewNopLogger()}
	progressOut := out
	switch {
	case a.Config.JSONOutput || a.Config.Quiet:
		progressOut = io.Discard
	case a.Config.Verbose:
		opts.Verbose = true
		opts.Logger = logging.NewLogger(a.ErrWriter, "sweep", true)
	}

	report := orchestration.ExecuteSweep(ctx, p, opts, progressOut)
	switch {
	case a.Config.JSONOutput:
		summary := orchestration.Summary(report)
		if err := cli.WriteJSON(out, summary); err != nil {
			return apperrors.ExitErrorGeneric
		}
		if apperrors.IsContextError(report.Err) {
			return apperrors.HandleRunError(report.Err, report.Duration, io.Discard, nil)
		}
		if !summary.Valid {
			return apperrors.ExitErrorMismatch
		}
		return apperrors.ExitSuccess
	case a.Config.Quiet:
		code := orchestration.AnalyzeSweep(report, io.Discard)
		if code == apperrors.ExitSuccess {
			fmt.Fprintln(out, cli.FormatQuietResult(orchestration.Summary(report)))
		}
		return code
	}
	return orchestration.AnalyzeSweep(report, out)
}

// IsHelpError checks if the error is a help flag error (--help was used).
// This is useful for determining if the application should exit with success
// after displaying help text.
//
// Parameters:
//   - err: The error to check.
//
// Returns:
//   - bool: True if the error indicates help was requested.
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
