package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/MIT-FutureTech/quantum-framework/internal/advantage"
	"github.com/MIT-FutureTech/quantum-framework/internal/catalog"
	"github.com/MIT-FutureTech/quantum-framework/internal/cli"
	"github.com/MIT-FutureTech/quantum-framework/internal/config"
	apperrors "github.com/MIT-FutureTech/quantum-framework/internal/errors"
	"github.com/MIT-FutureTech/quantum-framework/internal/server"
	"github.com/MIT-FutureTech/quantum-framework/internal/service"
	"github.com/MIT-FutureTech/quantum-framework/internal/ui"
)

// Application represents the qcross application instance.
// It encapsulates the configuration and provides methods to run
// the application in its two modes (CLI estimate, HTTP server).
type Application struct {
	// Config holds the parsed application configuration.
	Config config.AppConfig
	// Catalog is the loaded algorithm catalog.
	Catalog *catalog.Catalog
	// ErrWriter is the writer for error output (typically os.Stderr).
	ErrWriter io.Writer
}

// New creates a new Application instance by parsing command-line arguments.
// It loads the algorithm catalog (embedded by default, or the file named by
// -catalog), validates the configuration against it, and returns an error if
// parsing or validation fails.
//
// Parameters:
//   - args: The command-line arguments (typically os.Args).
//   - errWriter: The writer for error output.
//
// Returns:
//   - *Application: A new application instance.
//   - error: An error if configuration parsing or validation fails.
func New(args []string, errWriter io.Writer) (*Application, error) {
	// args[0] is program name, args[1:] are the actual arguments
	programName := "qcross"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	// The embedded catalog supplies the valid problem keys for flag
	// validation; a -catalog file replaces it after parsing.
	cat, err := catalog.Default()
	if err != nil {
		return nil, err
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter, cat.Keys())
	if err != nil {
		return nil, err
	}

	if cfg.CatalogFile != "" {
		cat, err = catalog.Load(cfg.CatalogFile)
		if err != nil {
			return nil, err
		}
		if _, ok := cat.Problem(cfg.Problem); !ok && cfg.ClassicalRuntime == "" && cfg.ModelFile == "" {
			return nil, apperrors.NewConfigError("problem %q not present in catalog %s", cfg.Problem, cfg.CatalogFile)
		}
	}

	return &Application{
		Config:    cfg,
		Catalog:   cat,
		ErrWriter: errWriter,
	}, nil
}

// Run executes the application based on the configured mode.
// It dispatches to the server or the CLI estimate handler.
//
// Parameters:
//   - ctx: The context for managing cancellation and timeouts.
//   - out: The writer for standard output.
//
// Returns:
//   - int: An exit code (0 for success, non-zero for errors).
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	// Initialize CLI theme (respects --no-color flag and NO_COLOR env var)
	ui.InitTheme(a.Config.NoColor)

	if a.Config.ServerMode {
		return a.runServer()
	}

	return a.runEstimate(ctx, out)
}

// runServer starts the HTTP server mode.
func (a *Application) runServer() int {
	srv := server.NewServer(a.Catalog, a.Config)
	if err := srv.Start(); err != nil {
		fmt.Fprintf(a.ErrWriter, "Server error: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
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

// runEstimate runs one CLI calculation pass: model assembly, the three
// crossover estimates, and report rendering.
func (a *Application) runEstimate(ctx context.Context, out io.Writer) int {
	ctx, cancel := estimateContext(ctx, a.Config.Timeout)
	defer cancel()

	model, problem, err := a.buildModel()
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Configuration error: %v\n", err)
		return apperrors.ExitErrorConfig
	}

	svc := service.NewCrossoverService(advantage.NewCalculator(), a.Config.Curves)

	// Progress display goes to stderr so stdout stays parseable.
	quiet := a.Config.Quiet || a.Config.JSONOutput
	spin := cli.NewProgressSpinner(quiet, a.ErrWriter)
	spin.Start()

	start := time.Now()
	report, err := svc.Crossover(ctx, model)
	duration := time.Since(start)
	spin.Stop()

	if err != nil {
		return apperrors.HandleCalculationError(err, duration, a.ErrWriter, cli.CLIColorProvider{})
	}

	opts := cli.OutputOptions{
		JSON:       a.Config.JSONOutput,
		Quiet:      a.Config.Quiet,
		Verbose:    a.Config.Verbose,
		OutputFile: a.Config.OutputFile,
	}
	if err := cli.RenderReport(out, problem, model, report, opts); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error rendering report: %v\n", err)
		return apperrors.ExitErrorGeneric
	}

	if !quiet && a.Config.OutputFile != "" {
		fmt.Fprintf(out, "\n%s✓ Report saved to: %s%s%s\n",
			cli.ColorGreen(), cli.ColorCyan(), a.Config.OutputFile, cli.ColorReset())
	}

	return apperrors.ExitSuccess
}
