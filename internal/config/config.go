// Package config provides the configuration management for the qcross
// application. It defines the data structure for the configuration, handles
// the parsing of command-line arguments and environment overrides, and
// performs validation on the configuration values.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	apperrors "github.com/MIT-FutureTech/quantum-framework/internal/errors"
)

// EnvPrefix is the prefix for all environment variables used by qcross.
// Environment variables provide an alternative to CLI flags for
// configuration, following the 12-Factor App methodology.
const EnvPrefix = "QCROSS_"

// Default configuration values. These can be overridden via command-line
// flags or environment variables.
const (
	// DefaultProblem is the catalog problem used when no formulas are given.
	DefaultProblem = "integer-factoring"
	// DefaultTimeout is the default calculation timeout.
	DefaultTimeout = time.Minute
	// DefaultPort is the default server port.
	DefaultPort = "8080"
	// DefaultGrowthLaw is the default roadmap extrapolation law.
	DefaultGrowthLaw = "exponential"
	// DefaultSlowdown is the default quantum hardware slowdown factor.
	DefaultSlowdown = 1e6
	// DefaultCostFactor is the default quantum operation cost factor.
	DefaultCostFactor = 1e6
	// DefaultProcessors is the default classical processor count.
	DefaultProcessors = 1.0
	// DefaultRatio is the default physical-to-logical qubit ratio.
	DefaultRatio = 1000.0
	// DefaultBaseYear anchors the year-offset adjustments.
	DefaultBaseYear = 2026
)

// AppConfig aggregates the application's configuration parameters, parsed
// from command-line flags. Formula flags override the ones selected from the
// problem catalog; hardware parameters feed the crossover model directly.
type AppConfig struct {
	// Problem is the catalog problem key supplying default formulas.
	Problem string
	// ClassicalRuntime overrides the catalog's classical runtime formula.
	ClassicalRuntime string
	// QuantumRuntime overrides the catalog's quantum runtime formula.
	QuantumRuntime string
	// ClassicalWork overrides the catalog's classical work formula.
	ClassicalWork string
	// QuantumWork overrides the catalog's quantum work formula.
	QuantumWork string
	// Penalty is the connectivity-overhead formula (empty for none).
	Penalty string
	// QubitMapping overrides the catalog's qubit-to-size mapping formula.
	QubitMapping string

	// Slowdown is the quantum hardware slowdown factor.
	Slowdown float64
	// CostFactor is the per-operation quantum cost factor.
	CostFactor float64
	// Processors is the classical processor count at the base year.
	Processors float64
	// ImprovementRate is the quantum improvement rate in percent per year.
	ImprovementRate float64
	// CostImprovementRate is the classical cost improvement rate in percent
	// per year.
	CostImprovementRate float64
	// QubitImprovementRate is the error-correction overhead improvement
	// rate in percent per year.
	QubitImprovementRate float64
	// Ratio is the physical-to-logical qubit ratio at the base year.
	Ratio float64
	// BaseYear anchors all year-offset adjustments.
	BaseYear int

	// CatalogFile is an optional path replacing the embedded catalog.
	CatalogFile string
	// RoadmapFile is an optional JSON file of (year, qubits) anchors.
	RoadmapFile string
	// GrowthLaw selects the roadmap extrapolation law.
	GrowthLaw string
	// ModelFile is an optional JSON file carrying a complete model; its
	// fields are applied before individual flag overrides.
	ModelFile string

	// Curves, if true, samples the plot datasets alongside the crossovers.
	Curves bool
	// Timeout sets the maximum duration for one calculation pass.
	Timeout time.Duration
	// JSONOutput, if true, outputs the result in JSON format.
	JSONOutput bool
	// ServerMode, if true, starts the application as an HTTP server.
	ServerMode bool
	// Port specifies the port to listen on in server mode.
	Port string
	// NoColor, if true, disables all color output in the CLI.
	// Also respects the NO_COLOR environment variable.
	NoColor bool
	// OutputFile, if specified, saves the result to this file path.
	OutputFile string
	// Quiet mode - minimal output for scripting purposes.
	Quiet bool
	// Verbose, if true, includes per-year detail in the rendered output.
	Verbose bool
}

// Validate checks the semantic consistency of the configuration parameters.
//
// Parameters:
//   - availableProblems: The valid catalog problem keys.
//
// Returns:
//   - error: An error of type ConfigError if the configuration is invalid,
//     nil otherwise.
func (c AppConfig) Validate(availableProblems []string) error {
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("timeout value must be strictly positive")
	}
	if c.Slowdown <= 0 {
		return apperrors.NewConfigError("slowdown must be strictly positive: %g", c.Slowdown)
	}
	if c.CostFactor <= 0 {
		return apperrors.NewConfigError("cost factor must be strictly positive: %g", c.CostFactor)
	}
	if c.Processors < 1 {
		return apperrors.NewConfigError("processor count must be at least 1: %g", c.Processors)
	}
	if c.Ratio < 1 {
		return apperrors.NewConfigError("physical-to-logical qubit ratio must be at least 1: %g", c.Ratio)
	}
	if c.GrowthLaw != "exponential" && c.GrowthLaw != "linear" {
		return apperrors.NewConfigError("unrecognized growth law: '%s'. Valid laws are: exponential, linear", c.GrowthLaw)
	}

	// A problem key only matters when the catalog must supply formulas.
	if c.ModelFile == "" && c.ClassicalRuntime == "" {
		available := false
		for _, p := range availableProblems {
			if p == c.Problem {
				available = true
				break
			}
		}
		if !available {
			return apperrors.NewConfigError("unrecognized problem: '%s'. Valid problems are: [%s]",
				c.Problem, strings.Join(availableProblems, ", "))
		}
	}
	return nil
}

// ParseConfig parses the command-line arguments and populates an AppConfig
// struct. It defines all the command-line flags, sets their default values,
// applies environment overrides for flags not explicitly set, and validates
// the result.
//
// Parameters:
//   - programName: The name of the program, used in the usage message.
//   - args: A slice of strings representing the command-line arguments
//     (typically os.Args[1:]).
//   - errorWriter: An io.Writer where parsing errors and usage information
//     will be printed.
//   - availableProblems: The valid catalog problem keys for validation.
//
// Returns:
//   - AppConfig: The populated configuration struct.
//   - error: An error if flag parsing fails or validation fails.
func ParseConfig(programName string, args []string, errorWriter io.Writer, availableProblems []string) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)
	problemHelp := fmt.Sprintf("Catalog problem to analyze: one of [%s].", strings.Join(availableProblems, ", "))

	config := AppConfig{}
	fs.StringVar(&config.Problem, "problem", DefaultProblem, problemHelp)
	fs.StringVar(&config.ClassicalRuntime, "classical-runtime", "", "Classical runtime formula over n and p (overrides the catalog).")
	fs.StringVar(&config.QuantumRuntime, "quantum-runtime", "", "Quantum runtime formula over n and q (overrides the catalog).")
	fs.StringVar(&config.ClassicalWork, "classical-work", "", "Classical work formula (overrides the catalog).")
	fs.StringVar(&config.QuantumWork, "quantum-work", "", "Quantum work formula (overrides the catalog).")
	fs.StringVar(&config.Penalty, "penalty", "", "Connectivity penalty formula applied to the quantum side.")
	fs.StringVar(&config.QubitMapping, "qubit-mapping", "", "Qubit-to-problem-size mapping formula (overrides the catalog).")

	fs.Float64Var(&config.Slowdown, "slowdown", DefaultSlowdown, "Quantum hardware slowdown factor.")
	fs.Float64Var(&config.CostFactor, "cost-factor", DefaultCostFactor, "Quantum operation cost factor.")
	fs.Float64Var(&config.Processors, "processors", DefaultProcessors, "Classical processor count at the base year.")
	fs.Float64Var(&config.ImprovementRate, "improvement-rate", 0, "Quantum improvement rate in percent per year.")
	fs.Float64Var(&config.CostImprovementRate, "cost-improvement-rate", 0, "Classical cost improvement rate in percent per year.")
	fs.Float64Var(&config.QubitImprovementRate, "qubit-improvement-rate", 0, "Qubit overhead improvement rate in percent per year.")
	fs.Float64Var(&config.Ratio, "qubit-ratio", DefaultRatio, "Physical qubits per logical qubit.")
	fs.IntVar(&config.BaseYear, "base-year", DefaultBaseYear, "Base year anchoring the adjustments.")

	fs.StringVar(&config.CatalogFile, "catalog", "", "Path to a JSON problem catalog (default: embedded catalog).")
	fs.StringVar(&config.RoadmapFile, "roadmap", "", "Path to a JSON roadmap of (year, qubits) anchors.")
	fs.StringVar(&config.GrowthLaw, "growth-law", DefaultGrowthLaw, "Roadmap extrapolation law: exponential or linear.")
	fs.StringVar(&config.ModelFile, "model", "", "Path to a JSON model file (flags override its fields).")

	fs.BoolVar(&config.Curves, "curves", false, "Sample the plot datasets alongside the crossovers.")
	fs.DurationVar(&config.Timeout, "timeout", DefaultTimeout, "Maximum execution time for one calculation pass.")
	fs.BoolVar(&config.JSONOutput, "json", false, "Output results in JSON format.")
	fs.BoolVar(&config.ServerMode, "server", false, "Start in HTTP server mode.")
	fs.StringVar(&config.Port, "port", DefaultPort, "Port to listen on in server mode.")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colored output (also respects NO_COLOR env var).")
	fs.StringVar(&config.OutputFile, "output", "", "Output file path for the result.")
	fs.StringVar(&config.OutputFile, "o", "", "Output file path (shorthand).")
	fs.BoolVar(&config.Quiet, "quiet", false, "Quiet mode - minimal output for scripts.")
	fs.BoolVar(&config.Quiet, "q", false, "Quiet mode (shorthand).")
	fs.BoolVar(&config.Verbose, "v", false, "Verbose output.")

	setCustomUsage(fs)

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}

	// Apply environment variable overrides for flags not explicitly set
	applyEnvOverrides(&config, fs)

	config.Problem = strings.ToLower(config.Problem)
	config.GrowthLaw = strings.ToLower(config.GrowthLaw)
	if err := config.Validate(availableProblems); err != nil {
		fmt.Fprintln(errorWriter, "Configuration error:", err)
		fs.Usage()
		return AppConfig{}, errors.New("invalid configuration")
	}
	return config, nil
}
