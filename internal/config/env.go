// Package config provides the configuration management for the qcross
// application. This file contains environment variable utilities for
// configuration override.
package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Environment Variable Utilities
// ─────────────────────────────────────────────────────────────────────────────

// getEnvString returns the value of the environment variable with the given key
// (prefixed with EnvPrefix), or the default value if not set.
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		return val
	}
	return defaultVal
}

// getEnvFloat64 returns the value of the environment variable with the given
// key (prefixed with EnvPrefix) parsed as float64, or the default value if
// not set or invalid.
func getEnvFloat64(key string, defaultVal float64) float64 {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			return parsed
		}
	}
	return defaultVal
}

// getEnvInt returns the value of the environment variable with the given key
// (prefixed with EnvPrefix) parsed as int, or the default value if not set
// or invalid.
func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

// getEnvBool returns the value of the environment variable with the given key
// (prefixed with EnvPrefix) parsed as bool, or the default value if not set.
// Accepts "true", "1", "yes" as true; "false", "0", "no" as false (case-insensitive).
func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		switch strings.ToLower(val) {
		case "true", "1", "yes":
			return true
		case "false", "0", "no":
			return false
		}
	}
	return defaultVal
}

// getEnvDuration returns the value of the environment variable with the given key
// (prefixed with EnvPrefix) parsed as time.Duration, or the default value if not
// set or invalid. Accepts formats like "5m", "30s", "1h30m".
func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

// isFlagSet checks if a flag was explicitly set on the command line.
// This is used to determine whether to apply environment variable overrides.
func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// applyEnvOverrides applies environment variable values to the configuration
// for any flags that were not explicitly set on the command line.
// This implements the priority: CLI flags > Environment variables > Defaults.
//
// Supported environment variables:
//   - QCROSS_PROBLEM: Catalog problem key (string)
//   - QCROSS_CLASSICAL_RUNTIME / QCROSS_QUANTUM_RUNTIME: Runtime formulas
//   - QCROSS_CLASSICAL_WORK / QCROSS_QUANTUM_WORK: Work formulas
//   - QCROSS_PENALTY: Penalty formula (string)
//   - QCROSS_QUBIT_MAPPING: Qubit mapping formula (string)
//   - QCROSS_SLOWDOWN / QCROSS_COST_FACTOR: Hardware factors (float64)
//   - QCROSS_PROCESSORS / QCROSS_QUBIT_RATIO: Hardware counts (float64)
//   - QCROSS_IMPROVEMENT_RATE / QCROSS_COST_IMPROVEMENT_RATE /
//     QCROSS_QUBIT_IMPROVEMENT_RATE: Percent-per-year rates (float64)
//   - QCROSS_BASE_YEAR: Base year (int)
//   - QCROSS_CATALOG / QCROSS_ROADMAP / QCROSS_MODEL: File paths (string)
//   - QCROSS_GROWTH_LAW: Roadmap extrapolation law (string)
//   - QCROSS_TIMEOUT: Calculation timeout (duration: "1m", "30s")
//   - QCROSS_PORT: Port for server mode (string)
//   - QCROSS_SERVER / QCROSS_JSON / QCROSS_CURVES / QCROSS_QUIET /
//     QCROSS_VERBOSE / QCROSS_NO_COLOR: Mode toggles (bool)
//   - QCROSS_OUTPUT: Output file path (string)
func applyEnvOverrides(config *AppConfig, fs *flag.FlagSet) {
	applyFormulaOverrides(config, fs)
	applyNumericOverrides(config, fs)
	applyStringOverrides(config, fs)
	applyBooleanOverrides(config, fs)
}

func applyFormulaOverrides(config *AppConfig, fs *flag.FlagSet) {
	if !isFlagSet(fs, "classical-runtime") {
		config.ClassicalRuntime = getEnvString("CLASSICAL_RUNTIME", config.ClassicalRuntime)
	}
	if !isFlagSet(fs, "quantum-runtime") {
		config.QuantumRuntime = getEnvString("QUANTUM_RUNTIME", config.QuantumRuntime)
	}
	if !isFlagSet(fs, "classical-work") {
		config.ClassicalWork = getEnvString("CLASSICAL_WORK", config.ClassicalWork)
	}
	if !isFlagSet(fs, "quantum-work") {
		config.QuantumWork = getEnvString("QUANTUM_WORK", config.QuantumWork)
	}
	if !isFlagSet(fs, "penalty") {
		config.Penalty = getEnvString("PENALTY", config.Penalty)
	}
	if !isFlagSet(fs, "qubit-mapping") {
		config.QubitMapping = getEnvString("QUBIT_MAPPING", config.QubitMapping)
	}
}

func applyNumericOverrides(config *AppConfig, fs *flag.FlagSet) {
	if !isFlagSet(fs, "slowdown") {
		config.Slowdown = getEnvFloat64("SLOWDOWN", config.Slowdown)
	}
	if !isFlagSet(fs, "cost-factor") {
		config.CostFactor = getEnvFloat64("COST_FACTOR", config.CostFactor)
	}
	if !isFlagSet(fs, "processors") {
		config.Processors = getEnvFloat64("PROCESSORS", config.Processors)
	}
	if !isFlagSet(fs, "improvement-rate") {
		config.ImprovementRate = getEnvFloat64("IMPROVEMENT_RATE", config.ImprovementRate)
	}
	if !isFlagSet(fs, "cost-improvement-rate") {
		config.CostImprovementRate = getEnvFloat64("COST_IMPROVEMENT_RATE", config.CostImprovementRate)
	}
	if !isFlagSet(fs, "qubit-improvement-rate") {
		config.QubitImprovementRate = getEnvFloat64("QUBIT_IMPROVEMENT_RATE", config.QubitImprovementRate)
	}
	if !isFlagSet(fs, "qubit-ratio") {
		config.Ratio = getEnvFloat64("QUBIT_RATIO", config.Ratio)
	}
	if !isFlagSet(fs, "base-year") {
		config.BaseYear = getEnvInt("BASE_YEAR", config.BaseYear)
	}
	if !isFlagSet(fs, "timeout") {
		config.Timeout = getEnvDuration("TIMEOUT", config.Timeout)
	}
}

func applyStringOverrides(config *AppConfig, fs *flag.FlagSet) {
	if !isFlagSet(fs, "problem") {
		config.Problem = getEnvString("PROBLEM", config.Problem)
	}
	if !isFlagSet(fs, "catalog") {
		config.CatalogFile = getEnvString("CATALOG", config.CatalogFile)
	}
	if !isFlagSet(fs, "roadmap") {
		config.RoadmapFile = getEnvString("ROADMAP", config.RoadmapFile)
	}
	if !isFlagSet(fs, "growth-law") {
		config.GrowthLaw = getEnvString("GROWTH_LAW", config.GrowthLaw)
	}
	if !isFlagSet(fs, "model") {
		config.ModelFile = getEnvString("MODEL", config.ModelFile)
	}
	if !isFlagSet(fs, "port") {
		config.Port = getEnvString("PORT", config.Port)
	}
	if !isFlagSet(fs, "output") && !isFlagSet(fs, "o") {
		config.OutputFile = getEnvString("OUTPUT", config.OutputFile)
	}
}

func applyBooleanOverrides(config *AppConfig, fs *flag.FlagSet) {
	if !isFlagSet(fs, "server") {
		config.ServerMode = getEnvBool("SERVER", config.ServerMode)
	}
	if !isFlagSet(fs, "json") {
		config.JSONOutput = getEnvBool("JSON", config.JSONOutput)
	}
	if !isFlagSet(fs, "curves") {
		config.Curves = getEnvBool("CURVES", config.Curves)
	}
	if !isFlagSet(fs, "quiet") && !isFlagSet(fs, "q") {
		config.Quiet = getEnvBool("QUIET", config.Quiet)
	}
	if !isFlagSet(fs, "v") {
		config.Verbose = getEnvBool("VERBOSE", config.Verbose)
	}
	if !isFlagSet(fs, "no-color") {
		config.NoColor = getEnvBool("NO_COLOR", config.NoColor)
	}
}
