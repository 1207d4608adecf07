// The cli package renders crossover reports for the terminal: a colored
// tabular summary by default, single-line values in quiet mode, JSON for
// machine consumption, and optional file export.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/MIT-FutureTech/quantum-framework/internal/advantage"
	"github.com/MIT-FutureTech/quantum-framework/internal/service"
)

// OutputOptions controls how a report is rendered.
type OutputOptions struct {
	// JSON emits the whole report as indented JSON.
	JSON bool
	// Quiet emits one value per line for scripting.
	Quiet bool
	// Verbose includes the model's formulas in the summary.
	Verbose bool
	// OutputFile, when set, additionally exports the report to this path.
	OutputFile string
}

// FormatExecutionDuration formats a time.Duration for display.
// It shows microseconds for durations less than a millisecond, milliseconds
// for durations less than a second, and the default representation otherwise.
func FormatExecutionDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	} else if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.String()
}

// FormatSize renders a log10 problem size compactly: plain digits while the
// magnitude is small, power-of-ten notation beyond that.
func FormatSize(logSize float64) string {
	if math.Abs(logSize) < 6 {
		return fmt.Sprintf("%.4g", math.Pow(10, logSize))
	}
	return fmt.Sprintf("10^%.2f", logSize)
}

// FormatResult renders a crossover result for humans. axis distinguishes the
// size-valued results from the year-valued feasibility result.
func FormatResult(r advantage.Result, axis string) string {
	switch r.Kind {
	case advantage.Always:
		if axis == "year" {
			return fmt.Sprintf("already feasible (%d)", int(r.Value))
		}
		return fmt.Sprintf("always (from n = %s)", FormatSize(r.Value))
	case advantage.Never:
		return "no crossover in range"
	case advantage.Undefined:
		return "undefined (formulas not evaluable)"
	default:
		if axis == "year" {
			return fmt.Sprintf("%.1f", r.Value)
		}
		return fmt.Sprintf("n = %s (log10 = %.4f)", FormatSize(r.Value), r.Value)
	}
}

// quietValue is the scripting-friendly single token for a result.
func quietValue(r advantage.Result) string {
	switch r.Kind {
	case advantage.Finite, advantage.Always:
		return fmt.Sprintf("%g", r.Value)
	default:
		return r.Kind.String()
	}
}

// jsonReport is the envelope used for JSON output and file export.
type jsonReport struct {
	Problem   string           `json:"problem,omitempty"`
	Model     *advantage.Model `json:"model"`
	Report    *service.Report  `json:"report"`
	Generated time.Time        `json:"generated"`
}

// RenderReport writes the report to out in the configured format and exports
// it to a file when requested.
//
// Parameters:
//   - out: The destination writer (typically stdout).
//   - problem: The catalog problem name, empty for ad-hoc formula input.
//   - m: The model that was calculated.
//   - report: The calculation outputs.
//   - opts: Rendering options.
//
// Returns:
//   - error: An error if JSON encoding or file export fails.
func RenderReport(out io.Writer, problem string, m *advantage.Model, report *service.Report, opts OutputOptions) error {
	switch {
	case opts.JSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(jsonReport{Problem: problem, Model: m, Report: report, Generated: time.Now()}); err != nil {
			return fmt.Errorf("encoding report: %w", err)
		}
	case opts.Quiet:
		fmt.Fprintf(out, "size %s\n", quietValue(report.Size))
		fmt.Fprintf(out, "cost %s\n", quietValue(report.Cost))
		fmt.Fprintf(out, "feasibility %s\n", quietValue(report.Feasibility))
	default:
		renderSummary(out, problem, m, report, opts.Verbose)
	}

	if opts.OutputFile != "" {
		return WriteReportToFile(opts.OutputFile, problem, m, report)
	}
	return nil
}

func renderSummary(out io.Writer, problem string, m *advantage.Model, report *service.Report, verbose bool) {
	title := "Crossover Analysis"
	if problem != "" {
		title += ": " + problem
	}
	fmt.Fprintf(out, "\n%s%s%s\n\n", ColorBold(), title, ColorReset())

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "  %sSize crossover%s\t%s\n", ColorCyan(), ColorReset(), colorize(report.Size, FormatResult(report.Size, "size")))
	fmt.Fprintf(w, "  %sCost crossover%s\t%s\n", ColorCyan(), ColorReset(), colorize(report.Cost, FormatResult(report.Cost, "size")))
	fmt.Fprintf(w, "  %sFeasibility year%s\t%s\n", ColorCyan(), ColorReset(), colorize(report.Feasibility, FormatResult(report.Feasibility, "year")))

	if verbose {
		fmt.Fprintf(w, "  \t\n")
		fmt.Fprintf(w, "  Classical runtime\t%s\n", m.ClassicalRuntime)
		fmt.Fprintf(w, "  Quantum runtime\t%s\n", m.QuantumRuntime)
		fmt.Fprintf(w, "  Classical work\t%s\n", m.ClassicalWork)
		fmt.Fprintf(w, "  Quantum work\t%s\n", m.QuantumWork)
		if m.Penalty != "" {
			fmt.Fprintf(w, "  Penalty\t%s\n", m.Penalty)
		}
		fmt.Fprintf(w, "  Qubit mapping\t%s\n", m.QubitMapping)
		fmt.Fprintf(w, "  Slowdown\t%g\n", m.Slowdown)
		fmt.Fprintf(w, "  Cost factor\t%g\n", m.CostFactor)
		fmt.Fprintf(w, "  Base year\t%d\n", m.BaseYear)
	}
	w.Flush()
	fmt.Fprintln(out)

	if report.Curves != nil {
		points := 0
		for _, s := range append(report.Curves.CostVersusSize, report.Curves.FeasibilityVersusYear...) {
			points += len(s.Points)
		}
		fmt.Fprintf(out, "  %sSampled %d curve points (use -json or -output for the data)%s\n\n",
			ColorCyan(), points, ColorReset())
	}
}

func colorize(r advantage.Result, text string) string {
	switch r.Kind {
	case advantage.Finite, advantage.Always:
		return ColorGreen() + text + ColorReset()
	case advantage.Never:
		return ColorYellow() + text + ColorReset()
	default:
		return ColorRed() + text + ColorReset()
	}
}

// WriteReportToFile exports a report as JSON, creating parent directories as
// needed.
//
// Parameters:
//   - path: The destination file path.
//   - problem: The catalog problem name, may be empty.
//   - m: The calculated model.
//   - report: The calculation outputs.
//
// Returns:
//   - error: An error if the file cannot be written.
func WriteReportToFile(path, problem string, m *advantage.Model, report *service.Report) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(jsonReport{Problem: problem, Model: m, Report: report, Generated: time.Now()}); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
