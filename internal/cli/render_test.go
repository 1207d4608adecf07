package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/MIT-FutureTech/quantum-framework/internal/advantage"
	"github.com/MIT-FutureTech/quantum-framework/internal/service"
	"github.com/MIT-FutureTech/quantum-framework/internal/testutil"
	"github.com/MIT-FutureTech/quantum-framework/internal/ui"
)

func sampleModel() *advantage.Model {
	return &advantage.Model{
		ClassicalRuntime:     "n^3",
		QuantumRuntime:       "n^2",
		ClassicalWork:        "n^3",
		QuantumWork:          "(n^2) * q",
		QubitMapping:         "2^q",
		Slowdown:             1e10,
		CostFactor:           1e10,
		Processors:           1,
		PhysicalLogicalRatio: 1000,
		BaseYear:             2026,
	}
}

func sampleReport() *service.Report {
	return &service.Report{
		Size:        advantage.FiniteResult(10),
		Cost:        advantage.NeverResult(),
		Feasibility: advantage.FiniteResult(2031.3),
	}
}

func TestFormatExecutionDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{500 * time.Microsecond, "500µs"},
		{250 * time.Millisecond, "250ms"},
		{3 * time.Second, "3s"},
	}
	for _, tt := range tests {
		if got := FormatExecutionDuration(tt.d); got != tt.want {
			t.Errorf("FormatExecutionDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestFormatSize(t *testing.T) {
	if got := FormatSize(2); got != "100" {
		t.Errorf("FormatSize(2) = %q, want 100", got)
	}
	if got := FormatSize(50); got != "10^50.00" {
		t.Errorf("FormatSize(50) = %q, want 10^50.00", got)
	}
}

func TestFormatResult(t *testing.T) {
	tests := []struct {
		name string
		r    advantage.Result
		axis string
		want string
	}{
		{"finite size", advantage.FiniteResult(10), "size", "n = 10^10.00 (log10 = 10.0000)"},
		{"finite year", advantage.FiniteResult(2031.34), "year", "2031.3"},
		{"always size", advantage.AlwaysResult(0.301), "size", "always (from n = 2)"},
		{"already feasible", advantage.AlwaysResult(2026), "year", "already feasible (2026)"},
		{"never", advantage.NeverResult(), "size", "no crossover in range"},
		{"undefined", advantage.UndefinedResult(), "size", "undefined (formulas not evaluable)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatResult(tt.r, tt.axis); got != tt.want {
				t.Errorf("FormatResult = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderReportSummary(t *testing.T) {
	ui.SetTheme("dark")
	t.Cleanup(func() { ui.SetTheme("dark") })

	var buf bytes.Buffer
	err := RenderReport(&buf, "integer-factoring", sampleModel(), sampleReport(), OutputOptions{Verbose: true})
	if err != nil {
		t.Fatalf("RenderReport failed: %v", err)
	}

	out := testutil.StripAnsiCodes(buf.String())
	for _, want := range []string{
		"Crossover Analysis: integer-factoring",
		"Size crossover",
		"10^10.00",
		"no crossover in range",
		"2031.3",
		"n^3",
		"2^q",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderReportQuiet(t *testing.T) {
	var buf bytes.Buffer
	err := RenderReport(&buf, "", sampleModel(), sampleReport(), OutputOptions{Quiet: true})
	if err != nil {
		t.Fatalf("RenderReport failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("quiet output has %d lines, want 3:\n%s", len(lines), buf.String())
	}
	if lines[0] != "size 10" || lines[1] != "cost never" || lines[2] != "feasibility 2031.3" {
		t.Errorf("quiet lines = %v", lines)
	}
}

func TestRenderReportJSON(t *testing.T) {
	var buf bytes.Buffer
	err := RenderReport(&buf, "integer-factoring", sampleModel(), sampleReport(), OutputOptions{JSON: true})
	if err != nil {
		t.Fatalf("RenderReport failed: %v", err)
	}

	var decoded jsonReport
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("JSON output does not decode: %v", err)
	}
	if decoded.Problem != "integer-factoring" {
		t.Errorf("problem = %q", decoded.Problem)
	}
	if decoded.Report.Size.Kind != advantage.Finite || decoded.Report.Size.Value != 10 {
		t.Errorf("size result = %+v", decoded.Report.Size)
	}
}

func TestWriteReportToFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "report.json")

	err := WriteReportToFile(path, "integer-factoring", sampleModel(), sampleReport())
	if err != nil {
		t.Fatalf("WriteReportToFile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading exported file: %v", err)
	}
	var decoded jsonReport
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("exported file does not decode: %v", err)
	}
	if decoded.Model.ClassicalRuntime != "n^3" {
		t.Errorf("exported classical runtime = %q", decoded.Model.ClassicalRuntime)
	}
}

func TestNewProgressSpinnerQuiet(t *testing.T) {
	s := NewProgressSpinner(true, os.Stderr)
	// The no-op spinner must be safe to drive without a terminal.
	s.Start()
	s.UpdateSuffix("working")
	s.Stop()
}
