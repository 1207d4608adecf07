package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperrors "github.com/MIT-FutureTech/quantum-framework/internal/errors"
)

// newTestApp parses the given flags into an Application, failing the test on
// configuration errors.
func newTestApp(t *testing.T, args ...string) *Application {
	t.Helper()
	full := append([]string{"qcross"}, args...)
	a, err := New(full, io.Discard)
	if err != nil {
		t.Fatalf("New(%v): %v", args, err)
	}
	return a
}

func TestNewInvalidFlag(t *testing.T) {
	var errBuf bytes.Buffer
	if _, err := New([]string{"qcross", "-no-such-flag"}, &errBuf); err == nil {
		t.Error("expected an error for an unknown flag")
	}
}

func TestNewInvalidProblem(t *testing.T) {
	var errBuf bytes.Buffer
	if _, err := New([]string{"qcross", "-problem", "halting"}, &errBuf); err == nil {
		t.Error("expected an error for an unknown problem")
	}
}

func TestNewDefaults(t *testing.T) {
	a := newTestApp(t)
	if a.Config.Problem != "integer-factoring" {
		t.Errorf("unexpected default problem %q", a.Config.Problem)
	}
	if a.Catalog == nil {
		t.Fatal("catalog not loaded")
	}
	if _, ok := a.Catalog.Problem("integer-factoring"); !ok {
		t.Error("embedded catalog missing integer-factoring")
	}
}

func TestBuildModelCatalogDefaults(t *testing.T) {
	a := newTestApp(t)

	m, problem, err := a.buildModel()
	if err != nil {
		t.Fatalf("buildModel: %v", err)
	}
	if problem != "integer-factoring" {
		t.Errorf("expected catalog problem, got %q", problem)
	}
	if m.ClassicalRuntime == "" || m.QuantumRuntime == "" || m.QubitMapping == "" {
		t.Errorf("catalog formulas not applied: %+v", m)
	}
	if m.Slowdown != 1e6 || m.PhysicalLogicalRatio != 1000 || m.BaseYear != 2026 {
		t.Errorf("hardware defaults not applied: %+v", m)
	}
	if err := m.Validate(); err != nil {
		t.Errorf("resolved model should validate: %v", err)
	}
}

func TestBuildModelExplicitFormulas(t *testing.T) {
	a := newTestApp(t,
		"-classical-runtime", "O(n^3)",
		"-quantum-runtime", "O(n^2)",
		"-classical-work", "O(n^3)",
		"-quantum-work", "(n^2) * q",
		"-qubit-mapping", "2^q",
	)

	m, problem, err := a.buildModel()
	if err != nil {
		t.Fatalf("buildModel: %v", err)
	}
	if problem != "" {
		t.Errorf("explicit formulas should not report a catalog problem, got %q", problem)
	}
	if m.ClassicalRuntime != "n^3" {
		t.Errorf("O() wrapper not normalized away: %q", m.ClassicalRuntime)
	}
	if m.QubitMapping != "2^q" {
		t.Errorf("unexpected mapping %q", m.QubitMapping)
	}
}

func TestBuildModelBadFormula(t *testing.T) {
	a := newTestApp(t, "-classical-runtime", "n^^3", "-quantum-runtime", "n")

	if _, _, err := a.buildModel(); err == nil {
		t.Error("expected a normalization error")
	}
}

func TestBuildModelFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.json")
	content := `{
		"classicalRuntime": "n^3",
		"quantumRuntime": "n^2",
		"classicalWork": "n^3",
		"quantumWork": "(n^2) * q",
		"qubitMapping": "2^q",
		"slowdown": 123,
		"baseYear": 2030,
		"roadmap": [{"year": 2030, "qubits": 500}]
	}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	t.Run("FileFieldsKept", func(t *testing.T) {
		a := newTestApp(t, "-model", path)
		m, problem, err := a.buildModel()
		if err != nil {
			t.Fatalf("buildModel: %v", err)
		}
		if problem != "" {
			t.Errorf("model file should not report a catalog problem, got %q", problem)
		}
		if m.Slowdown != 123 {
			t.Errorf("file slowdown overridden: got %g", m.Slowdown)
		}
		if m.BaseYear != 2030 {
			t.Errorf("file base year overridden: got %d", m.BaseYear)
		}
		if m.Roadmap == nil {
			t.Fatal("file roadmap not loaded")
		}
		if first, last := m.Roadmap.Span(); first != 2030 || last != 2030 {
			t.Errorf("unexpected roadmap span %d-%d", first, last)
		}
	})

	t.Run("FlagBeatsFile", func(t *testing.T) {
		a := newTestApp(t, "-model", path, "-slowdown", "5")
		m, _, err := a.buildModel()
		if err != nil {
			t.Fatalf("buildModel: %v", err)
		}
		if m.Slowdown != 5 {
			t.Errorf("explicit flag should win: got %g", m.Slowdown)
		}
	})

	t.Run("MissingFile", func(t *testing.T) {
		a := newTestApp(t, "-model", filepath.Join(dir, "absent.json"))
		if _, _, err := a.buildModel(); err == nil {
			t.Error("expected an error for a missing model file")
		}
	})
}

func TestBuildModelRoadmapFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "roadmap.json")
	content := `[{"year": 2024, "qubits": 1000}, {"year": 2026, "qubits": 4000}]`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	a := newTestApp(t, "-roadmap", path, "-growth-law", "exponential")
	m, _, err := a.buildModel()
	if err != nil {
		t.Fatalf("buildModel: %v", err)
	}
	if m.Roadmap == nil {
		t.Fatal("roadmap projection missing")
	}
	if first, last := m.Roadmap.Span(); first != 2024 || last != 2026 {
		t.Errorf("unexpected roadmap span %d-%d", first, last)
	}
}

func TestRunQuiet(t *testing.T) {
	a := newTestApp(t,
		"-classical-runtime", "n^3",
		"-quantum-runtime", "n^2",
		"-classical-work", "n^3",
		"-quantum-work", "(n^2) * q",
		"-qubit-mapping", "2^q",
		"-slowdown", "1e10",
		"-q", "-no-color",
	)

	var out bytes.Buffer
	code := a.Run(context.Background(), &out)
	if code != apperrors.ExitSuccess {
		t.Fatalf("expected success, got exit code %d (output %s)", code, out.String())
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 quiet lines, got %d: %q", len(lines), out.String())
	}
	if !strings.HasPrefix(lines[0], "size ") {
		t.Errorf("unexpected first line %q", lines[0])
	}
}

func TestRunJSON(t *testing.T) {
	a := newTestApp(t, "-json", "-no-color")

	var out bytes.Buffer
	code := a.Run(context.Background(), &out)
	if code != apperrors.ExitSuccess {
		t.Fatalf("expected success, got exit code %d", code)
	}

	var payload struct {
		Problem string `json:"problem"`
		Report  struct {
			Size struct {
				Kind string `json:"kind"`
			} `json:"size"`
		} `json:"report"`
	}
	if err := json.Unmarshal(out.Bytes(), &payload); err != nil {
		t.Fatalf("decoding JSON output: %v (output %s)", err, out.String())
	}
	if payload.Problem != "integer-factoring" {
		t.Errorf("unexpected problem %q", payload.Problem)
	}
	if payload.Report.Size.Kind == "" {
		t.Error("size result missing from JSON output")
	}
}

func TestIsHelpError(t *testing.T) {
	var errBuf bytes.Buffer
	_, err := New([]string{"qcross", "--help"}, &errBuf)
	if err == nil {
		t.Fatal("expected flag.ErrHelp")
	}
	if !IsHelpError(err) {
		t.Errorf("expected a help error, got %v", err)
	}
	if IsHelpError(os.ErrNotExist) {
		t.Error("unrelated errors are not help errors")
	}
}
