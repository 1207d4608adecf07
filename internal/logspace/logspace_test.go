package logspace

import (
	"math"
	"testing"

	apperrors "github.com/MIT-FutureTech/quantum-framework/internal/errors"
	"github.com/MIT-FutureTech/quantum-framework/internal/expr"
)

func mustTransform(t *testing.T, formula string) LoggedFunc {
	t.Helper()
	f, err := Transform(formula)
	if err != nil {
		t.Fatalf("Transform(%q) failed: %v", formula, err)
	}
	return f
}

func TestTransform_Finite(t *testing.T) {
	tests := []struct {
		name    string
		formula string
		scope   expr.Scope
		want    float64
	}{
		{"cubic", "n^3", expr.Scope{"n": 10}, 3},
		{"division", "n^2 / p", expr.Scope{"n": 1000, "p": 10}, 5},
		{"sqrt", "sqrt(n)", expr.Scope{"n": 1e10}, 5},
		{"binary log", "log(n, 2)", expr.Scope{"n": 1024}, 1},
		{"ceil", "ceil(n / 4)", expr.Scope{"n": 10}, math.Log10(3)},
		{"euler power", "e^(n)", expr.Scope{"n": 10}, 10 / math.Ln10},
		{"exp function", "exp(n)", expr.Scope{"n": 10}, 10 / math.Ln10},
		{"pi", "pi", expr.Scope{}, math.Log10(math.Pi)},
		{"sum", "n + n", expr.Scope{"n": 50}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := mustTransform(t, tt.formula)(tt.scope)
			if err != nil {
				t.Fatalf("evaluation failed: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("log10(%q) = %g, want %g", tt.formula, got, tt.want)
			}
		})
	}
}

// Formulas whose raw value overflows float64 must still produce a finite,
// meaningful log10.
func TestTransform_Overflow(t *testing.T) {
	tests := []struct {
		name    string
		formula string
		scope   expr.Scope
		want    float64
	}{
		{"exponential", "2^n", expr.Scope{"n": 10000}, 10000 * math.Log10(2)},
		{"double exponential", "2^(2^n)", expr.Scope{"n": 10}, 1024 * math.Log10(2)},
		{"subexponential", "e^(n^(1/3))", expr.Scope{"n": 1e9}, 1000 / math.Ln10},
		{"power tower times poly", "n^2 * 2^n", expr.Scope{"n": 5000}, 2*math.Log10(5000) + 5000*math.Log10(2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := mustTransform(t, tt.formula)(tt.scope)
			if err != nil {
				t.Fatalf("evaluation failed: %v", err)
			}
			if math.IsInf(got, 0) || math.IsNaN(got) {
				t.Fatalf("log10(%q) should be finite, got %v", tt.formula, got)
			}
			if math.Abs(got-tt.want) > 1e-6*math.Abs(tt.want) {
				t.Errorf("log10(%q) = %g, want %g", tt.formula, got, tt.want)
			}
		})
	}
}

func TestTransform_ZeroIsNegativeInfinity(t *testing.T) {
	got, err := mustTransform(t, "n - n")(expr.Scope{"n": 5})
	if err != nil {
		t.Fatalf("evaluation failed: %v", err)
	}
	if !math.IsInf(got, -1) {
		t.Errorf("log10 of exact zero should be -Inf, got %g", got)
	}
}

func TestTransform_UndefinedPoints(t *testing.T) {
	tests := []struct {
		name    string
		formula string
		scope   expr.Scope
	}{
		{"negative value", "5 - 7", expr.Scope{}},
		{"log of negative", "log(n - 10, e)", expr.Scope{"n": 5}},
		{"sqrt of negative", "sqrt(0 - n)", expr.Scope{"n": 4}},
		{"division by zero", "n / (p - p)", expr.Scope{"n": 3, "p": 2}},
		{"unbound variable", "n * q", expr.Scope{"n": 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := mustTransform(t, tt.formula)(tt.scope)
			if err == nil {
				t.Fatalf("evaluating %q should fail", tt.formula)
			}
			if !apperrors.IsFormulaError(err) {
				t.Errorf("error should be a formula error, got %T: %v", err, err)
			}
		})
	}
}

func TestParse_Failures(t *testing.T) {
	for _, formula := range []string{"", "-", "?", "derived", "n^(3", "2 +* 3", "frob(n)", "log(n, 2"} {
		t.Run("formula="+formula, func(t *testing.T) {
			if _, err := parse(formula); err == nil {
				t.Errorf("Parse(%q) should fail", formula)
			}
		})
	}
}

func TestConverted(t *testing.T) {
	f, err := Converted("2^n")
	if err != nil {
		t.Fatalf("Converted failed: %v", err)
	}

	if v, ok := f(expr.Scope{"n": 10}); !ok || v != 1024 {
		t.Errorf("2^10 = (%g, %v), want (1024, true)", v, ok)
	}
	if _, ok := f(expr.Scope{"n": 10000}); ok {
		t.Error("2^10000 should report ok=false, not a raw value")
	}
	if _, ok := f(expr.Scope{}); ok {
		t.Error("unbound variable should report ok=false")
	}
}

// The raw-space evaluator and the log-space evaluator must agree wherever
// the raw value is finite and positive.
func TestTransform_AgreesWithRawEvaluation(t *testing.T) {
	formulas := []string{
		"n^3",
		"n^2 / p",
		"sqrt(n) * log(n, 2)",
		"e^(log(n, e))",
		"(n^2 + n) / (p + 1)",
		"n * log(n, e) + sqrt(n)",
		"ceil(n / 7) * p",
		"2^log(n, 2)",
	}
	scopes := []expr.Scope{
		{"n": 2, "p": 1},
		{"n": 100, "p": 4},
		{"n": 12345.678, "p": 32},
		{"n": 1e6, "p": 1024},
	}

	for _, formula := range formulas {
		logged := mustTransform(t, formula)
		for _, scope := range scopes {
			raw, err := expr.EvaluateString(formula, scope)
			if err != nil {
				t.Fatalf("raw evaluation of %q failed: %v", formula, err)
			}
			logValue, err := logged(scope)
			if err != nil {
				t.Fatalf("log evaluation of %q failed: %v", formula, err)
			}
			back := math.Pow(10, logValue)
			if math.Abs(back-raw) > 1e-9*math.Abs(raw) {
				t.Errorf("formula %q at %v: 10^%g = %g, raw = %g", formula, scope, logValue, back, raw)
			}
		}
	}
}

func TestMagnitude_AddCancellation(t *testing.T) {
	a, _ := FromFloat(5)
	if got := Sub(a, a); got.Sign != 0 {
		t.Errorf("5 - 5 should be exactly zero, got sign %d log %g", got.Sign, got.Log)
	}
}

func TestMagnitude_FloatRoundTripsIntegers(t *testing.T) {
	for _, want := range []float64{1, 3, 1024, -8, 1e12} {
		m, err := FromFloat(want)
		if err != nil {
			t.Fatalf("FromFloat(%g) failed: %v", want, err)
		}
		if v, ok := m.Float(); !ok || v != want {
			t.Errorf("Float() after FromFloat(%g) = (%g, %v), want exact value", want, v, ok)
		}
	}

	frac, _ := FromFloat(1024.5)
	if v, _ := frac.Float(); math.Abs(v-1024.5) > 1e-9 {
		t.Errorf("Float() rounded a genuine non-integer to %g", v)
	}
}

func TestMagnitude_Pow(t *testing.T) {
	negTwo, _ := FromFloat(-2)
	three, _ := FromFloat(3)
	m, err := Pow(negTwo, three)
	if err != nil {
		t.Fatalf("(-2)^3 failed: %v", err)
	}
	if v, ok := m.Float(); !ok || math.Abs(v+8) > 1e-9 {
		t.Errorf("(-2)^3 = %g, want -8", v)
	}

	half, _ := FromFloat(0.5)
	if _, err := Pow(negTwo, half); err == nil {
		t.Error("(-2)^0.5 should fail")
	}

	zero := Zero()
	if m, err := Pow(zero, three); err != nil || m.Sign != 0 {
		t.Errorf("0^3 should be zero, got %v, %v", m, err)
	}
	if _, err := Pow(zero, negTwo); err == nil {
		t.Error("0^-2 should fail")
	}
}
