package qubits

import (
	"math"
	"testing"

	"github.com/MIT-FutureTech/quantum-framework/internal/expr"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		formula string
		want    Kind
	}{
		{"bare exponential", "2^q", Exponential},
		{"parenthesized exponential", "2^(q)", Exponential},
		{"euler exponential", "e^q", Exponential},
		{"fractional base", "1.5^q", Exponential},
		{"double exponential", "2^(2^q)", DoubleExponential},
		{"double exponential unparenthesized", "2^2^q", DoubleExponential},
		{"bare linear", "q", Linear},
		{"scaled linear", "2 * q", Linear},
		{"divided linear", "q / 4", Linear},
		{"logarithmic", "log(q, 2)", Logarithmic},
		{"natural logarithmic", "log(q, e)", Logarithmic},
		{"polynomial falls through", "q^2", General},
		{"sum falls through", "q + 1", General},
		{"root falls through", "sqrt(q)", General},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.formula); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.formula, got, tt.want)
			}
		})
	}
}

func TestInverseSubstitution(t *testing.T) {
	tests := []struct {
		name    string
		formula string
		want    string
		kind    Kind
	}{
		{"exponential", "2^q", "log(n, 2)", Exponential},
		{"double exponential", "2^(2^q)", "log(log(n, 2), 2)", DoubleExponential},
		{"bare linear", "q", "n", Linear},
		{"scaled linear", "4 * q", "n / 4", Linear},
		{"divided linear", "q / 2", "n * 2", Linear},
		{"logarithmic", "log(q, 2)", "2^(n)", Logarithmic},
		{"logarithmic default base", "log(q)", "e^(n)", Logarithmic},
		{"general fallback", "q^2 + q", "n", General},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, kind := InverseSubstitution(tt.formula)
			if got != tt.want || kind != tt.kind {
				t.Errorf("InverseSubstitution(%q) = (%q, %v), want (%q, %v)",
					tt.formula, got, kind, tt.want, tt.kind)
			}
		})
	}
}

// The inverse composed with the forward mapping must recover the qubit
// count for the closed-form shapes.
func TestInverseSubstitutionRoundTrip(t *testing.T) {
	tests := []struct {
		mapping string
		qubits  float64
	}{
		{"2^q", 30},
		{"4 * q", 120},
		{"q", 57},
	}

	for _, tt := range tests {
		size, ok := EvaluateGeneral(tt.mapping, tt.qubits, 1e100)
		if !ok {
			t.Fatalf("EvaluateGeneral(%q, %v) failed", tt.mapping, tt.qubits)
		}
		inverse, _ := InverseSubstitution(tt.mapping)
		back, err := expr.EvaluateString(inverse, expr.Scope{"n": size})
		if err != nil {
			t.Fatalf("evaluating inverse %q: %v", inverse, err)
		}
		if math.Abs(back-tt.qubits) > 1e-6*tt.qubits {
			t.Errorf("mapping %q: inverse(%g) = %g, want %g", tt.mapping, size, back, tt.qubits)
		}
	}
}

func TestEvaluateGeneral(t *testing.T) {
	t.Run("finite value", func(t *testing.T) {
		got, ok := EvaluateGeneral("2^q", 10, 1e100)
		if !ok || math.Abs(got-1024) > 1e-6 {
			t.Errorf("EvaluateGeneral(2^q, 10) = (%g, %v), want 1024", got, ok)
		}
	})

	t.Run("clamped overflow", func(t *testing.T) {
		got, ok := EvaluateGeneral("2^(2^q)", 50, 1e100)
		if !ok || got != 1e100 {
			t.Errorf("EvaluateGeneral(2^(2^q), 50) = (%g, %v), want clamp 1e100", got, ok)
		}
	})

	t.Run("general polynomial", func(t *testing.T) {
		got, ok := EvaluateGeneral("q^2 + q", 100, 1e100)
		if !ok || math.Abs(got-10100) > 1e-6 {
			t.Errorf("EvaluateGeneral(q^2 + q, 100) = (%g, %v), want 10100", got, ok)
		}
	})

	t.Run("undefined point reports failure", func(t *testing.T) {
		if _, ok := EvaluateGeneral("log(q - 10, 2)", 5, 1e100); ok {
			t.Error("expected failure for log of negative argument")
		}
	})

	t.Run("malformed formula reports failure", func(t *testing.T) {
		if _, ok := EvaluateGeneral("2^^q", 5, 1e100); ok {
			t.Error("expected failure for malformed formula")
		}
	})
}
