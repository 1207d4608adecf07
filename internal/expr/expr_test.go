package expr

import (
	"errors"
	"math"
	"sync"
	"testing"

	apperrors "github.com/MIT-FutureTech/quantum-framework/internal/errors"
)

func TestCompile_Placeholders(t *testing.T) {
	for _, formula := range []string{"", "   ", "-", "?", "derived"} {
		t.Run("formula="+formula, func(t *testing.T) {
			if _, err := Compile(formula); err == nil {
				t.Errorf("Compile(%q) should fail for placeholder input", formula)
			} else {
				var pe apperrors.ParseError
				if !errors.As(err, &pe) {
					t.Errorf("Compile(%q) error should be a ParseError, got %T", formula, err)
				}
			}
		})
	}
}

func TestCompile_Malformed(t *testing.T) {
	for _, formula := range []string{"n^(3", "log(n,", "n +* 2"} {
		if _, err := Compile(formula); err == nil {
			t.Errorf("Compile(%q) should fail", formula)
		}
	}
}

func TestCompile_Memoized(t *testing.T) {
	a, err := Compile("n^3 + 7")
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	b, err := Compile("n^3 + 7")
	if err != nil {
		t.Fatalf("second Compile failed: %v", err)
	}
	if a != b {
		t.Error("Compile should return the memoized instance for identical text")
	}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name    string
		formula string
		scope   Scope
		want    float64
	}{
		{"cubic", "n^3", Scope{"n": 10}, 1000},
		{"natural log", "log(n, e)", Scope{"n": math.E}, 1},
		{"binary log", "log(n, 2)", Scope{"n": 1024}, 10},
		{"single-arg log defaults to e", "log(n)", Scope{"n": math.E * math.E}, 2},
		{"e caret", "e^(n)", Scope{"n": 2}, math.E * math.E},
		{"exp equals e caret", "exp(2)", Scope{}, math.E * math.E},
		{"sqrt", "sqrt(n)", Scope{"n": 49}, 7},
		{"ceil", "ceil(n / 4)", Scope{"n": 10}, 3},
		{"pi constant", "2 * pi", Scope{}, 2 * math.Pi},
		{"processors", "n^2 / p", Scope{"n": 100, "p": 4}, 2500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EvaluateString(tt.formula, tt.scope)
			if err != nil {
				t.Fatalf("EvaluateString(%q) failed: %v", tt.formula, err)
			}
			if math.Abs(got-tt.want) > 1e-9*math.Abs(tt.want)+1e-12 {
				t.Errorf("EvaluateString(%q) = %g, want %g", tt.formula, got, tt.want)
			}
		})
	}
}

func TestEvaluate_UndefinedPoints(t *testing.T) {
	tests := []struct {
		name    string
		formula string
		scope   Scope
	}{
		{"log of zero", "log(n, 2)", Scope{"n": 0}},
		{"log of negative", "log(n - 10, e)", Scope{"n": 5}},
		{"sqrt of negative", "sqrt(n - 100)", Scope{"n": 50}},
		{"unbound variable", "n * q", Scope{"n": 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := EvaluateString(tt.formula, tt.scope)
			if err == nil {
				t.Fatalf("EvaluateString(%q) should fail", tt.formula)
			}
			if !apperrors.IsFormulaError(err) {
				t.Errorf("error should be a formula error, got %T: %v", err, err)
			}
		})
	}
}

// Compiled expressions must be safely evaluable from concurrent goroutines
// against independent scopes.
func TestEvaluate_Concurrent(t *testing.T) {
	c, err := Compile("n^2 + p")
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 1; i <= 200; i++ {
				n := float64(i)
				got, err := Evaluate(c, Scope{"n": n, "p": float64(g)})
				if err != nil {
					t.Errorf("Evaluate failed: %v", err)
					return
				}
				if want := n*n + float64(g); got != want {
					t.Errorf("Evaluate = %g, want %g", got, want)
					return
				}
			}
		}(g)
	}
	wg.Wait()
}
