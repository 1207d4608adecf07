package logspace

import (
	"math"

	apperrors "github.com/MIT-FutureTech/quantum-framework/internal/errors"
	"github.com/MIT-FutureTech/quantum-framework/internal/expr"
)

// LoggedFunc evaluates log10 of a formula's value against a scope.
// It may legitimately return -Inf (the value is exactly 0) and fails with an
// EvalError where the formula is undefined (log of a negative value,
// unbound variable).
type LoggedFunc func(scope expr.Scope) (float64, error)

// ConvertedFunc evaluates a formula's raw value against a scope, for the
// few places where raw magnitude is needed (plotted curves). It reports
// ok=false instead of returning ±Inf, NaN, or panicking when the value
// overflows the float64 range or the formula is undefined at the point.
type ConvertedFunc func(scope expr.Scope) (value float64, ok bool)

// Transform compiles a formula into its log-space evaluator.
//
// Parameters:
//   - formula: The formula text in the engine dialect.
//
// Returns:
//   - LoggedFunc: The (scope) -> log10(value) function.
//   - error: A ParseError if the formula is malformed.
func Transform(formula string) (LoggedFunc, error) {
	root, err := parse(formula)
	if err != nil {
		return nil, err
	}
	return func(scope expr.Scope) (float64, error) {
		m, err := root.eval(scope)
		if err != nil {
			return 0, err
		}
		if m.Sign < 0 {
			return 0, apperrors.NewEvalError("formula %q is negative at this point, log10 undefined", formula)
		}
		if m.Sign == 0 {
			return math.Inf(-1), nil
		}
		return m.Log, nil
	}, nil
}

// Converted compiles a formula into its raw-valued sampling evaluator.
// Evaluation still runs through log space, so intermediate terms cannot
// overflow; only the final materialization is range-checked.
//
// Parameters:
//   - formula: The formula text in the engine dialect.
//
// Returns:
//   - ConvertedFunc: The (scope) -> raw value function.
//   - error: A ParseError if the formula is malformed.
func Converted(formula string) (ConvertedFunc, error) {
	root, err := parse(formula)
	if err != nil {
		return nil, err
	}
	return func(scope expr.Scope) (float64, bool) {
		m, err := root.eval(scope)
		if err != nil {
			return 0, false
		}
		v, ok := m.Float()
		if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return v, true
	}, nil
}
