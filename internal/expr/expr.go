// Package expr wraps a third-party expression compiler (govaluate) for the
// restricted algebraic grammar used by cost formulas: variables n, p, q,
// constants e and pi, operators + - * / ^, and the functions log(x, base),
// sqrt, ceil and exp. Compiled expressions are memoized per distinct formula
// string, since one curve-sampling pass evaluates the same formula hundreds
// of times.
package expr

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/Knetic/govaluate"

	apperrors "github.com/MIT-FutureTech/quantum-framework/internal/errors"
)

// Scope maps free variable names to numeric values for one evaluation call.
// The constants e and pi are always bound implicitly and do not need to be
// present. Every other free variable of the formula must be bound or the
// evaluation fails.
type Scope map[string]float64

// Compiled is an immutable compiled formula. It is safe for concurrent
// evaluation against independent scopes.
type Compiled struct {
	source string
	expr   *govaluate.EvaluableExpression
}

// Source returns the original formula text.
func (c *Compiled) Source() string { return c.source }

// placeholders are the literal tokens the upstream data sets use to mean
// "no formula available". They must fail at compile time, never evaluate to 0.
var placeholders = map[string]struct{}{
	"":        {},
	"-":       {},
	"?":       {},
	"derived": {},
}

// compileCache memoizes compiled expressions by formula text.
var compileCache sync.Map // string -> *Compiled

// mathFunctions binds the formula function set. Each binding validates its
// domain and reports an error instead of returning NaN, so undefined points
// surface as EvalError rather than as silent garbage.
var mathFunctions = map[string]govaluate.ExpressionFunction{
	"log": func(args ...any) (any, error) {
		if len(args) == 0 || len(args) > 2 {
			return nil, fmt.Errorf("log expects 1 or 2 arguments, got %d", len(args))
		}
		x, err := argFloat("log", args[0])
		if err != nil {
			return nil, err
		}
		base := math.E
		if len(args) == 2 {
			if base, err = argFloat("log", args[1]); err != nil {
				return nil, err
			}
		}
		if x <= 0 {
			return nil, fmt.Errorf("log of non-positive value %g", x)
		}
		if base <= 0 || base == 1 {
			return nil, fmt.Errorf("invalid log base %g", base)
		}
		return math.Log(x) / math.Log(base), nil
	},
	"sqrt": func(args ...any) (any, error) {
		x, err := singleArg("sqrt", args)
		if err != nil {
			return nil, err
		}
		if x < 0 {
			return nil, fmt.Errorf("sqrt of negative value %g", x)
		}
		return math.Sqrt(x), nil
	},
	"ceil": func(args ...any) (any, error) {
		x, err := singleArg("ceil", args)
		if err != nil {
			return nil, err
		}
		return math.Ceil(x), nil
	},
	"exp": func(args ...any) (any, error) {
		x, err := singleArg("exp", args)
		if err != nil {
			return nil, err
		}
		return math.Exp(x), nil
	},
}

func singleArg(name string, args []any) (float64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%s expects exactly 1 argument, got %d", name, len(args))
	}
	return argFloat(name, args[0])
}

func argFloat(name string, arg any) (float64, error) {
	v, ok := arg.(float64)
	if !ok {
		return 0, fmt.Errorf("%s expects a numeric argument, got %T", name, arg)
	}
	return v, nil
}

// Compile parses a formula string into a reusable compiled expression.
// Empty, whitespace-only and placeholder formulas ("-", "?", "derived") fail
// with a ParseError. Results are memoized: compiling the same formula text
// twice returns the same instance.
//
// Parameters:
//   - formula: The formula text in the engine dialect (caret exponentiation).
//
// Returns:
//   - *Compiled: The compiled expression.
//   - error: A ParseError if the formula is malformed or a placeholder.
func Compile(formula string) (*Compiled, error) {
	trimmed := strings.TrimSpace(formula)
	if _, bad := placeholders[trimmed]; bad {
		return nil, apperrors.NewParseError(formula, nil)
	}
	if cached, ok := compileCache.Load(trimmed); ok {
		return cached.(*Compiled), nil
	}

	ee, err := govaluate.NewEvaluableExpressionWithFunctions(rewriteCarets(trimmed), mathFunctions)
	if err != nil {
		return nil, apperrors.NewParseError(formula, err)
	}

	c := &Compiled{source: trimmed, expr: ee}
	compileCache.Store(trimmed, c)
	return c, nil
}

// rewriteCarets converts the dialect's `^` exponentiation into the
// compiler's `**` operator. The grammar has no bitwise operators, so every
// caret is an exponent.
func rewriteCarets(formula string) string {
	return strings.ReplaceAll(formula, "^", "**")
}

// Evaluate computes a compiled formula against a scope. The constants e and
// pi are bound automatically; all other free variables must be present in
// the scope.
//
// Parameters:
//   - c: The compiled expression.
//   - scope: Variable bindings for this call.
//
// Returns:
//   - float64: The numeric value of the formula.
//   - error: An EvalError if the formula is undefined at this point
//     (missing variable, log of non-positive, NaN result).
func Evaluate(c *Compiled, scope Scope) (float64, error) {
	params := make(map[string]any, len(scope)+2)
	params["e"] = math.E
	params["pi"] = math.Pi
	for name, value := range scope {
		params[name] = value
	}

	raw, err := c.expr.Evaluate(params)
	if err != nil {
		return 0, apperrors.EvalError{Message: fmt.Sprintf("formula %q", c.source), Cause: err}
	}
	v, ok := raw.(float64)
	if !ok {
		return 0, apperrors.NewEvalError("formula %q produced non-numeric result %v", c.source, raw)
	}
	if math.IsNaN(v) {
		return 0, apperrors.NewEvalError("formula %q is undefined at this point", c.source)
	}
	return v, nil
}

// EvaluateString compiles and evaluates a formula in one call. It is a
// convenience for single-shot evaluations; sampling loops should compile
// once and call Evaluate.
func EvaluateString(formula string, scope Scope) (float64, error) {
	c, err := Compile(formula)
	if err != nil {
		return 0, err
	}
	return Evaluate(c, scope)
}
