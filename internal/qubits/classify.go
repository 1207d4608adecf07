// Package qubits classifies qubit-to-problem-size mapping laws and evaluates
// them with overflow clamping. Classification is a stated heuristic over the
// restricted grammar: it inspects the formula text, never evaluates it, and
// treats every unrecognized shape as the safe general fallback.
package qubits

import (
	"math"
	"regexp"
	"strings"

	"github.com/MIT-FutureTech/quantum-framework/internal/logspace"
)

// Kind identifies the structural shape of a qubit mapping formula.
type Kind int

const (
	// General is the fallback for unrecognized shapes, evaluated numerically.
	General Kind = iota
	// Exponential covers b^q shapes (each extra qubit multiplies the
	// reachable problem size).
	Exponential
	// DoubleExponential covers 2^(2^q) shapes.
	DoubleExponential
	// Linear covers bare q, possibly linearly scaled.
	Linear
	// Logarithmic covers log(q, base) shapes.
	Logarithmic
)

// String returns the human-readable kind name.
func (k Kind) String() string {
	switch k {
	case Exponential:
		return "exponential"
	case DoubleExponential:
		return "double-exponential"
	case Linear:
		return "linear"
	case Logarithmic:
		return "logarithmic"
	default:
		return "general"
	}
}

var (
	doubleExpShape = regexp.MustCompile(`^\(?2\^\(?2\^q\)?\)?$`)
	expShape       = regexp.MustCompile(`^([0-9]+(?:\.[0-9]+)?|e)\^\(?q\)?$`)
	linearShape    = regexp.MustCompile(`^(?:([0-9]+(?:\.[0-9]+)?)\*)?q(?:/([0-9]+(?:\.[0-9]+)?))?$`)
	logShape       = regexp.MustCompile(`^log\(q(?:,([0-9]+(?:\.[0-9]+)?|e))?\)$`)
)

// Classify determines the shape of a mapping formula by structural
// inspection of its text.
//
// Parameters:
//   - formula: The qubit-to-problem-size mapping in the engine dialect.
//
// Returns:
//   - Kind: The detected shape; General when nothing matches.
func Classify(formula string) Kind {
	compact := strings.ReplaceAll(formula, " ", "")
	switch {
	case doubleExpShape.MatchString(compact):
		return DoubleExponential
	case expShape.MatchString(compact):
		return Exponential
	case linearShape.MatchString(compact):
		return Linear
	case logShape.MatchString(compact):
		return Logarithmic
	default:
		return General
	}
}

// InverseSubstitution returns the sub-expression that expresses q in terms
// of the problem size n, suitable for expr.ReplaceVariable. The closed-form
// inverses exist for the recognized shapes; the general fallback assumes
// one qubit per problem element.
//
// Parameters:
//   - formula: The qubit-to-problem-size mapping.
//
// Returns:
//   - string: An expression in n replacing q.
//   - Kind: The classification that produced it.
func InverseSubstitution(formula string) (string, Kind) {
	compact := strings.ReplaceAll(formula, " ", "")

	if doubleExpShape.MatchString(compact) {
		return "log(log(n, 2), 2)", DoubleExponential
	}
	if m := expShape.FindStringSubmatch(compact); m != nil {
		return "log(n, " + m[1] + ")", Exponential
	}
	if m := linearShape.FindStringSubmatch(compact); m != nil {
		scale, divisor := m[1], m[2]
		switch {
		case scale != "":
			return "n / " + scale, Linear
		case divisor != "":
			return "n * " + divisor, Linear
		default:
			return "n", Linear
		}
	}
	if m := logShape.FindStringSubmatch(compact); m != nil {
		base := m[1]
		if base == "" {
			base = "e"
		}
		return base + "^(n)", Logarithmic
	}
	return "n", General
}

// EvaluateGeneral evaluates a mapping formula at the given logical qubit
// count, clamping the result instead of propagating Inf, NaN or evaluation
// failures. Evaluation runs in log space, so a double-exponential mapping at
// a large qubit count clamps cleanly rather than overflowing.
//
// Parameters:
//   - formula: The mapping formula.
//   - logicalQubits: The qubit count to evaluate at.
//   - clamp: The upper bound imposed on the result (must be positive).
//
// Returns:
//   - float64: The mapped problem size, at most clamp.
//   - bool: false if the formula could not be evaluated at this point.
func EvaluateGeneral(formula string, logicalQubits, clamp float64) (float64, bool) {
	logged, err := logspace.Transform(formula)
	if err != nil {
		return 0, false
	}
	logValue, err := logged(map[string]float64{"q": logicalQubits})
	if err != nil {
		return 0, false
	}
	if math.IsInf(logValue, -1) {
		return 0, true
	}
	if logValue >= math.Log10(clamp) {
		return clamp, true
	}
	return math.Pow(10, logValue), true
}
