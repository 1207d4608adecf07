package advantage

import (
	"context"
	"math"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"

	"github.com/MIT-FutureTech/quantum-framework/internal/expr"
	"github.com/MIT-FutureTech/quantum-framework/internal/logspace"
	"github.com/MIT-FutureTech/quantum-framework/internal/qubits"
	"github.com/MIT-FutureTech/quantum-framework/internal/solve"
)

// Calculator runs crossover calculations. It is stateless; every call builds
// fresh evaluators from the model's formula strings, so a single Calculator
// may be shared across goroutines as long as each call gets its own Model.
type Calculator struct{}

// NewCalculator returns a Calculator.
func NewCalculator() *Calculator {
	return &Calculator{}
}

// advantageFunc is the scalar function whose root is the crossover: positive
// where the adjusted quantum side is cheaper than the classical side.
// Evaluation failures at a sample point count toward failed and yield -Inf,
// keeping the function total over the domain.
type advantageFunc struct {
	f       solve.Func
	sampled int
	failed  int
}

func (a *advantageFunc) allFailed() bool {
	return a.sampled > 0 && a.failed == a.sampled
}

// buildAdvantageFunc assembles log classical(n) - log quantum(n) -
// log penalty(n) - adjustment for a fixed year. The quantum-side formulas
// have q rewritten in terms of n through the qubit mapping's inverse before
// transformation.
func buildAdvantageFunc(m *Model, classical, quantum string, base float64, year float64) (*advantageFunc, error) {
	yearOffset := year - float64(m.BaseYear)
	adjustment := adjustmentAt(base, m.ImprovementRate, yearOffset)
	processors := m.effectiveProcessors(yearOffset)

	inverse, _ := qubits.InverseSubstitution(m.QubitMapping)
	quantum = expr.ReplaceVariable(quantum, "q", inverse)

	logClassical, err := logspace.Transform(classical)
	if err != nil {
		return nil, err
	}
	logQuantum, err := logspace.Transform(quantum)
	if err != nil {
		return nil, err
	}

	var logPenalty logspace.LoggedFunc
	if m.Penalty != "" {
		penalty := expr.ReplaceVariable(m.Penalty, "q", inverse)
		if logPenalty, err = logspace.Transform(penalty); err != nil {
			return nil, err
		}
	}

	af := &advantageFunc{}
	af.f = func(n float64) float64 {
		af.sampled++
		scope := expr.Scope{"n": n, "p": processors}

		c, err := logClassical(scope)
		if err != nil {
			af.failed++
			return math.Inf(-1)
		}
		q, err := logQuantum(scope)
		if err != nil {
			af.failed++
			return math.Inf(-1)
		}
		pen := 0.0
		if logPenalty != nil {
			if pen, err = logPenalty(scope); err != nil {
				af.failed++
				return math.Inf(-1)
			}
		}
		// A quantum cost of zero at this size beats any classical cost.
		if math.IsInf(q, -1) {
			return math.Inf(1)
		}
		return c - q - pen - adjustment
	}
	return af, nil
}

// sizeCrossover is the shared body of SizeCrossover and CostCrossover.
func (c *Calculator) sizeCrossover(ctx context.Context, m *Model, year float64, classical, quantum string, base float64, calcType string) Result {
	tracer := otel.Tracer("advantage")
	_, span := tracer.Start(ctx, calcType)
	defer span.End()

	start := time.Now()
	result := c.solveSize(m, year, classical, quantum, base, calcType)
	observeCrossover(calcType, result, time.Since(start).Seconds())

	log.Debug().
		Str("calculation", calcType).
		Float64("year", year).
		Str("result", result.String()).
		Dur("elapsed", time.Since(start)).
		Msg("crossover pass complete")
	return result
}

func (c *Calculator) solveSize(m *Model, year float64, classical, quantum string, base float64, calcType string) Result {
	af, err := buildAdvantageFunc(m, classical, quantum, base, year)
	if err != nil {
		log.Warn().Err(err).Str("calculation", calcType).Msg("formula transformation failed")
		return UndefinedResult()
	}

	if af.f(SizeDomainLow) > 0 {
		return AlwaysResult(math.Log10(SizeDomainLow))
	}

	root, ok := solve.BisectScan(af.f, SizeDomainLow, SizeDomainHigh, calcType)
	switch {
	case ok:
		return FiniteResult(math.Log10(root))
	case af.allFailed():
		return UndefinedResult()
	default:
		return NeverResult()
	}
}

// SizeCrossover computes the problem size at which the quantum runtime,
// adjusted by slowdown, penalty and improvement rates, matches the classical
// runtime in the given year. Value is log10 of that size.
//
// Parameters:
//   - ctx: Tracing context; the calculation itself does not block.
//   - m: The model; must have passed Validate.
//   - year: The calendar year the adjustments are evaluated at.
//
// Returns:
//   - Result: Finite log10 size, Always, Never, or Undefined.
func (c *Calculator) SizeCrossover(ctx context.Context, m *Model, year float64) Result {
	return c.sizeCrossover(ctx, m, year, m.ClassicalRuntime, m.QuantumRuntime, m.Slowdown, "size")
}

// CostCrossover computes the crossover over the work formulas with the cost
// factor in place of the slowdown. Value is log10 of the crossover size.
func (c *Calculator) CostCrossover(ctx context.Context, m *Model, year float64) Result {
	return c.sizeCrossover(ctx, m, year, m.ClassicalWork, m.QuantumWork, m.CostFactor, "cost")
}

// feasibleLogSize returns log10 of the largest problem size the roadmap's
// hardware can address in the given year, or ok=false when the mapping
// cannot be evaluated there.
func (m *Model) feasibleLogSize(year float64) (float64, bool) {
	physical := m.Roadmap.QubitsAt(year)
	logical := physical / m.effectiveRatio(year-float64(m.BaseYear))
	if logical < 1 {
		logical = 1
	}
	size, ok := qubits.EvaluateGeneral(m.QubitMapping, logical, SizeDomainHigh)
	if !ok || size <= 0 {
		return 0, false
	}
	return math.Log10(size), true
}

// FeasibilityYear finds the first calendar year in which the
// roadmap-projected feasible problem size reaches the size crossover for
// that year. The search starts at the model's base year and widens its
// radius geometrically from YearRadiusFloor up to YearRadiusCap.
//
// Returns:
//   - Result: Finite year, Always (feasible already at the base year),
//     Never (not within the year cap), or Undefined.
func (c *Calculator) FeasibilityYear(ctx context.Context, m *Model) Result {
	tracer := otel.Tracer("advantage")
	_, span := tracer.Start(ctx, "feasibility")
	defer span.End()

	start := time.Now()
	result := c.solveFeasibility(m)
	observeCrossover("feasibility", result, time.Since(start).Seconds())

	log.Debug().
		Str("calculation", "feasibility").
		Str("result", result.String()).
		Dur("elapsed", time.Since(start)).
		Msg("crossover pass complete")
	return result
}

func (c *Calculator) solveFeasibility(m *Model) Result {
	if m.Roadmap == nil {
		log.Warn().Str("calculation", "feasibility").Msg("no roadmap configured")
		return UndefinedResult()
	}

	var sampled, failed int
	gap := func(year float64) float64 {
		sampled++
		feasible, ok := m.feasibleLogSize(year)
		if !ok {
			failed++
			return math.Inf(-1)
		}
		r := c.solveSize(m, year, m.ClassicalRuntime, m.QuantumRuntime, m.Slowdown, "size")
		switch r.Kind {
		case Finite, Always:
			return feasible - r.Value
		case Never:
			// Evaluable year with no size crossover: hardware growth
			// cannot make it feasible.
			return math.Inf(-1)
		default:
			failed++
			return math.Inf(-1)
		}
	}

	baseYear := float64(m.BaseYear)
	if gap(baseYear) > 0 {
		return AlwaysResult(baseYear)
	}

	for radius := YearRadiusFloor; ; radius *= 2 {
		if radius > YearRadiusCap {
			radius = YearRadiusCap
		}
		if gap(baseYear+radius) > 0 {
			if root, ok := solve.Bisect(gap, baseYear, baseYear+radius, "feasibility"); ok {
				return FiniteResult(root)
			}
			break
		}
		if radius == YearRadiusCap {
			break
		}
	}

	if sampled > 0 && failed == sampled {
		return UndefinedResult()
	}
	return NeverResult()
}
