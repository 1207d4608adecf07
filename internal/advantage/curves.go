package advantage

import (
	"context"
	"math"

	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"

	"github.com/MIT-FutureTech/quantum-framework/internal/expr"
	"github.com/MIT-FutureTech/quantum-framework/internal/logspace"
	"github.com/MIT-FutureTech/quantum-framework/internal/qubits"
)

// Point is one sample of a plotted curve.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Series is an ordered, named sequence of points.
type Series struct {
	Name   string  `json:"name"`
	Points []Point `json:"points"`
}

// Curves holds the two plot datasets: adjusted cost against problem size
// (both axes log10) and feasibility against calendar year.
type Curves struct {
	CostVersusSize        []Series `json:"costVersusSize"`
	FeasibilityVersusYear []Series `json:"feasibilityVersusYear"`
}

const sizeSamples = 120

// SampleCurves produces the plot datasets for the model, sampling the two
// families in parallel. Points where a formula is undefined are skipped;
// the only error returned is context cancellation.
func (c *Calculator) SampleCurves(ctx context.Context, m *Model) (*Curves, error) {
	tracer := otel.Tracer("advantage")
	ctx, span := tracer.Start(ctx, "curves")
	defer span.End()

	curves := &Curves{}
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		curves.CostVersusSize, err = c.sampleCost(ctx, m)
		return err
	})
	g.Go(func() error {
		var err error
		curves.FeasibilityVersusYear, err = c.sampleFeasibility(ctx, m)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return curves, nil
}

// sampleCost evaluates the classical and adjusted quantum work formulas over
// a log-spaced size grid at the base year.
func (c *Calculator) sampleCost(ctx context.Context, m *Model) ([]Series, error) {
	inverse, _ := qubits.InverseSubstitution(m.QubitMapping)
	processors := m.effectiveProcessors(0)
	adjustment := adjustmentAt(m.CostFactor, m.ImprovementRate, 0)

	classical := Series{Name: "classical"}
	quantum := Series{Name: "quantum"}

	logClassical, cerr := logspace.Transform(m.ClassicalWork)
	logQuantum, qerr := logspace.Transform(expr.ReplaceVariable(m.QuantumWork, "q", inverse))

	var logPenalty logspace.LoggedFunc
	if m.Penalty != "" {
		logPenalty, _ = logspace.Transform(expr.ReplaceVariable(m.Penalty, "q", inverse))
	}

	lowLog := math.Log10(SizeDomainLow)
	highLog := math.Log10(SizeDomainHigh)
	for i := 0; i <= sizeSamples; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		logN := lowLog + (highLog-lowLog)*float64(i)/sizeSamples
		scope := expr.Scope{"n": math.Pow(10, logN), "p": processors}
		curveSamplesTotal.Inc()

		if cerr == nil {
			if y, err := logClassical(scope); err == nil && !math.IsInf(y, 0) {
				classical.Points = append(classical.Points, Point{X: logN, Y: y})
			}
		}
		if qerr == nil {
			y, err := logQuantum(scope)
			if err == nil && logPenalty != nil {
				var pen float64
				if pen, err = logPenalty(scope); err == nil {
					y += pen
				}
			}
			if err == nil && !math.IsInf(y, 0) {
				quantum.Points = append(quantum.Points, Point{X: logN, Y: y + adjustment})
			}
		}
	}
	return []Series{classical, quantum}, nil
}

// sampleFeasibility evaluates, per year from the base year to the cap, the
// log size the roadmap makes reachable and the log size the crossover
// demands.
func (c *Calculator) sampleFeasibility(ctx context.Context, m *Model) ([]Series, error) {
	feasible := Series{Name: "feasible-size"}
	required := Series{Name: "crossover-size"}
	if m.Roadmap == nil {
		return []Series{feasible, required}, nil
	}

	for offset := 0.0; offset <= YearRadiusCap; offset++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		year := float64(m.BaseYear) + offset
		curveSamplesTotal.Inc()

		if y, ok := m.feasibleLogSize(year); ok {
			feasible.Points = append(feasible.Points, Point{X: year, Y: y})
		}
		r := c.solveSize(m, year, m.ClassicalRuntime, m.QuantumRuntime, m.Slowdown, "size")
		if r.Kind == Finite || r.Kind == Always {
			required.Points = append(required.Points, Point{X: year, Y: r.Value})
		}
	}
	return []Series{feasible, required}, nil
}
