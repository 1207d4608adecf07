// Package advantage composes the formula engine, the log-space evaluator and
// the bisection solver into the crossover calculations: the problem size at
// which a quantum algorithm overtakes a classical one, the equivalent cost
// crossover, and the calendar year at which projected hardware first reaches
// that size.
package advantage

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	apperrors "github.com/MIT-FutureTech/quantum-framework/internal/errors"
	"github.com/MIT-FutureTech/quantum-framework/internal/roadmap"
)

// Search domain for problem sizes. The lower bound is the smallest size at
// which the cost formulas are meaningful; the upper bound caps the search at
// magnitudes no conceivable instance exceeds.
const (
	SizeDomainLow  = 2.0
	SizeDomainHigh = 1e100
)

// Year search radii for the feasibility crossover. The radius starts at the
// floor and widens geometrically until it brackets a root or hits the cap.
const (
	YearRadiusFloor = 5.0
	YearRadiusCap   = 100.0
)

// Model is the immutable input of one calculation pass. Formulas are strings
// in the engine dialect; rates are percent change per year.
type Model struct {
	// Cost formulas over n (problem size) and p (processors) for the
	// classical side, n and q (qubits) for the quantum side.
	ClassicalRuntime string `json:"classicalRuntime"`
	QuantumRuntime   string `json:"quantumRuntime"`
	ClassicalWork    string `json:"classicalWork"`
	QuantumWork      string `json:"quantumWork"`

	// Penalty is the connectivity-overhead formula applied to the quantum
	// side. Empty means no penalty.
	Penalty string `json:"penalty,omitempty"`

	// QubitMapping relates logical qubit count q to the largest solvable
	// problem size.
	QubitMapping string `json:"qubitMapping"`

	// Slowdown is the quantum hardware slowdown factor relative to
	// classical hardware; CostFactor is its cost counterpart. Both > 0.
	Slowdown   float64 `json:"slowdown"`
	CostFactor float64 `json:"costFactor"`

	// Processors is the classical processor count available at BaseYear.
	Processors float64 `json:"processors"`

	// Percentage improvement rates, percent per year. ImprovementRate
	// shrinks the slowdown and cost adjustments; CostImprovementRate grows
	// the effective classical processor count; QubitImprovementRate shrinks
	// the physical-to-logical qubit ratio.
	ImprovementRate      float64 `json:"improvementRate"`
	CostImprovementRate  float64 `json:"costImprovementRate"`
	QubitImprovementRate float64 `json:"qubitImprovementRate"`

	// PhysicalLogicalRatio is the number of physical qubits per logical
	// qubit at BaseYear. At least 1.
	PhysicalLogicalRatio float64 `json:"physicalLogicalRatio"`

	// BaseYear anchors all year-offset adjustments.
	BaseYear int `json:"baseYear"`

	// Roadmap projects physical qubit counts over calendar years. Required
	// for the feasibility crossover and the feasibility curve.
	Roadmap *roadmap.Projection `json:"-"`
}

// Validate checks the numeric parameters and the presence of the formulas
// every calculation needs.
func (m *Model) Validate() error {
	type named struct{ name, formula string }
	for _, f := range []named{
		{"classicalRuntime", m.ClassicalRuntime},
		{"quantumRuntime", m.QuantumRuntime},
		{"classicalWork", m.ClassicalWork},
		{"quantumWork", m.QuantumWork},
		{"qubitMapping", m.QubitMapping},
	} {
		if strings.TrimSpace(f.formula) == "" {
			return apperrors.NewValidationError(f.name, "formula is required", f.formula)
		}
	}
	if m.Slowdown <= 0 {
		return apperrors.NewValidationError("slowdown", "must be positive", m.Slowdown)
	}
	if m.CostFactor <= 0 {
		return apperrors.NewValidationError("costFactor", "must be positive", m.CostFactor)
	}
	if m.Processors < 1 {
		return apperrors.NewValidationError("processors", "must be at least 1", m.Processors)
	}
	if m.PhysicalLogicalRatio < 1 {
		return apperrors.NewValidationError("physicalLogicalRatio", "must be at least 1", m.PhysicalLogicalRatio)
	}
	if m.BaseYear < 1900 || m.BaseYear > 2200 {
		return apperrors.NewValidationError("baseYear", "out of range", m.BaseYear)
	}
	return nil
}

// Kind discriminates the four mutually exclusive crossover outcomes.
type Kind int

const (
	// Finite means a crossover was located inside the search bracket.
	Finite Kind = iota
	// Always means the advantage already holds at the lower bound.
	Always
	// Never means no sign change exists in the search domain.
	Never
	// Undefined means the advantage function could not be evaluated
	// anywhere in the domain.
	Undefined
)

// String returns the outcome name.
func (k Kind) String() string {
	switch k {
	case Finite:
		return "finite"
	case Always:
		return "always"
	case Never:
		return "never"
	default:
		return "undefined"
	}
}

// MarshalJSON encodes the outcome as its name.
func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON decodes an outcome name.
func (k *Kind) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	switch name {
	case "finite":
		*k = Finite
	case "always":
		*k = Always
	case "never":
		*k = Never
	case "undefined":
		*k = Undefined
	default:
		return fmt.Errorf("unknown result kind %q", name)
	}
	return nil
}

// Result is the outcome of one crossover calculation. For size and cost
// crossovers Value is log10 of the crossover problem size; for the
// feasibility crossover it is a (possibly fractional) calendar year. Value
// is meaningful only when Kind is Finite or Always.
type Result struct {
	Kind  Kind    `json:"kind"`
	Value float64 `json:"value,omitempty"`
}

// FiniteResult builds a Finite result carrying v.
func FiniteResult(v float64) Result { return Result{Kind: Finite, Value: v} }

// AlwaysResult reports advantage everywhere from the lower bound, which is
// included as the value.
func AlwaysResult(low float64) Result { return Result{Kind: Always, Value: low} }

// NeverResult reports no crossover in the search domain.
func NeverResult() Result { return Result{Kind: Never} }

// UndefinedResult reports that nothing in the domain could be evaluated.
func UndefinedResult() Result { return Result{Kind: Undefined} }

// String renders the result for logs and CLI summaries.
func (r Result) String() string {
	switch r.Kind {
	case Finite, Always:
		return fmt.Sprintf("%s (%.6g)", r.Kind, r.Value)
	default:
		return r.Kind.String()
	}
}

// adjustmentAt returns the log10 penalty applied to the quantum side at the
// given year: the base factor's log, eroded by the improvement rate, floored
// at zero because improvement never turns overhead into a bonus.
func adjustmentAt(base, ratePercent float64, yearOffset float64) float64 {
	return math.Max(0, math.Log10(base)-(ratePercent/100)*yearOffset)
}

// effectiveProcessors returns the classical processor count at the given
// offset from the base year, grown by the cost-improvement rate in exponent
// space and floored at a single processor.
func (m *Model) effectiveProcessors(yearOffset float64) float64 {
	exponent := math.Max(0, math.Log10(m.Processors)+(m.CostImprovementRate/100)*yearOffset)
	return math.Pow(10, exponent)
}

// effectiveRatio returns the physical-to-logical qubit ratio at the given
// offset, shrunk by the qubit-improvement rate and floored at 1.
func (m *Model) effectiveRatio(yearOffset float64) float64 {
	exponent := math.Max(0, math.Log10(m.PhysicalLogicalRatio)-(m.QubitImprovementRate/100)*yearOffset)
	return math.Pow(10, exponent)
}
