package service

import (
	"context"

	"github.com/MIT-FutureTech/quantum-framework/internal/advantage"
	"github.com/MIT-FutureTech/quantum-framework/internal/recalc"
)

// Service defines the interface for crossover calculations. The abstraction
// enables dependency injection and easier testing.
type Service interface {
	// Crossover validates the model and computes all three crossover
	// results, plus the plot datasets when the service is configured to
	// sample them.
	//
	// Parameters:
	//   - ctx: The context for cancellation and tracing.
	//   - m: The calculation model.
	//
	// Returns:
	//   - *Report: The computed results.
	//   - error: A validation error; calculation failures degrade to
	//     sentinel results inside the report instead.
	Crossover(ctx context.Context, m *advantage.Model) (*Report, error)
}

// Report bundles the outputs of one calculation pass.
type Report struct {
	Size        advantage.Result  `json:"size"`
	Cost        advantage.Result  `json:"cost"`
	Feasibility advantage.Result  `json:"feasibility"`
	Curves      *advantage.Curves `json:"curves,omitempty"`
}

// CrossoverService is the production Service implementation. Implements the
// Service interface.
type CrossoverService struct {
	calc          *advantage.Calculator
	includeCurves bool
}

// Ensure CrossoverService implements Service interface.
var _ Service = (*CrossoverService)(nil)

// NewCrossoverService creates a CrossoverService.
//
// Parameters:
//   - calc: The crossover calculator.
//   - includeCurves: Whether reports carry sampled plot datasets.
func NewCrossoverService(calc *advantage.Calculator, includeCurves bool) *CrossoverService {
	return &CrossoverService{calc: calc, includeCurves: includeCurves}
}

// Crossover validates the model and runs the full calculation pass.
func (s *CrossoverService) Crossover(ctx context.Context, m *advantage.Model) (*Report, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	year := float64(m.BaseYear)
	report := &Report{
		Size:        s.calc.SizeCrossover(ctx, m, year),
		Cost:        s.calc.CostCrossover(ctx, m, year),
		Feasibility: s.calc.FeasibilityYear(ctx, m),
	}

	if s.includeCurves {
		curves, err := s.calc.SampleCurves(ctx, m)
		if err != nil {
			return nil, err
		}
		report.Curves = curves
	}
	return report, nil
}

// Debounced wraps a Service with latest-wins submission semantics: rapid
// successive submissions collapse so that only the newest model is
// calculated and delivered.
type Debounced struct {
	svc  Service
	slot *recalc.Slot
}

// NewDebounced starts a debounced front for svc.
func NewDebounced(svc Service) *Debounced {
	return &Debounced{svc: svc, slot: recalc.NewSlot()}
}

// Submit queues a calculation for m. If a prior submission has not started
// yet it is discarded; deliver is invoked only for submissions that actually
// run.
func (d *Debounced) Submit(m *advantage.Model, deliver func(*Report, error)) {
	d.slot.Submit(func(ctx context.Context) {
		deliver(d.svc.Crossover(ctx, m))
	})
}

// Close stops the worker after any in-flight calculation completes.
func (d *Debounced) Close() {
	d.slot.Close()
}
