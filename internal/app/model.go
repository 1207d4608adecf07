package app

import (
	"encoding/json"
	"os"

	"github.com/MIT-FutureTech/quantum-framework/internal/advantage"
	"github.com/MIT-FutureTech/quantum-framework/internal/config"
	apperrors "github.com/MIT-FutureTech/quantum-framework/internal/errors"
	"github.com/MIT-FutureTech/quantum-framework/internal/expr"
	"github.com/MIT-FutureTech/quantum-framework/internal/roadmap"
)

// modelFile is the on-disk model form accepted by the -model flag. It
// carries the model fields in engine notation plus an optional roadmap.
type modelFile struct {
	advantage.Model
	Roadmap   []roadmap.Anchor `json:"roadmap,omitempty"`
	GrowthLaw string           `json:"growthLaw,omitempty"`
}

// buildModel resolves the configuration into a complete calculation model.
// Resolution order: model file fields first, then explicit formula flags
// (normalized from published notation), then catalog defaults for whatever
// is still unset, then the hardware parameters and roadmap.
//
// Returns:
//   - *advantage.Model: The resolved model.
//   - string: The catalog problem key the formulas came from, or "" when
//     the model was fully explicit.
//   - error: A ConfigError if a file cannot be read or a formula cannot be
//     normalized.
func (a *Application) buildModel() (*advantage.Model, string, error) {
	cfg := a.Config
	m := &advantage.Model{}
	growthLaw := cfg.GrowthLaw
	var fileAnchors []roadmap.Anchor

	if cfg.ModelFile != "" {
		data, err := os.ReadFile(cfg.ModelFile)
		if err != nil {
			return nil, "", apperrors.NewConfigError("reading model file: %v", err)
		}
		var mf modelFile
		if err := json.Unmarshal(data, &mf); err != nil {
			return nil, "", apperrors.NewConfigError("decoding model file %s: %v", cfg.ModelFile, err)
		}
		*m = mf.Model
		fileAnchors = mf.Roadmap
		if mf.GrowthLaw != "" {
			growthLaw = mf.GrowthLaw
		}
	}

	// Formula flags are written in published notation and normalized into
	// the engine dialect; model files and the catalog already carry engine
	// notation.
	if err := applyFormulaFlags(m, cfg); err != nil {
		return nil, "", err
	}

	problem := ""
	if m.ClassicalRuntime == "" || m.QuantumRuntime == "" {
		p, ok := a.Catalog.Problem(cfg.Problem)
		if !ok {
			return nil, "", apperrors.NewConfigError("unknown problem %q", cfg.Problem)
		}
		classical, okC := p.DefaultClassical()
		quantum, okQ := p.DefaultQuantum()
		if !okC || !okQ {
			return nil, "", apperrors.NewConfigError("problem %q has no available algorithm pair", cfg.Problem)
		}
		problem = p.Key
		if m.ClassicalRuntime == "" {
			m.ClassicalRuntime = classical.RuntimeFormula
		}
		if m.QuantumRuntime == "" {
			m.QuantumRuntime = quantum.RuntimeFormula
		}
		if m.ClassicalWork == "" {
			m.ClassicalWork = classical.WorkFormula
		}
		if m.QuantumWork == "" {
			m.QuantumWork = quantum.WorkFormula
		}
		if m.QubitMapping == "" {
			m.QubitMapping = p.QubitMapping
		}
	}
	if m.QubitMapping == "" {
		m.QubitMapping = "q"
	}
	if m.ClassicalWork == "" && m.ClassicalRuntime != "" {
		m.ClassicalWork = expr.DeriveClassicalWork(m.ClassicalRuntime, true)
	}
	if m.QuantumWork == "" && m.QuantumRuntime != "" {
		m.QuantumWork = expr.DeriveQuantumWork(m.QuantumRuntime)
	}

	applyHardwareFlags(m, cfg)

	anchors := fileAnchors
	if cfg.RoadmapFile != "" {
		loaded, err := roadmap.LoadFile(cfg.RoadmapFile)
		if err != nil {
			return nil, "", err
		}
		anchors = loaded
	}
	if len(anchors) > 0 {
		law, err := roadmap.ParseGrowthLaw(growthLaw)
		if err != nil {
			return nil, "", err
		}
		projection, err := roadmap.New(anchors, law)
		if err != nil {
			return nil, "", err
		}
		m.Roadmap = projection
	}

	return m, problem, nil
}

// applyFormulaFlags overwrites model formulas with the normalized values of
// any non-empty formula flags.
func applyFormulaFlags(m *advantage.Model, cfg config.AppConfig) error {
	assign := func(dst *string, raw, flagName string) error {
		if raw == "" {
			return nil
		}
		normalized, ok := expr.Normalize(raw)
		if !ok {
			return apperrors.NewConfigError("cannot normalize -%s formula %q", flagName, raw)
		}
		if _, err := expr.Compile(normalized); err != nil {
			return apperrors.NewConfigError("invalid -%s formula %q: %v", flagName, raw, err)
		}
		*dst = normalized
		return nil
	}

	if err := assign(&m.ClassicalRuntime, cfg.ClassicalRuntime, "classical-runtime"); err != nil {
		return err
	}
	if err := assign(&m.QuantumRuntime, cfg.QuantumRuntime, "quantum-runtime"); err != nil {
		return err
	}
	if err := assign(&m.ClassicalWork, cfg.ClassicalWork, "classical-work"); err != nil {
		return err
	}
	if err := assign(&m.QuantumWork, cfg.QuantumWork, "quantum-work"); err != nil {
		return err
	}
	if err := assign(&m.Penalty, cfg.Penalty, "penalty"); err != nil {
		return err
	}
	return assign(&m.QubitMapping, cfg.QubitMapping, "qubit-mapping")
}

// applyHardwareFlags fills the model's hardware parameters from the
// configuration. A flag left at its default yields to a value the model
// file already set; anything still unset takes the configured default.
func applyHardwareFlags(m *advantage.Model, cfg config.AppConfig) {
	overrideFloat(&m.Slowdown, cfg.Slowdown, config.DefaultSlowdown)
	overrideFloat(&m.CostFactor, cfg.CostFactor, config.DefaultCostFactor)
	overrideFloat(&m.Processors, cfg.Processors, config.DefaultProcessors)
	overrideFloat(&m.ImprovementRate, cfg.ImprovementRate, 0)
	overrideFloat(&m.CostImprovementRate, cfg.CostImprovementRate, 0)
	overrideFloat(&m.QubitImprovementRate, cfg.QubitImprovementRate, 0)
	overrideFloat(&m.PhysicalLogicalRatio, cfg.Ratio, config.DefaultRatio)
	if cfg.BaseYear != config.DefaultBaseYear || m.BaseYear == 0 {
		m.BaseYear = cfg.BaseYear
	}
}

// overrideFloat applies a flag value over a model field. The flag wins when
// it differs from its default (it was set explicitly) or when the field is
// still zero.
func overrideFloat(dst *float64, flagVal, defaultVal float64) {
	if flagVal != defaultVal || *dst == 0 {
		*dst = flagVal
	}
}
