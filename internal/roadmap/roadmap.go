// Package roadmap projects physical qubit counts over time from a set of
// hardware anchor points. Multi-anchor roadmaps are fitted by least squares;
// a single anchor extrapolates with a default growth rate.
package roadmap

import (
	"encoding/json"
	"io"
	"math"
	"os"
	"sort"

	"gonum.org/v1/gonum/stat"

	apperrors "github.com/MIT-FutureTech/quantum-framework/internal/errors"
)

// GrowthLaw selects the functional form fitted through the anchors.
type GrowthLaw int

const (
	// LawExponential fits log10(qubits) linearly against the year.
	LawExponential GrowthLaw = iota
	// LawLinear fits qubits linearly against the year.
	LawLinear
)

// String returns the growth law name.
func (l GrowthLaw) String() string {
	if l == LawLinear {
		return "linear"
	}
	return "exponential"
}

// ParseGrowthLaw converts a configuration string into a GrowthLaw.
func ParseGrowthLaw(s string) (GrowthLaw, error) {
	switch s {
	case "", "exponential":
		return LawExponential, nil
	case "linear":
		return LawLinear, nil
	default:
		return LawExponential, apperrors.NewConfigError("unknown growth law %q", s)
	}
}

// Anchor is a single observed or announced hardware data point.
type Anchor struct {
	Year   int     `json:"year"`
	Qubits float64 `json:"qubits"`
}

// Projection bounds. Qubit counts outside this range are clamped so later
// stages never see zero or absurd hardware sizes.
const (
	minQubits = 1.0
	maxQubits = 1e30
)

// defaultDoublingSlope is the per-year increment of log10(qubits) assumed
// when only one anchor is available: a doubling of the qubit count each year.
var defaultDoublingSlope = math.Log10(2)

// Projection is a fitted qubit-over-time model.
type Projection struct {
	anchors   []Anchor
	law       GrowthLaw
	intercept float64
	slope     float64
}

// New fits a projection through the given anchors.
//
// Parameters:
//   - anchors: At least one data point; all qubit counts must be positive.
//   - law: The functional form to fit.
//
// Returns:
//   - *Projection: The fitted model.
//   - error: A ConfigError when the anchors cannot support a fit.
func New(anchors []Anchor, law GrowthLaw) (*Projection, error) {
	if len(anchors) == 0 {
		return nil, apperrors.NewConfigError("roadmap requires at least one anchor")
	}
	for _, a := range anchors {
		if a.Qubits <= 0 {
			return nil, apperrors.NewConfigError(
				"roadmap anchor for year %d has non-positive qubit count %g", a.Year, a.Qubits)
		}
	}

	sorted := make([]Anchor, len(anchors))
	copy(sorted, anchors)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Year < sorted[j].Year })

	p := &Projection{anchors: sorted, law: law}
	p.fit()
	return p, nil
}

func (p *Projection) fit() {
	if len(p.anchors) == 1 {
		a := p.anchors[0]
		switch p.law {
		case LawLinear:
			// Grow by the initial machine size each year.
			p.slope = a.Qubits
			p.intercept = a.Qubits - p.slope*float64(a.Year)
		default:
			p.slope = defaultDoublingSlope
			p.intercept = math.Log10(a.Qubits) - p.slope*float64(a.Year)
		}
		return
	}

	years := make([]float64, len(p.anchors))
	values := make([]float64, len(p.anchors))
	for i, a := range p.anchors {
		years[i] = float64(a.Year)
		if p.law == LawLinear {
			values[i] = a.Qubits
		} else {
			values[i] = math.Log10(a.Qubits)
		}
	}
	p.intercept, p.slope = stat.LinearRegression(years, values, nil, false)
}

// QubitsAt evaluates the projection at a (possibly fractional) year. The
// result is clamped to [1, 1e30].
func (p *Projection) QubitsAt(year float64) float64 {
	var q float64
	if p.law == LawLinear {
		q = p.intercept + p.slope*year
	} else {
		q = math.Pow(10, p.intercept+p.slope*year)
	}
	switch {
	case math.IsNaN(q), q < minQubits:
		return minQubits
	case q > maxQubits:
		return maxQubits
	default:
		return q
	}
}

// Anchors returns the fitted anchor points in year order.
func (p *Projection) Anchors() []Anchor {
	out := make([]Anchor, len(p.anchors))
	copy(out, p.anchors)
	return out
}

// Span returns the first and last anchor years.
func (p *Projection) Span() (first, last int) {
	return p.anchors[0].Year, p.anchors[len(p.anchors)-1].Year
}

// Load reads a JSON anchor list from r.
func Load(r io.Reader) ([]Anchor, error) {
	var anchors []Anchor
	if err := json.NewDecoder(r).Decode(&anchors); err != nil {
		return nil, apperrors.NewConfigError("decoding roadmap anchors: %v", err)
	}
	return anchors, nil
}

// LoadFile reads a JSON anchor list from the given path.
func LoadFile(path string) ([]Anchor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewConfigError("opening roadmap file %s: %v", path, err)
	}
	defer f.Close()
	return Load(f)
}
