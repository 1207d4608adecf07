// Package solve locates roots of scalar advantage functions by bisection.
// The functions it searches are only piecewise well-behaved: they may return
// -Inf or NaN where an underlying formula is undefined, so every sample is
// sanitized before it steers the search, and the iteration budget bounds
// worst-case latency.
package solve

import (
	"math"

	"github.com/rs/zerolog/log"
)

const (
	// MaxIterations caps the number of bisection steps.
	MaxIterations = 100
	// RelativeTolerance is the bracket-width termination threshold,
	// relative to the midpoint magnitude.
	RelativeTolerance = 1e-9
	// ScanSteps is the number of decade-widened lower bounds probed before
	// bisection proper, preserving first-root-from-the-low-end semantics
	// when the root lies very close to the lower bound.
	ScanSteps = 8
)

// Func is a scalar function of one variable. Implementations may return NaN
// or -Inf at points where they are undefined.
type Func func(x float64) float64

// sample evaluates f and maps any NaN onto -Inf: a point where the
// advantage function cannot be evaluated is treated as "no advantage yet",
// keeping the search total over its domain.
func sample(f Func, x float64) float64 {
	v := f(x)
	if math.IsNaN(v) {
		return math.Inf(-1)
	}
	return v
}

// midpoint picks the next probe. Wide, strictly positive brackets (size
// searches spanning dozens of decades) bisect geometrically so the search
// converges in log space; narrow brackets (year searches) bisect
// arithmetically.
func midpoint(low, high float64) float64 {
	if low > 0 && high/low >= 10 {
		return math.Sqrt(low * high)
	}
	return low + (high-low)/2
}

// Bisect finds the point in [low, high] where f crosses from negative to
// positive.
//
// Degenerate-input policy: if f(low) > 0 the crossing has already occurred
// at or below the lower bound and low is returned immediately; if f never
// becomes positive by high, no root exists in the domain and ok=false is
// returned rather than an arbitrary midpoint.
//
// Parameters:
//   - f: The function to search. Failures at sample points (NaN) count as
//     negative.
//   - low, high: The search bracket; the caller must make it wide enough to
//     contain the root, if any.
//   - label: A diagnostic tag for logging only.
//
// Returns:
//   - float64: The located root (or low, for the immediate-positive case).
//   - bool: false if no sign change was observed in the bracket.
func Bisect(f Func, low, high float64, label string) (float64, bool) {
	if sample(f, low) > 0 {
		log.Debug().Str("search", label).Float64("low", low).Msg("already positive at lower bound")
		return low, true
	}
	if sample(f, high) <= 0 {
		log.Debug().Str("search", label).Float64("high", high).Msg("no sign change in bracket")
		return 0, false
	}

	for i := 0; i < MaxIterations; i++ {
		mid := midpoint(low, high)
		if high-low <= RelativeTolerance*math.Max(1, math.Abs(mid)) {
			return mid, true
		}
		if sample(f, mid) > 0 {
			high = mid
		} else {
			low = mid
		}
	}
	return midpoint(low, high), true
}

// BisectScan runs Bisect after probing decade-widened lower bounds
// low, 10*low, 100*low, ... so that a root lying just above low is bracketed
// tightly instead of being hunted across the whole domain. The first probe
// that is positive closes the bracket; scanning from the low end keeps the
// first root when the function changes sign more than once.
//
// Parameters and returns match Bisect.
func BisectScan(f Func, low, high float64, label string) (float64, bool) {
	if sample(f, low) > 0 {
		return low, true
	}
	if low <= 0 {
		return Bisect(f, low, high, label)
	}

	prev := low
	for k := 1; k <= ScanSteps; k++ {
		x := low * math.Pow(10, float64(k))
		if x >= high {
			break
		}
		if sample(f, x) > 0 {
			return Bisect(f, prev, x, label)
		}
		prev = x
	}
	return Bisect(f, prev, high, label)
}
