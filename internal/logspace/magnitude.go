// Package logspace evaluates cost formulas in logarithmic space. A value is
// carried as a (sign, log10 magnitude) pair through every operator, so
// doubly-exponential and factorial-like terms never materialize as raw
// float64 values and never overflow. For any formula that evaluates finitely
// in raw space, 10^Transform(f)(scope) agrees with the raw evaluation to
// within floating-point precision; for formulas whose raw value would
// overflow, the transform still returns a finite, meaningful log10.
package logspace

import (
	"math"

	apperrors "github.com/MIT-FutureTech/quantum-framework/internal/errors"
)

// maxMaterializeLog is the largest log10 magnitude that can be converted
// back into a finite float64 (log10(math.MaxFloat64) ≈ 308.25).
const maxMaterializeLog = 308.25

// Magnitude represents the real value Sign * 10^Log without ever holding the
// raw value. Sign is -1, 0 or +1; Log is log10 of the absolute value and is
// -Inf when Sign is 0.
type Magnitude struct {
	Sign int
	Log  float64
}

// Zero returns the Magnitude of the value 0.
func Zero() Magnitude {
	return Magnitude{Sign: 0, Log: math.Inf(-1)}
}

// FromFloat converts a finite float64 into a Magnitude.
func FromFloat(v float64) (Magnitude, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Magnitude{}, apperrors.NewEvalError("cannot represent %v in log space", v)
	}
	if v == 0 {
		return Zero(), nil
	}
	sign := 1
	if v < 0 {
		sign = -1
	}
	return Magnitude{Sign: sign, Log: math.Log10(math.Abs(v))}, nil
}

// Float materializes the raw value. It reports ok=false when the magnitude
// lies beyond the representable float64 range.
func (m Magnitude) Float() (float64, bool) {
	if m.Sign == 0 {
		return 0, true
	}
	if m.Log > maxMaterializeLog {
		return 0, false
	}
	return snapToInt(float64(m.Sign) * math.Pow(10, m.Log)), true
}

// snapToInt rounds v to the nearest integer when it sits within the relative
// error the log10 round-trip introduces (10^log10(1024) lands on
// 1024.0000000000002, and an exponent of 3 comes back as
// 2.9999999999999996, which would defeat integrality checks in Pow).
func snapToInt(v float64) float64 {
	r := math.Round(v)
	if r != v && math.Abs(v-r) <= math.Abs(v)*1e-12 {
		return r
	}
	return v
}

// Neg returns the additive inverse.
func (m Magnitude) Neg() Magnitude {
	return Magnitude{Sign: -m.Sign, Log: m.Log}
}

// Add sums two logged magnitudes using the log-sum-exp identity:
// for same-sign operands, log10(|a|+|b|) = hi + log1p(10^(lo-hi))/ln(10).
// Opposite signs subtract the smaller magnitude from the larger; exact
// cancellation yields zero.
func Add(a, b Magnitude) Magnitude {
	if a.Sign == 0 {
		return b
	}
	if b.Sign == 0 {
		return a
	}
	hi, lo := a, b
	if b.Log > a.Log {
		hi, lo = b, a
	}
	d := math.Pow(10, lo.Log-hi.Log) // in (0, 1]
	if a.Sign == b.Sign {
		return Magnitude{Sign: a.Sign, Log: hi.Log + math.Log1p(d)/math.Ln10}
	}
	if lo.Log == hi.Log {
		return Zero()
	}
	return Magnitude{Sign: hi.Sign, Log: hi.Log + math.Log1p(-d)/math.Ln10}
}

// Sub returns a - b.
func Sub(a, b Magnitude) Magnitude {
	return Add(a, b.Neg())
}

// Mul multiplies two logged magnitudes by summing their logs.
func Mul(a, b Magnitude) Magnitude {
	if a.Sign == 0 || b.Sign == 0 {
		return Zero()
	}
	return Magnitude{Sign: a.Sign * b.Sign, Log: a.Log + b.Log}
}

// Div divides two logged magnitudes by subtracting their logs.
func Div(a, b Magnitude) (Magnitude, error) {
	if b.Sign == 0 {
		return Magnitude{}, apperrors.NewEvalError("division by zero")
	}
	if a.Sign == 0 {
		return Zero(), nil
	}
	return Magnitude{Sign: a.Sign * b.Sign, Log: a.Log - b.Log}, nil
}

// Pow raises a to the power b. The exponent must be materializable as a
// float64 (an exponent beyond 10^308 has no finite log-space result either);
// a negative base requires an integer exponent.
func Pow(a, b Magnitude) (Magnitude, error) {
	bv, ok := b.Float()
	if !ok {
		return Magnitude{}, apperrors.NewEvalError("exponent magnitude 10^%g is too large", b.Log)
	}

	switch {
	case a.Sign == 0:
		if bv > 0 {
			return Zero(), nil
		}
		if bv == 0 {
			return Magnitude{Sign: 1, Log: 0}, nil // 0^0 = 1 by convention
		}
		return Magnitude{}, apperrors.NewEvalError("zero raised to negative power %g", bv)

	case a.Sign > 0:
		return checkedLog(1, bv*a.Log)

	default: // negative base
		if bv != math.Trunc(bv) || math.Abs(bv) >= 1e15 {
			return Magnitude{}, apperrors.NewEvalError("negative base with non-integer exponent %g", bv)
		}
		sign := 1
		if int64(bv)%2 != 0 {
			sign = -1
		}
		return checkedLog(sign, bv*a.Log)
	}
}

// Exp10 returns 10^x for a materializable exponent x.
func Exp10(x Magnitude) (Magnitude, error) {
	xv, ok := x.Float()
	if !ok {
		return Magnitude{}, apperrors.NewEvalError("exponent magnitude 10^%g is too large", x.Log)
	}
	return checkedLog(1, xv)
}

// checkedLog builds a Magnitude from a computed log10 value, rejecting
// overflowed (infinite) log magnitudes.
func checkedLog(sign int, logValue float64) (Magnitude, error) {
	if math.IsNaN(logValue) || math.IsInf(logValue, 1) {
		return Magnitude{}, apperrors.NewEvalError("magnitude beyond representable log range")
	}
	if math.IsInf(logValue, -1) {
		return Zero(), nil
	}
	return Magnitude{Sign: sign, Log: logValue}, nil
}
