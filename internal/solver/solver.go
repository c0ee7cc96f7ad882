// Package solver inverts monotone volume functions. Given a residual
// f(y) = emptyVolume(y) - target and its derivative (the empty area), it finds
// the level y in a bracket where f changes sign.
package solver

import (
	"errors"
	"math"
)

const (
	// DefaultTolerance is the residual accepted as converged, in basin volume units.
	DefaultTolerance = 1e-7

	// DefaultMaxIterations bounds the number of Newton/bisection steps.
	DefaultMaxIterations = 100
)

// ErrNoConvergence is returned alongside the best bracketed estimate when the
// iteration budget runs out.
var ErrNoConvergence = errors.New("solver: iteration budget exhausted")

// Func is a scalar function of height.
type Func func(y float64) float64

// Options controls the root finder.
type Options struct {
	Tolerance     float64
	MaxIterations int
}

func DefaultOptions() Options {
	return Options{Tolerance: DefaultTolerance, MaxIterations: DefaultMaxIterations}
}

// Result is the outcome of a root search.
type Result struct {
	Y          float64
	Residual   float64
	Iterations int
	Converged  bool
}

// FindRoot searches [lo, hi] for a root of the non-decreasing function f
// using Newton steps on df, falling back to bisection whenever a Newton step
// leaves the current bracket or df vanishes. It never returns a value outside
// [lo, hi]. On budget exhaustion it returns the last iterate, which lies in
// the final sign-change bracket, with its residual and ErrNoConvergence.
func FindRoot(lo, hi float64, f, df Func, opts Options) (Result, error) {
	if opts.Tolerance <= 0 {
		opts.Tolerance = DefaultTolerance
	}
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = DefaultMaxIterations
	}
	if hi < lo {
		lo, hi = hi, lo
	}

	if fl := f(lo); fl >= -opts.Tolerance {
		return Result{Y: lo, Residual: fl, Converged: math.Abs(fl) <= opts.Tolerance}, nil
	}
	if fh := f(hi); fh <= opts.Tolerance {
		return Result{Y: hi, Residual: fh, Converged: math.Abs(fh) <= opts.Tolerance}, nil
	}

	x := 0.5 * (lo + hi)
	var fx float64
	for i := 0; i < opts.MaxIterations; i++ {
		fx = f(x)
		if math.Abs(fx) <= opts.Tolerance {
			return Result{Y: x, Residual: fx, Iterations: i + 1, Converged: true}, nil
		}

		if fx < 0 {
			lo = x
		} else {
			hi = x
		}

		next := x
		if d := df(x); d > 0 && !math.IsInf(d, 0) {
			next = x - fx/d
		}
		if next <= lo || next >= hi || next == x {
			next = 0.5 * (lo + hi)
		}
		if next == x {
			// Bracket collapsed below float resolution.
			return Result{Y: x, Residual: fx, Iterations: i + 1, Converged: true}, nil
		}
		x = next
	}

	return Result{Y: x, Residual: f(x), Iterations: opts.MaxIterations}, ErrNoConvergence
}
