package solver

import (
	"errors"
	"math"
	"testing"
)

func TestFindRootLinear(t *testing.T) {
	// empty volume of a 2 m² prism filled to 0.5 m³
	f := func(y float64) float64 { return 2*y - 0.5 }
	df := func(y float64) float64 { return 2 }

	res, err := FindRoot(0, 1, f, df, DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(res.Y-0.25) > 1e-7 {
		t.Errorf("root = %v, want 0.25", res.Y)
	}
	if !res.Converged {
		t.Error("expected convergence")
	}
}

func TestFindRootCubic(t *testing.T) {
	f := func(y float64) float64 { return y*y*y - 0.2 }
	df := func(y float64) float64 { return 3 * y * y }

	res, err := FindRoot(0, 1, f, df, Options{Tolerance: 1e-10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := math.Cbrt(0.2)
	if math.Abs(res.Y-want) > 1e-8 {
		t.Errorf("root = %v, want %v", res.Y, want)
	}
}

func TestFindRootZeroDerivativeFallsBack(t *testing.T) {
	f := func(y float64) float64 { return y - 0.3 }
	df := func(y float64) float64 { return 0 }

	res, err := FindRoot(0, 1, f, df, DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(res.Y-0.3) > 1e-7 {
		t.Errorf("root = %v, want 0.3", res.Y)
	}
}

func TestFindRootBadDerivative(t *testing.T) {
	// A wildly wrong derivative must not push the estimate out of the bracket.
	f := func(y float64) float64 { return y - 0.7 }
	df := func(y float64) float64 { return 1e-6 }

	res, err := FindRoot(0, 1, f, df, DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Y < 0 || res.Y > 1 || math.Abs(res.Y-0.7) > 1e-6 {
		t.Errorf("root = %v, want 0.7", res.Y)
	}
}

func TestFindRootSaturation(t *testing.T) {
	f := func(y float64) float64 { return y + 5 }
	df := func(y float64) float64 { return 1 }

	res, _ := FindRoot(0, 1, f, df, DefaultOptions())
	if res.Y != 0 {
		t.Errorf("expected lower bound, got %v", res.Y)
	}

	f = func(y float64) float64 { return y - 5 }
	res, _ = FindRoot(0, 1, f, df, DefaultOptions())
	if res.Y != 1 {
		t.Errorf("expected upper bound, got %v", res.Y)
	}
}

func TestFindRootBudget(t *testing.T) {
	f := func(y float64) float64 { return y - 1.0/3.0 }
	df := func(y float64) float64 { return 0 }

	res, err := FindRoot(0, 1, f, df, Options{Tolerance: 1e-15, MaxIterations: 3})
	if !errors.Is(err, ErrNoConvergence) {
		t.Fatalf("expected ErrNoConvergence, got %v", err)
	}
	// three bisections leave [0.25, 0.375]; the last iterate is its midpoint
	if res.Y != 0.3125 {
		t.Errorf("expected estimate 0.3125, got %v", res.Y)
	}
	if math.Abs(res.Residual-f(res.Y)) > 1e-15 {
		t.Errorf("residual %v does not belong to estimate %v", res.Residual, res.Y)
	}
	if res.Iterations != 3 {
		t.Errorf("expected 3 iterations, got %d", res.Iterations)
	}
	if res.Converged {
		t.Error("result should not report convergence")
	}
}
