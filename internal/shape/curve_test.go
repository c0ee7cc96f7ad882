package shape

import (
	"math"
	"testing"
)

func TestCurveInterpolation(t *testing.T) {
	c := NewCurve(4, func(t float64) float64 { return t })

	tests := []struct {
		t, area, volume float64
	}{
		{0, 0, 0},
		{0.25, 0.25, 0.03125},
		{0.5, 0.5, 0.125},
		{0.375, 0.375, 0.078125},
		{1, 1, 0.5},
		{1.5, 1, 0.5},
		{-1, 0, 0},
	}

	for _, tt := range tests {
		if got := c.Area(tt.t); math.Abs(got-tt.area) > 1e-12 {
			t.Errorf("Area(%v) = %v, want %v", tt.t, got, tt.area)
		}
		if got := c.Volume(tt.t); math.Abs(got-tt.volume) > 1e-12 {
			t.Errorf("Volume(%v) = %v, want %v", tt.t, got, tt.volume)
		}
	}
}

func TestHullCurvesMonotone(t *testing.T) {
	for name, c := range map[string]*Curve{"boat": BoatCurve, "bottle": BottleCurve} {
		prev := -1.0
		for i := 0; i <= 1000; i++ {
			v := c.Volume(float64(i) / 1000)
			if v < prev {
				t.Fatalf("%s volume decreased at sample %d", name, i)
			}
			prev = v
		}
		if c.TotalVolume() <= 0 || c.TotalVolume() > 1 {
			t.Errorf("%s total volume fraction %g out of (0, 1]", name, c.TotalVolume())
		}
		if c.Samples() != DefaultCurveSamples {
			t.Errorf("%s samples = %d", name, c.Samples())
		}
	}
}

func TestBoatCurveIntegral(t *testing.T) {
	// ∫(k + (1-k)√t) dt over [0,1] = k + 2(1-k)/3
	want := boatKeelFraction + 2*(1-boatKeelFraction)/3
	if got := BoatCurve.TotalVolume(); math.Abs(got-want) > 1e-3 {
		t.Errorf("boat volume fraction = %g, want %g", got, want)
	}
}
