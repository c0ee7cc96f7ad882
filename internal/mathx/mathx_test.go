package mathx

import (
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		v, lo, hi, want float64
	}{
		{0.5, 0, 1, 0.5},
		{-1, 0, 1, 0},
		{2, 0, 1, 1},
		{1, 1, 1, 1},
	}

	for _, tt := range tests {
		if got := Clamp(tt.v, tt.lo, tt.hi); got != tt.want {
			t.Errorf("Clamp(%v, %v, %v) = %v, want %v", tt.v, tt.lo, tt.hi, got, tt.want)
		}
	}

	if got := Clamp(7, 0, 5); got != 5 {
		t.Errorf("integer Clamp = %d, want 5", got)
	}
}

func TestRoundTo(t *testing.T) {
	tests := []struct {
		v, step, want float64
	}{
		{0.12345678, 1e-7, 0.1234568},
		{-0.12345678, 1e-7, -0.1234568},
		{1.0, 0, 1.0},
		{0.25, 0.5, 0.5},
	}

	for _, tt := range tests {
		if got := RoundTo(tt.v, tt.step); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("RoundTo(%v, %v) = %v, want %v", tt.v, tt.step, got, tt.want)
		}
	}
}

func TestFinite(t *testing.T) {
	tests := []struct {
		name string
		v    float64
		want bool
	}{
		{"zero", 0, true},
		{"normal", -3.5, true},
		{"nan", math.NaN(), false},
		{"+inf", math.Inf(1), false},
		{"-inf", math.Inf(-1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Finite(tt.v); got != tt.want {
				t.Errorf("Finite(%v) = %v, want %v", tt.v, got, tt.want)
			}
		})
	}

	if got := FiniteOr(math.NaN(), 2.0); got != 2.0 {
		t.Errorf("FiniteOr(NaN) = %v, want 2", got)
	}
}

func TestLerpAndNonNegative(t *testing.T) {
	if got := Lerp(2.0, 4.0, 0.25); got != 2.5 {
		t.Errorf("Lerp = %v, want 2.5", got)
	}
	if got := NonNegative(-1e-12); got != 0 {
		t.Errorf("NonNegative = %v, want 0", got)
	}
	if got := Clamp01(1.5); got != 1 {
		t.Errorf("Clamp01 = %v, want 1", got)
	}
}
