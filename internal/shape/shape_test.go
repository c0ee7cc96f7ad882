package shape

import (
	"errors"
	"math"
	"testing"
)

func allShapes() []Shape {
	return []Shape{
		NewBox(0.2, 0.1, 0.3),
		NewCube(0.1),
		NewCone(0.1, 0.2, false),
		NewCone(0.1, 0.2, true),
		NewEllipsoid(0.2, 0.15, 0.1),
		NewDuck(0.3, 0.25, 0.2),
		NewBottle(0.05, 0.3),
		NewBoatHull(0.4, 0.15, 0.3),
	}
}

func TestDisplacementContract(t *testing.T) {
	for _, s := range allShapes() {
		t.Run(s.String(), func(t *testing.T) {
			b := s.BoundsAt(1.0)
			maxV := s.MaxVolume()
			if maxV <= 0 {
				t.Fatalf("max volume %g should be positive", maxV)
			}

			prev := -1.0
			for i := -20; i <= 220; i++ {
				y := b.Bottom + float64(i)/200*(b.Top-b.Bottom)
				a := s.DisplacedArea(b, y)
				v := s.DisplacedVolume(b, y)

				if a < 0 || v < 0 {
					t.Fatalf("negative displacement at y=%g: area %g volume %g", y, a, v)
				}
				if y < b.Bottom && (a != 0 || v != 0) {
					t.Fatalf("nonzero displacement below bottom at y=%g", y)
				}
				if y > b.Top && a != 0 {
					t.Fatalf("nonzero area above top at y=%g", y)
				}
				if y >= b.Top && v != maxV {
					t.Fatalf("volume above top = %g, want %g", v, maxV)
				}
				if v < prev {
					t.Fatalf("volume decreased at y=%g: %g < %g", y, v, prev)
				}
				prev = v
			}
		})
	}
}

func TestAreaIsVolumeDerivative(t *testing.T) {
	for _, s := range allShapes() {
		s = s.Scaled(10)
		t.Run(s.String(), func(t *testing.T) {
			b := s.BoundsAt(0)
			h := (b.Top - b.Bottom) * 1e-4
			for _, ratio := range []float64{0.1, 0.3, 0.5, 0.7, 0.9} {
				y := b.Bottom + ratio*(b.Top-b.Bottom)
				numeric := (s.DisplacedVolume(b, y+h) - s.DisplacedVolume(b, y-h)) / (2 * h)
				area := s.DisplacedArea(b, y)
				if math.Abs(numeric-area) > 1e-2*math.Max(area, 1) {
					t.Errorf("ratio %.1f: dV/dy = %g, area = %g", ratio, numeric, area)
				}
			}
		})
	}
}

func TestConeClosedForm(t *testing.T) {
	full := math.Pi / 3

	down := NewCone(1, 1, false)
	b := down.BoundsAt(0.5)
	got := down.DisplacedVolume(b, 0.5)
	want := full * 0.125
	if math.Abs(got-want) > VolumeRounding {
		t.Errorf("vertex-down half volume = %.9f, want %.9f", got, want)
	}
	if a := down.DisplacedArea(b, 0.5); math.Abs(a-math.Pi*0.25) > 1e-12 {
		t.Errorf("vertex-down half area = %g, want %g", a, math.Pi*0.25)
	}

	up := NewCone(1, 1, true)
	got = up.DisplacedVolume(b, 0.5)
	want = full * 0.5 * (3 - 1.5 + 0.25)
	if math.Abs(got-want) > VolumeRounding {
		t.Errorf("vertex-up half volume = %.9f, want %.9f", got, want)
	}

	if math.Abs(down.MaxVolume()-full) > VolumeRounding || math.Abs(up.MaxVolume()-full) > VolumeRounding {
		t.Errorf("cone max volumes %g / %g, want %g", down.MaxVolume(), up.MaxVolume(), full)
	}
}

func TestConeVolumeIsRounded(t *testing.T) {
	s := NewCone(0.123, 0.456, false)
	b := s.BoundsAt(0)
	for _, y := range []float64{-0.2, -0.1, 0.05, 0.17} {
		v := s.DisplacedVolume(b, y)
		steps := v / VolumeRounding
		if math.Abs(steps-math.Round(steps)) > 1e-6 {
			t.Errorf("volume %g at y=%g not on the rounding grain", v, y)
		}
		if again := s.DisplacedVolume(b, y); again != v {
			t.Errorf("repeated query drifted: %g != %g", again, v)
		}
	}
}

func TestEllipsoidHalf(t *testing.T) {
	s := NewEllipsoid(0.2, 0.4, 0.3)
	b := s.BoundsAt(2)
	half := s.DisplacedVolume(b, 2)
	if math.Abs(half-s.MaxVolume()/2) > 1e-12 {
		t.Errorf("half volume %g, want %g", half, s.MaxVolume()/2)
	}
	want := 4.0 / 3.0 * math.Pi * 0.1 * 0.2 * 0.15
	if math.Abs(s.MaxVolume()-want) > 1e-12 {
		t.Errorf("max volume %g, want %g", s.MaxVolume(), want)
	}
}

func TestDuckMatchesBoundingEllipsoid(t *testing.T) {
	duck := NewDuck(0.3, 0.2, 0.25)
	ell := NewEllipsoid(0.3, 0.2, 0.25)
	b := duck.BoundsAt(0)
	for _, y := range []float64{-0.05, 0, 0.07} {
		if duck.DisplacedVolume(b, y) != ell.DisplacedVolume(b, y) {
			t.Errorf("duck and ellipsoid differ at y=%g", y)
		}
	}
}

func TestBoxLinear(t *testing.T) {
	s := NewBox(0.5, 2, 0.4)
	b := Bounds{Bottom: 0, Top: 2}
	if v := s.DisplacedVolume(b, 0.5); math.Abs(v-0.1) > 1e-12 {
		t.Errorf("box volume = %g, want 0.1", v)
	}
	if a := s.DisplacedArea(b, 1.3); math.Abs(a-0.2) > 1e-12 {
		t.Errorf("box area = %g, want 0.2", a)
	}
}

func TestWithVolume(t *testing.T) {
	for _, s := range allShapes() {
		r := s.WithVolume(0.002)
		if math.Abs(r.MaxVolume()-0.002) > 1e-6 {
			t.Errorf("%s rescaled volume %g, want 0.002", s, r.MaxVolume())
		}
		if r.Kind != s.Kind || r.VertexUp != s.VertexUp {
			t.Errorf("%s rescale changed the variant", s)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		shape Shape
		err   error
	}{
		{"ok", NewCube(1), nil},
		{"zero width", NewBox(0, 1, 1), ErrInvalidDimensions},
		{"negative height", NewEllipsoid(1, -1, 1), ErrInvalidDimensions},
		{"nan", NewBox(math.NaN(), 1, 1), ErrInvalidDimensions},
		{"unknown kind", Shape{Kind: Kind(99), Width: 1, Height: 1, Depth: 1}, ErrUnknownKind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.shape.Validate()
			if !errors.Is(err, tt.err) {
				t.Errorf("Validate() = %v, want %v", err, tt.err)
			}
		})
	}

	if err := (Bounds{Bottom: 1, Top: 0}).Validate(); !errors.Is(err, ErrInvertedBounds) {
		t.Errorf("inverted bounds accepted: %v", err)
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds() {
		got, err := ParseKind(k.String())
		if err != nil || got != k {
			t.Errorf("ParseKind(%q) = %v, %v", k.String(), got, err)
		}
	}
	if got, err := ParseKind("Cube"); err != nil || got != Box {
		t.Errorf("ParseKind(Cube) = %v, %v", got, err)
	}
	if _, err := ParseKind("sphere"); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("expected ErrUnknownKind, got %v", err)
	}
}
