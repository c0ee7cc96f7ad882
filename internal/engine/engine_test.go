package engine

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

const g = 9.8

func newFloorWorld(t *testing.T) (*Simple, Handle, Handle) {
	t.Helper()
	e, err := NewSimple("symplectic", Timing{FixedStep: 1.0 / 120, MaxSubSteps: 8})
	if err != nil {
		t.Fatal(err)
	}
	floor, err := e.CreateBody(BoxDescriptor(0, mgl64.Vec3{10, 1, 10}), true)
	if err != nil {
		t.Fatal(err)
	}
	e.SetPosition(floor, mgl64.Vec3{0, -0.5, 0})
	box, err := e.CreateBody(BoxDescriptor(2, mgl64.Vec3{1, 1, 1}), false)
	if err != nil {
		t.Fatal(err)
	}
	e.SetPosition(box, mgl64.Vec3{0, 0.5, 0})
	return e, floor, box
}

func TestRestingContactBalancesWeight(t *testing.T) {
	e, floor, box := newFloorWorld(t)
	for i := 0; i < 60; i++ {
		e.ResetContactForce(box)
		e.ApplyForce(box, mgl64.Vec3{0, -2 * g, 0})
		e.Step(1.0 / 60)
	}
	f := e.ContactForce(box)
	if math.Abs(f.Y()-2*g) > 1e-6 {
		t.Errorf("contact force = %v, want %v up", f, 2*g)
	}
	if y := e.Position(box).Y(); math.Abs(y-0.5) > 1e-3 {
		t.Errorf("box sank to %v", y)
	}
	if p := e.Position(floor); p != (mgl64.Vec3{0, -0.5, 0}) {
		t.Errorf("static body moved to %v", p)
	}
}

func TestForcesAreConsumedByStep(t *testing.T) {
	e, _ := NewSimple("", DefaultTiming())
	h, _ := e.CreateBody(BoxDescriptor(1, mgl64.Vec3{1, 1, 1}), false)
	e.ApplyForce(h, mgl64.Vec3{1, 0, 0})
	e.Step(DefaultFixedStep)
	v1 := e.Velocity(h)
	e.Step(DefaultFixedStep)
	if v2 := e.Velocity(h); v2 != v1 {
		t.Errorf("velocity changed without force: %v -> %v", v1, v2)
	}
}

func TestInterpolationRatio(t *testing.T) {
	e, _ := NewSimple("euler", Timing{FixedStep: 0.01, MaxSubSteps: 4})
	e.Step(0.005)
	if r := e.InterpolationRatio(); math.Abs(r-0.5) > 1e-9 {
		t.Errorf("ratio = %v, want 0.5", r)
	}
	e.Step(0.005)
	if r := e.InterpolationRatio(); r > 1e-6 {
		t.Errorf("ratio = %v, want 0", r)
	}
	e.Step(1)
	if r := e.InterpolationRatio(); r != 0 {
		t.Errorf("ratio after overload = %v, want 0", r)
	}
}

func TestClock(t *testing.T) {
	c := NewClock(Timing{})
	if c.Timing() != DefaultTiming() {
		t.Errorf("zero timing = %+v, want defaults", c.Timing())
	}

	c = NewClock(Timing{FixedStep: 0.01, MaxSubSteps: 4})
	tests := []struct {
		dt    float64
		steps int
		ratio float64
	}{
		{0.025, 2, 0.5},
		{0.005, 1, 0},
		{math.NaN(), 0, 0},
		{-1, 0, 0},
		{0.0099999999995, 1, 0}, // within slack of a whole step
		{1, 4, 0},
	}
	for _, tt := range tests {
		if n := c.Advance(tt.dt); n != tt.steps {
			t.Errorf("Advance(%v) = %d, want %d", tt.dt, n, tt.steps)
		}
		if r := c.Ratio(); math.Abs(r-tt.ratio) > 1e-6 {
			t.Errorf("after Advance(%v) ratio = %v, want %v", tt.dt, r, tt.ratio)
		}
	}
}

func TestDescriptorValidate(t *testing.T) {
	tests := []struct {
		name   string
		desc   BodyDescriptor
		static bool
		ok     bool
	}{
		{"box", BoxDescriptor(1, mgl64.Vec3{1, 1, 1}), false, true},
		{"static massless", BoxDescriptor(0, mgl64.Vec3{1, 1, 1}), true, true},
		{"dynamic massless", BoxDescriptor(0, mgl64.Vec3{1, 1, 1}), false, false},
		{"no parts", BodyDescriptor{Mass: 1}, false, false},
		{"negative size", BoxDescriptor(1, mgl64.Vec3{1, -1, 1}), false, false},
		{"nan", BoxDescriptor(1, mgl64.Vec3{math.NaN(), 1, 1}), false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.desc.Validate(tt.static)
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidBody) {
				t.Errorf("err = %v, want ErrInvalidBody", err)
			}
		})
	}
}

func TestUnknownHandle(t *testing.T) {
	e, _ := NewSimple("", DefaultTiming())
	if err := e.UpdateBody(3, BoxDescriptor(1, mgl64.Vec3{1, 1, 1})); !errors.Is(err, ErrUnknownHandle) {
		t.Errorf("err = %v", err)
	}
	if p := e.Position(7); p != (mgl64.Vec3{}) {
		t.Errorf("position of unknown handle = %v", p)
	}
}

func TestUnknownScheme(t *testing.T) {
	if _, err := NewSimple("rk99", DefaultTiming()); err == nil {
		t.Error("expected error")
	}
}
