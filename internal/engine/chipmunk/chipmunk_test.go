package chipmunk

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/buoysim/internal/engine"
)

func TestZIsCarried(t *testing.T) {
	e := New(engine.DefaultTiming())
	h, err := e.CreateBody(engine.BoxDescriptor(1, mgl64.Vec3{1, 1, 1}), false)
	if err != nil {
		t.Fatal(err)
	}
	e.SetPosition(h, mgl64.Vec3{1, 2, 3})
	if p := e.Position(h); p != (mgl64.Vec3{1, 2, 3}) {
		t.Errorf("position = %v", p)
	}
}

func TestForceAcceleratesBody(t *testing.T) {
	e := New(engine.Timing{FixedStep: 0.01, MaxSubSteps: 4})
	h, _ := e.CreateBody(engine.BoxDescriptor(2, mgl64.Vec3{1, 1, 1}), false)
	e.ApplyForce(h, mgl64.Vec3{4, 0, 0})
	e.Step(0.01)
	if v := e.Velocity(h).X(); math.Abs(v-0.02) > 1e-9 {
		t.Errorf("vx = %v, want 0.02", v)
	}
}

func TestStaticBodyHoldsPosition(t *testing.T) {
	e := New(engine.DefaultTiming())
	h, err := e.CreateBody(engine.BoxDescriptor(0, mgl64.Vec3{4, 1, 4}), true)
	if err != nil {
		t.Fatal(err)
	}
	e.SetPosition(h, mgl64.Vec3{0, -0.5, 0})
	e.Step(0.1)
	if p := e.Position(h); p.Y() != -0.5 {
		t.Errorf("static body moved to %v", p)
	}
}

func TestRejectsInvalidDescriptor(t *testing.T) {
	e := New(engine.DefaultTiming())
	if _, err := e.CreateBody(engine.BodyDescriptor{Mass: 1}, false); err == nil {
		t.Error("expected error")
	}
	if err := e.UpdateBody(5, engine.BoxDescriptor(1, mgl64.Vec3{1, 1, 1})); err == nil {
		t.Error("expected error for unknown handle")
	}
}

func TestSubStepsMatchBuiltinEngine(t *testing.T) {
	timing := engine.Timing{FixedStep: 0.01, MaxSubSteps: 4}
	cm := New(timing)
	simple, err := engine.NewSimple("euler", timing)
	if err != nil {
		t.Fatal(err)
	}

	for _, dt := range []float64{0.005, 0.0125, 0.0333, 0.2, 0.007} {
		cm.Step(dt)
		simple.Step(dt)
		if a, b := cm.InterpolationRatio(), simple.InterpolationRatio(); a != b {
			t.Errorf("after frame %v: chipmunk ratio %v, simple ratio %v", dt, a, b)
		}
	}
}
