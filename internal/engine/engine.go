// Package engine defines the narrow rigid-body interface the fluid core
// consumes, and a small built-in engine that implements it.
//
// The core never resolves collisions itself: it creates bodies, pushes forces
// and velocities, reads back positions and contact forces, and asks the engine
// to advance. Engines sub-step internally and expose the leftover fraction of
// a fixed step through [Engine.InterpolationRatio].
package engine

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/buoysim/internal/mathx"
)

var (
	// ErrInvalidBody indicates a descriptor with no parts, a non-positive
	// mass on a dynamic body, or non-finite geometry.
	ErrInvalidBody = errors.New("engine: invalid body descriptor")

	// ErrUnknownHandle indicates a handle the engine never issued.
	ErrUnknownHandle = errors.New("engine: unknown body handle")
)

// Handle identifies a body inside one engine.
type Handle int

// Part is an axis-aligned box in body-local coordinates.
type Part struct {
	Center mgl64.Vec3
	Size   mgl64.Vec3
}

// Min returns the local lower corner.
func (p Part) Min() mgl64.Vec3 { return p.Center.Sub(p.Size.Mul(0.5)) }

// Max returns the local upper corner.
func (p Part) Max() mgl64.Vec3 { return p.Center.Add(p.Size.Mul(0.5)) }

// BodyDescriptor is the collision geometry and mass of a body. Bodies never
// rotate, so the geometry is a union of axis-aligned boxes.
type BodyDescriptor struct {
	Mass  float64
	Parts []Part
}

// BoxDescriptor is a single centered box.
func BoxDescriptor(mass float64, size mgl64.Vec3) BodyDescriptor {
	return BodyDescriptor{Mass: mass, Parts: []Part{{Size: size}}}
}

// Validate checks the descriptor. Static bodies may have zero mass.
func (d BodyDescriptor) Validate(static bool) error {
	if len(d.Parts) == 0 {
		return fmt.Errorf("%w: no parts", ErrInvalidBody)
	}
	if !static && (!mathx.Finite(d.Mass) || d.Mass <= 0) {
		return fmt.Errorf("%w: mass %g", ErrInvalidBody, d.Mass)
	}
	for i, p := range d.Parts {
		for k := 0; k < 3; k++ {
			if !mathx.Finite(p.Center[k]) || !mathx.Finite(p.Size[k]) || p.Size[k] < 0 {
				return fmt.Errorf("%w: part %d", ErrInvalidBody, i)
			}
		}
	}
	return nil
}

// Engine is the external rigid-body integrator.
//
// ContactForce is only meaningful right after Step and accumulates until
// ResetContactForce. Forces passed to ApplyForce act for the next Step only.
type Engine interface {
	CreateBody(desc BodyDescriptor, static bool) (Handle, error)
	UpdateBody(h Handle, desc BodyDescriptor) error
	ApplyForce(h Handle, force mgl64.Vec3)
	Position(h Handle) mgl64.Vec3
	SetPosition(h Handle, p mgl64.Vec3)
	Velocity(h Handle) mgl64.Vec3
	SetVelocity(h Handle, v mgl64.Vec3)
	ContactForce(h Handle) mgl64.Vec3
	ResetContactForce(h Handle)
	Step(dt float64)
	InterpolationRatio() float64
}

// Timing controls fixed-step sub-stepping.
type Timing struct {
	FixedStep   float64
	MaxSubSteps int
}

const (
	DefaultFixedStep   = 1.0 / 120.0
	DefaultMaxSubSteps = 8
)

func DefaultTiming() Timing {
	return Timing{FixedStep: DefaultFixedStep, MaxSubSteps: DefaultMaxSubSteps}
}

// Clock turns variable frame times into a whole number of fixed steps and
// keeps the remainder for interpolation. Every engine sub-steps through one.
type Clock struct {
	timing      Timing
	accumulator float64
}

const clockSlack = 1e-9

// NewClock fills zero timing fields with the defaults.
func NewClock(t Timing) Clock {
	if t.FixedStep <= 0 {
		t.FixedStep = DefaultFixedStep
	}
	if t.MaxSubSteps <= 0 {
		t.MaxSubSteps = DefaultMaxSubSteps
	}
	return Clock{timing: t}
}

func (c *Clock) Timing() Timing     { return c.timing }
func (c *Clock) FixedStep() float64 { return c.timing.FixedStep }

// Advance returns the number of fixed steps to run for a frame of length dt.
// Time beyond MaxSubSteps is dropped rather than carried into a spiral.
func (c *Clock) Advance(dt float64) int {
	if !mathx.Finite(dt) || dt <= 0 {
		return 0
	}
	c.accumulator += dt
	n := 0
	for c.accumulator >= c.timing.FixedStep-clockSlack && n < c.timing.MaxSubSteps {
		c.accumulator -= c.timing.FixedStep
		n++
	}
	if n == c.timing.MaxSubSteps && c.accumulator >= c.timing.FixedStep {
		c.accumulator = 0
	}
	if c.accumulator < 0 {
		c.accumulator = 0
	}
	return n
}

// Ratio is the leftover fraction of a fixed step, in [0, 1].
func (c *Clock) Ratio() float64 {
	return mathx.Clamp01(c.accumulator / c.timing.FixedStep)
}
