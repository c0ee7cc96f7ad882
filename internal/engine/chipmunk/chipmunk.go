// Package chipmunk adapts the Chipmunk2D port to the engine interface.
//
// Chipmunk is planar: the x/y plane is simulated and z is carried through
// untouched. Bodies get an infinite moment so they never rotate, which keeps
// the vertical extent of every shape equal to its descriptor.
package chipmunk

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
	"github.com/san-kum/buoysim/internal/engine"
)

const (
	friction   = 0.4
	elasticity = 0.0
)

type body struct {
	cp     *cp.Body
	shapes []*cp.Shape
	static bool
	z      float64
	force  mgl64.Vec3

	impulse     mgl64.Vec3
	contactTime float64
}

// Engine wraps a cp.Space. Create one per model.
type Engine struct {
	space  *cp.Space
	bodies []*body
	clock  engine.Clock
}

// New returns an engine with the given sub-stepping.
func New(timing engine.Timing) *Engine {
	space := cp.NewSpace()
	space.Iterations = 20
	return &Engine{space: space, clock: engine.NewClock(timing)}
}

func (e *Engine) get(h engine.Handle) *body {
	if int(h) < 0 || int(h) >= len(e.bodies) {
		return nil
	}
	return e.bodies[h]
}

func (e *Engine) CreateBody(desc engine.BodyDescriptor, static bool) (engine.Handle, error) {
	if err := desc.Validate(static); err != nil {
		return -1, err
	}
	var cb *cp.Body
	if static {
		cb = cp.NewKinematicBody()
	} else {
		cb = cp.NewBody(desc.Mass, cp.INFINITY)
	}
	e.space.AddBody(cb)
	b := &body{cp: cb, static: static}
	e.attach(b, desc)
	e.bodies = append(e.bodies, b)
	return engine.Handle(len(e.bodies) - 1), nil
}

func (e *Engine) attach(b *body, desc engine.BodyDescriptor) {
	for _, p := range desc.Parts {
		lo, hi := p.Min(), p.Max()
		s := cp.NewBox2(b.cp, cp.BB{L: lo.X(), B: lo.Y(), R: hi.X(), T: hi.Y()}, 0)
		s.SetFriction(friction)
		s.SetElasticity(elasticity)
		e.space.AddShape(s)
		b.shapes = append(b.shapes, s)
	}
}

// UpdateBody swaps the collision shapes and, for dynamic bodies, the mass.
func (e *Engine) UpdateBody(h engine.Handle, desc engine.BodyDescriptor) error {
	b := e.get(h)
	if b == nil {
		return fmt.Errorf("%w: %d", engine.ErrUnknownHandle, h)
	}
	if err := desc.Validate(b.static); err != nil {
		return err
	}
	for _, s := range b.shapes {
		e.space.RemoveShape(s)
	}
	b.shapes = b.shapes[:0]
	e.attach(b, desc)
	if !b.static {
		b.cp.SetMass(desc.Mass)
	}
	return nil
}

func (e *Engine) ApplyForce(h engine.Handle, f mgl64.Vec3) {
	if b := e.get(h); b != nil {
		b.force = b.force.Add(f)
	}
}

func (e *Engine) Position(h engine.Handle) mgl64.Vec3 {
	b := e.get(h)
	if b == nil {
		return mgl64.Vec3{}
	}
	p := b.cp.Position()
	return mgl64.Vec3{p.X, p.Y, b.z}
}

func (e *Engine) SetPosition(h engine.Handle, p mgl64.Vec3) {
	if b := e.get(h); b != nil {
		b.cp.SetPosition(cp.Vector{X: p.X(), Y: p.Y()})
		b.z = p.Z()
	}
}

func (e *Engine) Velocity(h engine.Handle) mgl64.Vec3 {
	b := e.get(h)
	if b == nil {
		return mgl64.Vec3{}
	}
	v := b.cp.Velocity()
	return mgl64.Vec3{v.X, v.Y, 0}
}

func (e *Engine) SetVelocity(h engine.Handle, v mgl64.Vec3) {
	if b := e.get(h); b != nil && !b.static {
		b.cp.SetVelocityVector(cp.Vector{X: v.X(), Y: v.Y()})
	}
}

func (e *Engine) ContactForce(h engine.Handle) mgl64.Vec3 {
	b := e.get(h)
	if b == nil || b.contactTime <= 0 {
		return mgl64.Vec3{}
	}
	return b.impulse.Mul(1 / b.contactTime)
}

func (e *Engine) ResetContactForce(h engine.Handle) {
	if b := e.get(h); b != nil {
		b.impulse = mgl64.Vec3{}
		b.contactTime = 0
	}
}

func (e *Engine) InterpolationRatio() float64 {
	return e.clock.Ratio()
}

// Step runs whole fixed steps of the space. Chipmunk clears body forces
// after every step, so the frame force is re-applied before each one.
func (e *Engine) Step(dt float64) {
	h := e.clock.FixedStep()
	for range e.clock.Advance(dt) {
		for _, b := range e.bodies {
			if !b.static {
				b.cp.SetForce(cp.Vector{X: b.force.X(), Y: b.force.Y()})
			}
		}
		e.space.Step(h)
		e.collect(h)
	}
	for _, b := range e.bodies {
		b.force = mgl64.Vec3{}
	}
}

func (e *Engine) collect(h float64) {
	for _, b := range e.bodies {
		b.contactTime += h
		b.cp.EachArbiter(func(arb *cp.Arbiter) {
			j := arb.TotalImpulse()
			b.impulse = b.impulse.Add(mgl64.Vec3{j.X, j.Y, 0})
		})
	}
}

var _ engine.Engine = (*Engine)(nil)
