package engine

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/buoysim/internal/integrators"
)

type simpleBody struct {
	static   bool
	desc     BodyDescriptor
	position mgl64.Vec3
	velocity mgl64.Vec3
	force    mgl64.Vec3

	impulse     mgl64.Vec3
	contactTime float64
}

func (b *simpleBody) invMass() float64 {
	if b.static || b.desc.Mass <= 0 {
		return 0
	}
	return 1 / b.desc.Mass
}

// Simple is a non-rotating box engine. Bodies are unions of axis-aligned
// boxes; overlapping parts are pushed apart along the axis of least
// penetration and the approaching velocity along that axis is removed.
// Collisions are perfectly inelastic and frictionless.
type Simple struct {
	bodies []*simpleBody
	clock  Clock
	scheme integrators.Integrator
}

// NewSimple builds an engine that sub-steps with the named integrator.
func NewSimple(scheme string, timing Timing) (*Simple, error) {
	in, err := integrators.Get(scheme)
	if err != nil {
		return nil, err
	}
	return &Simple{clock: NewClock(timing), scheme: in}, nil
}

func (s *Simple) body(h Handle) *simpleBody {
	if int(h) < 0 || int(h) >= len(s.bodies) {
		return nil
	}
	return s.bodies[h]
}

func (s *Simple) CreateBody(desc BodyDescriptor, static bool) (Handle, error) {
	if err := desc.Validate(static); err != nil {
		return -1, err
	}
	s.bodies = append(s.bodies, &simpleBody{static: static, desc: cloneDesc(desc)})
	return Handle(len(s.bodies) - 1), nil
}

func (s *Simple) UpdateBody(h Handle, desc BodyDescriptor) error {
	b := s.body(h)
	if b == nil {
		return fmt.Errorf("%w: %d", ErrUnknownHandle, h)
	}
	if err := desc.Validate(b.static); err != nil {
		return err
	}
	b.desc = cloneDesc(desc)
	return nil
}

func (s *Simple) ApplyForce(h Handle, force mgl64.Vec3) {
	if b := s.body(h); b != nil {
		b.force = b.force.Add(force)
	}
}

func (s *Simple) Position(h Handle) mgl64.Vec3 {
	if b := s.body(h); b != nil {
		return b.position
	}
	return mgl64.Vec3{}
}

func (s *Simple) SetPosition(h Handle, p mgl64.Vec3) {
	if b := s.body(h); b != nil {
		b.position = p
	}
}

func (s *Simple) Velocity(h Handle) mgl64.Vec3 {
	if b := s.body(h); b != nil {
		return b.velocity
	}
	return mgl64.Vec3{}
}

func (s *Simple) SetVelocity(h Handle, v mgl64.Vec3) {
	if b := s.body(h); b != nil && !b.static {
		b.velocity = v
	}
}

// ContactForce is the mean contact force over the time stepped since the
// last reset.
func (s *Simple) ContactForce(h Handle) mgl64.Vec3 {
	b := s.body(h)
	if b == nil || b.contactTime <= 0 {
		return mgl64.Vec3{}
	}
	return b.impulse.Mul(1 / b.contactTime)
}

func (s *Simple) ResetContactForce(h Handle) {
	if b := s.body(h); b != nil {
		b.impulse = mgl64.Vec3{}
		b.contactTime = 0
	}
}

func (s *Simple) InterpolationRatio() float64 { return s.clock.Ratio() }

// Step advances by dt in fixed sub-steps. Applied forces are consumed.
func (s *Simple) Step(dt float64) {
	n := s.clock.Advance(dt)
	h := s.clock.FixedStep()
	for i := 0; i < n; i++ {
		s.substep(h)
	}
	for _, b := range s.bodies {
		b.force = mgl64.Vec3{}
	}
}

func (s *Simple) substep(h float64) {
	for _, b := range s.bodies {
		b.contactTime += h
		if b.static {
			continue
		}
		acc := b.force.Mul(b.invMass())
		next := s.scheme.Step(integrators.Body{Position: b.position, Velocity: b.velocity}, acc, h)
		b.position, b.velocity = next.Position, next.Velocity
	}
	for i := 0; i < len(s.bodies); i++ {
		for j := i + 1; j < len(s.bodies); j++ {
			a, b := s.bodies[i], s.bodies[j]
			if a.static && b.static {
				continue
			}
			for _, pa := range a.desc.Parts {
				for _, pb := range b.desc.Parts {
					resolve(a, b, pa, pb)
				}
			}
		}
	}
}

// resolve separates one pair of parts and removes the approaching velocity.
func resolve(a, b *simpleBody, pa, pb Part) {
	aMin, aMax := a.position.Add(pa.Min()), a.position.Add(pa.Max())
	bMin, bMax := b.position.Add(pb.Min()), b.position.Add(pb.Max())

	axis, depth := -1, math.Inf(1)
	for k := 0; k < 3; k++ {
		o := math.Min(aMax[k], bMax[k]) - math.Max(aMin[k], bMin[k])
		if o <= 0 {
			return
		}
		if o < depth {
			axis, depth = k, o
		}
	}

	var n mgl64.Vec3
	if (bMin[axis] + bMax[axis]) >= (aMin[axis] + aMax[axis]) {
		n[axis] = 1
	} else {
		n[axis] = -1
	}

	ia, ib := a.invMass(), b.invMass()
	sum := ia + ib
	if sum == 0 {
		return
	}
	a.position = a.position.Sub(n.Mul(depth * ia / sum))
	b.position = b.position.Add(n.Mul(depth * ib / sum))

	vn := b.velocity.Sub(a.velocity).Dot(n)
	if vn >= 0 {
		return
	}
	j := -vn / sum
	a.velocity = a.velocity.Sub(n.Mul(j * ia))
	b.velocity = b.velocity.Add(n.Mul(j * ib))
	a.impulse = a.impulse.Sub(n.Mul(j))
	b.impulse = b.impulse.Add(n.Mul(j))
}

func cloneDesc(d BodyDescriptor) BodyDescriptor {
	d.Parts = append([]Part(nil), d.Parts...)
	return d
}

var _ Engine = (*Simple)(nil)
