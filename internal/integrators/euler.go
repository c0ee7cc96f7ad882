package integrators

import "github.com/go-gl/mathgl/mgl64"

// Euler is the explicit forward scheme: position uses the old velocity.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(b Body, acc mgl64.Vec3, dt float64) Body {
	return Body{
		Position: b.Position.Add(b.Velocity.Mul(dt)),
		Velocity: b.Velocity.Add(acc.Mul(dt)),
	}
}

// SymplecticEuler updates velocity first and moves with the new velocity.
// It is the scheme most rigid-body engines use and stays bounded on the
// buoyancy spring where explicit Euler gains energy.
type SymplecticEuler struct{}

func NewSymplecticEuler() *SymplecticEuler {
	return &SymplecticEuler{}
}

func (s *SymplecticEuler) Step(b Body, acc mgl64.Vec3, dt float64) Body {
	v := b.Velocity.Add(acc.Mul(dt))
	return Body{
		Position: b.Position.Add(v.Mul(dt)),
		Velocity: v,
	}
}
