package integrators

import "github.com/go-gl/mathgl/mgl64"

// Verlet is velocity Verlet with the acceleration held over the sub-step.
type Verlet struct{}

func NewVerlet() *Verlet {
	return &Verlet{}
}

func (v *Verlet) Step(b Body, acc mgl64.Vec3, dt float64) Body {
	dt2 := dt * dt
	return Body{
		Position: b.Position.Add(b.Velocity.Mul(dt)).Add(acc.Mul(0.5 * dt2)),
		Velocity: b.Velocity.Add(acc.Mul(dt)),
	}
}
