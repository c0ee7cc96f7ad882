package fluid

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/buoysim/internal/mathx"
)

// submerge caches the submerged volume of every mass. It never reports more
// than the fluid its basin actually holds.
func (m *Model) submerge() {
	for _, ms := range m.masses {
		ms.submerged = 0
		if !ms.visible || ms.basin < 0 {
			continue
		}
		b := m.basins[ms.basin]
		sub := math.Min(ms.displacedVolume(b.height), b.volume)
		if sub < 0 {
			m.assert("negative submerged volume", "mass", ms.id, "volume", sub)
			sub = 0
		}
		ms.submerged = sub
	}
}

func (m *Model) applyForces(dt float64) {
	g, rho := m.ctx.Gravity, m.ctx.Density
	for _, ms := range m.masses {
		if !ms.visible {
			continue
		}
		v := m.clampVelocity(ms)

		f := Forces{
			Gravity: mgl64.Vec3{0, -ms.mass * g, 0},
			Contact: ms.forces.Contact,
		}
		if ms.basin >= 0 {
			geff := mathx.NonNegative(g + m.basins[ms.basin].accel)
			f.Buoyancy = mgl64.Vec3{0, ms.submerged * rho * geff, 0}
			f.Viscous = m.viscous(ms, v, dt)
		}
		if ms.hull >= 0 {
			hold := m.basins[ms.hull]
			geff := mathx.NonNegative(g + hold.accel)
			f.Load = mgl64.Vec3{0, -rho * geff * m.carried(hold), 0}
		}
		ms.forces = f

		if ms.movable {
			m.eng.ApplyForce(ms.body, f.Applied())
		}
	}
}

// carried is the fluid in a hold plus what its floaters displace, which is
// the weight the hull bears through the fluid.
func (m *Model) carried(hold *Basin) float64 {
	v := hold.volume
	for _, i := range hold.members {
		v += m.masses[i].submerged
	}
	return v
}

// viscous opposes v in proportion to the submerged fraction. The magnitude
// is capped at |v|·m/dt so the drag can stop the body within a tick but
// never reverse it.
func (m *Model) viscous(ms *Mass, v mgl64.Vec3, dt float64) mgl64.Vec3 {
	speed := v.Len()
	frac := ms.fraction()
	if speed == 0 || frac == 0 {
		return mgl64.Vec3{}
	}
	mag := m.ctx.viscousCoefficient(ms.equivalentRadius()) * frac * speed
	if limit := speed * ms.mass / dt; mag > limit {
		mag = limit
	}
	return v.Mul(-mag / speed)
}

func (m *Model) clampVelocity(ms *Mass) mgl64.Vec3 {
	v := ms.velocity
	if s := v.Len(); s > m.ctx.MaxVelocity {
		v = v.Mul(m.ctx.MaxVelocity / s)
		ms.velocity = v
		if ms.movable {
			m.eng.SetVelocity(ms.body, v)
		}
	}
	return v
}
