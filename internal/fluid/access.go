package fluid

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/buoysim/internal/engine"
	"github.com/san-kum/buoysim/internal/mathx"
)

func (m *Model) Context() Context            { return m.ctx }
func (m *Model) Engine() engine.Engine       { return m.eng }
func (m *Model) Tick() int                   { return m.tick }
func (m *Model) Time() float64               { return m.time }
func (m *Model) GuardViolations() int        { return m.guard.violations }
func (m *Model) Masses() []*Mass             { return m.masses }
func (m *Model) Basins() []*Basin            { return m.basins }
func (m *Model) MassAt(i int) *Mass          { return m.masses[i] }
func (m *Model) BasinAt(i int) *Basin        { return m.basins[i] }
func (m *Model) Containers() []engine.Handle { return m.containers }

func (m *Model) Mass(id string) (*Mass, bool) {
	for _, ms := range m.masses {
		if ms.id == id {
			return ms, true
		}
	}
	return nil, false
}

func (m *Model) Basin(id string) (*Basin, bool) {
	for _, b := range m.basins {
		if b.id == id {
			return b, true
		}
	}
	return nil, false
}

// DiscardedVolume is the total pool overflow thrown away so far.
func (m *Model) DiscardedVolume() float64 {
	m.guard.check("model.discarded", "")
	return m.discarded
}

// TotalVolume is the fluid currently held by all basins.
func (m *Model) TotalVolume() float64 {
	m.guard.check("model.total_volume", "")
	var v float64
	for _, b := range m.basins {
		v += b.volume
	}
	return v
}

// Snapshot returns the state after the last tick.
func (m *Model) Snapshot() *Snapshot {
	m.guard.check("model.snapshot", "")
	return m.curr
}

// Observe blends the last two snapshots by the engine's interpolation ratio
// for smooth display. The result never feeds back into the physics.
func (m *Model) Observe() *Snapshot {
	m.guard.check("model.observe", "")
	return Interpolate(m.prev, m.curr, m.eng.InterpolationRatio())
}

func (m *Model) mutable(id string) (*Mass, error) {
	if m.guard.locked {
		return nil, ErrStepInProgress
	}
	ms, ok := m.Mass(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMass, id)
	}
	return ms, nil
}

// SetMassValue changes a body's mass between ticks.
func (m *Model) SetMassValue(id string, kg float64) error {
	ms, err := m.mutable(id)
	if err != nil {
		return err
	}
	if !mathx.Finite(kg) || kg <= 0 {
		return fmt.Errorf("%w: %g", ErrInvalidMass, kg)
	}
	ms.mass = kg
	if ms.body < 0 {
		return nil
	}
	desc := massDescriptor(ms.shape, kg)
	if ms.hull >= 0 {
		desc = hullDescriptor(ms.shape, m.basins[ms.hull].thickness, kg)
	}
	return m.eng.UpdateBody(ms.body, desc)
}

// SetVolume rescales a body uniformly so that its displacement is v. The
// mass value is kept, so density changes.
func (m *Model) SetVolume(id string, v float64) error {
	ms, err := m.mutable(id)
	if err != nil {
		return err
	}
	if ms.hull >= 0 {
		return ErrBoatGeometry
	}
	if !mathx.Finite(v) || v <= 0 {
		return fmt.Errorf("%w: %g", ErrInvalidVolume, v)
	}
	ms.shape = ms.shape.WithVolume(v)
	ms.maxVolume = ms.shape.MaxVolume()
	ms.bounds = ms.shape.BoundsAt(ms.position.Y())
	if ms.body < 0 {
		return nil
	}
	return m.eng.UpdateBody(ms.body, massDescriptor(ms.shape, ms.mass))
}

// SetPosition teleports a body and stops it.
func (m *Model) SetPosition(id string, p mgl64.Vec3) error {
	ms, err := m.mutable(id)
	if err != nil {
		return err
	}
	if !finiteVec(p) {
		return fmt.Errorf("%w: %v", ErrInvalidPosition, p)
	}
	ms.position = p
	ms.velocity = mgl64.Vec3{}
	ms.bounds = ms.shape.BoundsAt(p.Y())
	if ms.body >= 0 {
		m.eng.SetPosition(ms.body, p)
		m.eng.SetVelocity(ms.body, mgl64.Vec3{})
	}
	return nil
}

// SetBasinVolume replaces the fluid held by a basin. A pool over its rim is
// clamped on the next tick.
func (m *Model) SetBasinVolume(id string, v float64) error {
	if m.guard.locked {
		return ErrStepInProgress
	}
	b, ok := m.Basin(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownBasin, id)
	}
	if !mathx.Finite(v) || v < 0 {
		return fmt.Errorf("%w: %g", ErrInvalidVolume, v)
	}
	b.volume = v
	return nil
}
